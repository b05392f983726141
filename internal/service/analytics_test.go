package service

import (
	"context"
	"testing"
	"time"

	"gameshop/internal/model"
	"gameshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPaidOrder(t *testing.T, repo repository.OrderRepository, amount string, paidAt time.Time) {
	t.Helper()

	order := &model.Order{
		Status:    model.StatusPreStart,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "PLN",
		ReturnURL: "https://shop.example.com",
	}
	require.NoError(t, repo.Create(context.Background(), order))
	_, err := repo.ApplyStatus(context.Background(), order.ID, model.StatusPositiveFinish, paidAt)
	require.NoError(t, err)
}

func newAnalyticsFixture(t *testing.T) AnalyticsService {
	t.Helper()

	repo := repository.NewOrderRepository(newTestDB(t))

	seedPaidOrder(t, repo, "10.00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	seedPaidOrder(t, repo, "20.00", time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC))
	seedPaidOrder(t, repo, "15.00", time.Date(2025, 2, 15, 8, 0, 0, 0, time.UTC))
	seedPaidOrder(t, repo, "5.00", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	pending := &model.Order{
		Status:    model.StatusStart,
		Amount:    decimal.RequireFromString("100.00"),
		Currency:  "PLN",
		ReturnURL: "https://shop.example.com",
	}
	require.NoError(t, repo.Create(context.Background(), pending))

	clock := &fixedClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewAnalyticsService(repo, clock)
}

func TestAnalytics_Daily(t *testing.T) {
	svc := newAnalyticsFixture(t)

	stats, err := svc.Daily(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 31)

	assert.Equal(t, "2025-02-08", stats[0].Date)
	assert.Equal(t, "08.02", stats[0].FormattedDate)
	assert.Zero(t, stats[0].OrdersCount)

	last := stats[len(stats)-1]
	assert.Equal(t, "2025-03-10", last.Date)
	assert.EqualValues(t, 1, last.OrdersCount)
	assert.InDelta(t, 10.0, last.Revenue, 0.001)

	byDate := map[string]float64{}
	for _, s := range stats {
		byDate[s.Date] = s.Revenue
	}
	assert.InDelta(t, 20.0, byDate["2025-03-02"], 0.001)
	assert.InDelta(t, 15.0, byDate["2025-02-15"], 0.001)
	assert.Zero(t, byDate["2025-03-01"])
}

func TestAnalytics_Monthly(t *testing.T) {
	svc := newAnalyticsFixture(t)

	monthly, err := svc.Monthly(context.Background())
	require.NoError(t, err)
	require.Len(t, monthly.Data, 13)

	first := monthly.Data[0]
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 3, first.Month)
	assert.Equal(t, "Mar 2024", first.FormattedDate)

	current := monthly.Data[12]
	assert.Equal(t, 2025, current.Year)
	assert.Equal(t, 3, current.Month)
	assert.EqualValues(t, 2, current.OrdersCount)
	assert.InDelta(t, 30.0, current.Revenue, 0.001)

	june := monthly.Data[3]
	assert.Equal(t, 6, june.Month)
	assert.EqualValues(t, 1, june.OrdersCount)

	assert.InDelta(t, 100.0, monthly.Growth.Orders, 0.001)
	assert.InDelta(t, 100.0, monthly.Growth.Revenue, 0.001)
}

func TestAnalytics_Yearly(t *testing.T) {
	svc := newAnalyticsFixture(t)

	yearly, err := svc.Yearly(context.Background())
	require.NoError(t, err)
	require.Len(t, yearly, 6)

	assert.Equal(t, 2020, yearly[0].Year)
	assert.Zero(t, yearly[0].OrdersCount)
	assert.Equal(t, 2024, yearly[4].Year)
	assert.InDelta(t, 5.0, yearly[4].Revenue, 0.001)
	assert.Equal(t, 2025, yearly[5].Year)
	assert.EqualValues(t, 3, yearly[5].OrdersCount)
	assert.InDelta(t, 45.0, yearly[5].Revenue, 0.001)
}

func TestAnalytics_Overall(t *testing.T) {
	svc := newAnalyticsFixture(t)

	overall, err := svc.Overall(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, overall.TotalOrders)
	assert.InDelta(t, 50.0, overall.TotalRevenue, 0.001)
	assert.InDelta(t, 12.5, overall.AverageOrderValue, 0.001)
	assert.EqualValues(t, 1, overall.TodayOrders)
	assert.InDelta(t, 10.0, overall.TodayRevenue, 0.001)
	assert.EqualValues(t, 2, overall.MonthOrders)
	assert.InDelta(t, 30.0, overall.MonthRevenue, 0.001)
}

func TestAnalytics_EmptyStore(t *testing.T) {
	repo := repository.NewOrderRepository(newTestDB(t))
	svc := NewAnalyticsService(repo, &fixedClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.DailyStats, 31)
	assert.Len(t, report.MonthlyStats.Data, 13)
	assert.Len(t, report.YearlyStats, 6)
	assert.Zero(t, report.OverallStats.TotalOrders)
	assert.Zero(t, report.OverallStats.AverageOrderValue)
	assert.Zero(t, report.MonthlyStats.Growth.Revenue)
}

func TestGrowth(t *testing.T) {
	d := decimal.RequireFromString
	assert.Equal(t, 0.0, growth(decimal.Zero, decimal.Zero))
	assert.Equal(t, 100.0, growth(decimal.Zero, d("12.50")))
	assert.Equal(t, -50.0, growth(d("20"), d("10")))
	assert.Equal(t, 33.33, growth(d("3"), d("4")))
}
