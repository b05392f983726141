package service

import (
	"context"
	"fmt"
	"gameshop/internal/dto"
	"gameshop/internal/repository"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dailyWindowDays     = 30
	monthlyWindowMonths = 12
	yearlyWindowYears   = 5
)

// AnalyticsService reports revenue over paid orders only: status
// PositiveFinish with paid_at set. Buckets are gap-filled with zeros.
type AnalyticsService interface {
	Report(ctx context.Context) (*dto.AnalyticsReport, error)
	Daily(ctx context.Context) ([]dto.DailyStat, error)
	Monthly(ctx context.Context) (*dto.MonthlyStats, error)
	Yearly(ctx context.Context) ([]dto.YearlyStat, error)
	Overall(ctx context.Context) (*dto.OverallStats, error)
}

type analyticsServiceImpl struct {
	orderRepo repository.OrderRepository
	clock     Clock
}

func NewAnalyticsService(orderRepo repository.OrderRepository, clock Clock) AnalyticsService {
	return &analyticsServiceImpl{
		orderRepo: orderRepo,
		clock:     clock,
	}
}

type bucket struct {
	orders  int64
	revenue decimal.Decimal
}

func (b bucket) revenueFloat() float64 {
	return b.revenue.Round(2).InexactFloat64()
}

func (s *analyticsServiceImpl) Report(ctx context.Context) (*dto.AnalyticsReport, error) {
	daily, err := s.Daily(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Monthly(ctx)
	if err != nil {
		return nil, err
	}
	yearly, err := s.Yearly(ctx)
	if err != nil {
		return nil, err
	}
	overall, err := s.Overall(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsReport{
		DailyStats:   daily,
		MonthlyStats: monthly,
		YearlyStats:  yearly,
		OverallStats: overall,
	}, nil
}

func (s *analyticsServiceImpl) Daily(ctx context.Context) ([]dto.DailyStat, error) {
	now := s.clock.Now()
	start := startOfDay(now).AddDate(0, 0, -dailyWindowDays)

	buckets, err := s.collect(ctx, start, func(t time.Time) string {
		return t.Format("2006-01-02")
	})
	if err != nil {
		return nil, err
	}

	stats := make([]dto.DailyStat, 0, dailyWindowDays+1)
	for day := start; !day.After(now); day = day.AddDate(0, 0, 1) {
		b := buckets[day.Format("2006-01-02")]
		stats = append(stats, dto.DailyStat{
			Date:          day.Format("2006-01-02"),
			FormattedDate: day.Format("02.01"),
			OrdersCount:   b.orders,
			Revenue:       b.revenueFloat(),
		})
	}
	return stats, nil
}

func (s *analyticsServiceImpl) Monthly(ctx context.Context) (*dto.MonthlyStats, error) {
	now := s.clock.Now()
	current := startOfMonth(now)
	start := current.AddDate(0, -monthlyWindowMonths, 0)

	buckets, err := s.collect(ctx, start, func(t time.Time) string {
		return t.Format("2006-01")
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.MonthlyStat, 0, monthlyWindowMonths+1)
	for month := start; !month.After(current); month = month.AddDate(0, 1, 0) {
		b := buckets[month.Format("2006-01")]
		data = append(data, dto.MonthlyStat{
			Year:          month.Year(),
			Month:         int(month.Month()),
			FormattedDate: month.Format("Jan 2006"),
			OrdersCount:   b.orders,
			Revenue:       b.revenueFloat(),
		})
	}

	cur := buckets[current.Format("2006-01")]
	prev := buckets[current.AddDate(0, -1, 0).Format("2006-01")]

	return &dto.MonthlyStats{
		Data: data,
		Growth: dto.MonthlyGrowth{
			Orders:  growth(decimal.NewFromInt(prev.orders), decimal.NewFromInt(cur.orders)),
			Revenue: growth(prev.revenue, cur.revenue),
		},
	}, nil
}

func (s *analyticsServiceImpl) Yearly(ctx context.Context) ([]dto.YearlyStat, error) {
	now := s.clock.Now()
	startYear := now.Year() - yearlyWindowYears
	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, now.Location())

	buckets, err := s.collect(ctx, start, func(t time.Time) string {
		return t.Format("2006")
	})
	if err != nil {
		return nil, err
	}

	stats := make([]dto.YearlyStat, 0, yearlyWindowYears+1)
	for year := startYear; year <= now.Year(); year++ {
		b := buckets[fmt.Sprintf("%04d", year)]
		stats = append(stats, dto.YearlyStat{
			Year:        year,
			OrdersCount: b.orders,
			Revenue:     b.revenueFloat(),
		})
	}
	return stats, nil
}

func (s *analyticsServiceImpl) Overall(ctx context.Context) (*dto.OverallStats, error) {
	now := s.clock.Now()
	today := startOfDay(now)
	month := startOfMonth(now)

	total, err := s.orderRepo.PaidTotals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("total paid orders: %w", err)
	}
	todayTotals, err := s.orderRepo.PaidTotals(ctx, &today)
	if err != nil {
		return nil, fmt.Errorf("today paid orders: %w", err)
	}
	monthTotals, err := s.orderRepo.PaidTotals(ctx, &month)
	if err != nil {
		return nil, fmt.Errorf("month paid orders: %w", err)
	}

	average := decimal.Zero
	if total.OrdersCount > 0 {
		average = total.Revenue.Div(decimal.NewFromInt(total.OrdersCount))
	}

	return &dto.OverallStats{
		TotalRevenue:      total.Revenue.Round(2).InexactFloat64(),
		TotalOrders:       total.OrdersCount,
		AverageOrderValue: average.Round(2).InexactFloat64(),
		TodayRevenue:      todayTotals.Revenue.Round(2).InexactFloat64(),
		TodayOrders:       todayTotals.OrdersCount,
		MonthRevenue:      monthTotals.Revenue.Round(2).InexactFloat64(),
		MonthOrders:       monthTotals.OrdersCount,
	}, nil
}

func (s *analyticsServiceImpl) collect(ctx context.Context, from time.Time, keyOf func(time.Time) string) (map[string]bucket, error) {
	rows, err := s.orderRepo.ListPaidSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}

	loc := from.Location()
	buckets := make(map[string]bucket)
	for _, row := range rows {
		key := keyOf(row.PaidAt.In(loc))
		b := buckets[key]
		b.orders++
		b.revenue = b.revenue.Add(row.Amount)
		buckets[key] = b
	}
	return buckets, nil
}

// growth is the percent change from prev to cur, rounded to 2 places. Growth
// from zero is 100 when anything was sold and 0 otherwise.
func growth(prev, cur decimal.Decimal) float64 {
	if prev.IsPositive() {
		return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	if cur.IsPositive() {
		return 100
	}
	return 0
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
