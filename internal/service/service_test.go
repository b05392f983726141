package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"gameshop/internal/client"
	"gameshop/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type MockCashbillClient struct {
	mock.Mock
}

func (m *MockCashbillClient) CreatePayment(ctx context.Context, req *model.CashbillPaymentRequest) (*model.CashbillPaymentCreated, error) {
	args := m.Called(ctx, req)
	created, _ := args.Get(0).(*model.CashbillPaymentCreated)
	return created, args.Error(1)
}

func (m *MockCashbillClient) GetPayment(ctx context.Context, remoteID string) (*client.PaymentDetails, error) {
	args := m.Called(ctx, remoteID)
	details, _ := args.Get(0).(*client.PaymentDetails)
	return details, args.Error(1)
}

func (m *MockCashbillClient) UpdateReturnURLs(ctx context.Context, remoteID, returnURL, negativeReturnURL string) error {
	args := m.Called(ctx, remoteID, returnURL, negativeReturnURL)
	return args.Error(0)
}

func (m *MockCashbillClient) ListChannels(ctx context.Context, languageCode string) (json.RawMessage, error) {
	args := m.Called(ctx, languageCode)
	channels, _ := args.Get(0).(json.RawMessage)
	return channels, args.Error(1)
}

func (m *MockCashbillClient) VerifyNotification(cmd, args, sign string) bool {
	return m.Called(cmd, args, sign).Bool(0)
}
