package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gameshop/internal/client"
	"gameshop/internal/config"
	"gameshop/internal/dto"
	"gameshop/internal/model"
	"gameshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type paymentFixture struct {
	svc       PaymentService
	cashbill  *MockCashbillClient
	orderRepo repository.OrderRepository
	clock     *fixedClock
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepository(db)
	require.NoError(t, productRepo.Seed(context.Background(), defaultProducts()))

	f := &paymentFixture{
		cashbill:  &MockCashbillClient{},
		orderRepo: repository.NewOrderRepository(db),
		clock:     &fixedClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	f.svc = NewPaymentService(
		f.cashbill,
		productRepo,
		f.orderRepo,
		&config.Cashbill{Currency: "PLN", Referer: "game-shop", LanguageCode: "PL"},
		f.clock,
		discardLogger(),
	)
	return f
}

// startedOrder stores an order already linked to a CashBill transaction.
func (f *paymentFixture) startedOrder(t *testing.T, remoteID string) *model.Order {
	t.Helper()

	order := &model.Order{
		Status:       model.StatusPreStart,
		Amount:       decimal.RequireFromString("19.99"),
		Currency:     "PLN",
		Title:        "Order #1",
		Products:     datatypes.NewJSONType([]model.LineItem{}),
		CustomerData: datatypes.NewJSONType(model.CustomerData{Email: "steve@example.com"}),
		ReturnURL:    "https://shop.example.com/thanks",
	}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))
	require.NoError(t, f.orderRepo.AttachRemote(context.Background(), order.ID, remoteID, "https://pay.example.com/"+remoteID))

	stored, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	return stored
}

func payRequest(items ...*dto.Item) *dto.PayRequest {
	return &dto.PayRequest{
		Products: items,
		CustomerData: dto.CustomerData{
			FirstName: "Steve",
			Surname:   "Miner",
			Email:     "steve@example.com",
		},
		ReturnURL: "https://shop.example.com/thanks",
	}
}

func TestSubmitPurchase_Success(t *testing.T) {
	f := newPaymentFixture(t)

	f.cashbill.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req *model.CashbillPaymentRequest) bool {
		return req.Amount.Value == json.Number("39.98") &&
			req.Amount.CurrencyCode == "PLN" &&
			req.NegativeReturnURL == "https://shop.example.com/thanks" &&
			req.LanguageCode == "PL" &&
			req.PersonalData != nil && req.PersonalData.IP == "10.0.0.7"
	})).Return(&model.CashbillPaymentCreated{ID: "CB123", RedirectURL: "https://pay.example.com/CB123"}, nil).Once()

	resp, err := f.svc.SubmitPurchase(context.Background(), payRequest(&dto.Item{ID: 2, Quantity: 2}), "10.0.0.7")
	require.NoError(t, err)

	assert.Equal(t, "CB123", resp.CashbillOrderID)
	assert.Equal(t, "https://pay.example.com/CB123", resp.RedirectURL)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("39.98")))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "SVIP", resp.Products[0].Name)
	assert.True(t, resp.Products[0].Subtotal.Equal(decimal.RequireFromString("39.98")))

	stored, err := f.orderRepo.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPreStart, stored.Status)
	assert.Equal(t, "CB123", stored.RemoteID())
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("39.98")))
	assert.Equal(t, "Purchase: SVIP", stored.Description)
	assert.Equal(t, "steve@example.com", stored.CustomerData.Data().Email)

	f.cashbill.AssertExpectations(t)
}

func TestSubmitPurchase_GatewayFailureRemovesOrder(t *testing.T) {
	f := newPaymentFixture(t)

	f.cashbill.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, &client.GatewayError{Op: "create payment", Reason: "Shop is inactive", StatusCode: 500}).Once()

	_, err := f.svc.SubmitPurchase(context.Background(), payRequest(&dto.Item{ID: 1, Quantity: 1}), "10.0.0.7")
	require.Error(t, err)

	var gwErr *client.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "Shop is inactive", gwErr.Reason)

	_, total, err := f.orderRepo.List(context.Background(), 1, 15)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmitPurchase_AttachFailureRemovesOrder(t *testing.T) {
	f := newPaymentFixture(t)
	existing := f.startedOrder(t, "CB123")

	// CashBill hands back an id already linked to another order
	f.cashbill.On("CreatePayment", mock.Anything, mock.Anything).
		Return(&model.CashbillPaymentCreated{ID: "CB123", RedirectURL: "https://pay.example.com/CB123"}, nil).Once()

	_, err := f.svc.SubmitPurchase(context.Background(), payRequest(&dto.Item{ID: 1, Quantity: 1}), "10.0.0.7")
	require.Error(t, err)

	orders, total, err := f.orderRepo.List(context.Background(), 1, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, existing.ID, orders[0].ID)
	assert.Equal(t, "CB123", orders[0].RemoteID())
}

func TestSubmitPurchase_SumsEveryLine(t *testing.T) {
	f := newPaymentFixture(t)

	f.cashbill.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req *model.CashbillPaymentRequest) bool {
		return req.Amount.Value == json.Number("79.94")
	})).Return(&model.CashbillPaymentCreated{ID: "CB700", RedirectURL: "https://pay.example.com/CB700"}, nil).Once()

	resp, err := f.svc.SubmitPurchase(context.Background(), payRequest(
		&dto.Item{ID: 1, Quantity: 3},
		&dto.Item{ID: 2, Quantity: 2},
		&dto.Item{ID: 1, Quantity: 1},
	), "10.0.0.7")
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("79.94")), resp.TotalAmount.String())
	require.Len(t, resp.Products, 3)
	assert.True(t, resp.Products[0].Subtotal.Equal(decimal.RequireFromString("29.97")))
	assert.True(t, resp.Products[1].Subtotal.Equal(decimal.RequireFromString("39.98")))
	assert.True(t, resp.Products[2].Subtotal.Equal(decimal.RequireFromString("9.99")))

	stored, err := f.orderRepo.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("79.94")), stored.Amount.String())
	assert.Equal(t, "Purchase: VIP, SVIP, VIP", stored.Description)
	f.cashbill.AssertExpectations(t)
}

func TestSubmitPurchase_UnknownProduct(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.SubmitPurchase(context.Background(), payRequest(&dto.Item{ID: 999, Quantity: 1}), "10.0.0.7")
	assert.ErrorIs(t, err, ErrProductNotFound)
	f.cashbill.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestSubmitPurchase_InvalidInput(t *testing.T) {
	f := newPaymentFixture(t)

	tests := []struct {
		name  string
		req   *dto.PayRequest
		field string
	}{
		{"no products", payRequest(), "products"},
		{"zero quantity", payRequest(&dto.Item{ID: 1, Quantity: 0}), "products[0].quantity"},
		{"unsupported language", func() *dto.PayRequest {
			r := payRequest(&dto.Item{ID: 1, Quantity: 1})
			r.LanguageCode = "DE"
			return r
		}(), "language_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitPurchase(context.Background(), tt.req, "")
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestHandleNotification_Rejections(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.HandleNotification(context.Background(), "transactionStatusChanged", "", "abc")
	assert.ErrorIs(t, err, ErrMissingNotificationParams)

	f.cashbill.On("VerifyNotification", "transactionStatusChanged", "CB1", "bad").Return(false).Once()
	err = f.svc.HandleNotification(context.Background(), "transactionStatusChanged", "CB1", "bad")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	f.cashbill.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
}

func TestHandleNotification_IgnoredCommandAndUnknownTransaction(t *testing.T) {
	f := newPaymentFixture(t)

	f.cashbill.On("VerifyNotification", mock.Anything, mock.Anything, mock.Anything).Return(true)

	assert.NoError(t, f.svc.HandleNotification(context.Background(), "somethingElse", "CB1", "sig"))
	assert.NoError(t, f.svc.HandleNotification(context.Background(), CommandTransactionStatusChanged, "CB-missing", "sig"))
	f.cashbill.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
}

func TestHandleNotification_PaidIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	order := f.startedOrder(t, "CB200")

	f.cashbill.On("VerifyNotification", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.cashbill.On("GetPayment", mock.Anything, "CB200").Return(&client.PaymentDetails{
		ID:        "CB200",
		Status:    model.StatusPositiveFinish,
		RawStatus: "PositiveFinish",
	}, nil)

	firstPaid := f.clock.now
	require.NoError(t, f.svc.HandleNotification(context.Background(), CommandTransactionStatusChanged, "CB200", "sig"))

	stored, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPositiveFinish, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(firstPaid))

	f.clock.now = firstPaid.Add(time.Hour)
	require.NoError(t, f.svc.HandleNotification(context.Background(), CommandTransactionStatusChanged, "CB200", "sig"))

	stored, err = f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPositiveFinish, stored.Status)
	assert.True(t, stored.PaidAt.Equal(firstPaid))
}

func TestHandleNotification_GatewayFailureIsAcknowledged(t *testing.T) {
	f := newPaymentFixture(t)
	order := f.startedOrder(t, "CB300")

	f.cashbill.On("VerifyNotification", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.cashbill.On("GetPayment", mock.Anything, "CB300").
		Return(nil, &client.GatewayError{Op: "get payment", Reason: "Payment service unavailable"})

	require.NoError(t, f.svc.HandleNotification(context.Background(), CommandTransactionStatusChanged, "CB300", "sig"))

	stored, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPreStart, stored.Status)
}

func TestQueryStatus(t *testing.T) {
	t.Run("refreshes from cashbill", func(t *testing.T) {
		f := newPaymentFixture(t)
		order := f.startedOrder(t, "CB400")

		f.cashbill.On("GetPayment", mock.Anything, "CB400").Return(&client.PaymentDetails{
			ID:        "CB400",
			Status:    model.StatusNegativeFinish,
			RawStatus: "NegativeFinish",
		}, nil).Once()

		view, err := f.svc.QueryStatus(context.Background(), "CB400")
		require.NoError(t, err)
		assert.Equal(t, order.ID, view.OrderID)
		assert.Equal(t, model.StatusNegativeFinish, view.Status)
		assert.True(t, view.IsFailed)
		assert.False(t, view.IsPending)
		assert.Nil(t, view.PaidAt)
	})

	t.Run("serves stored state when cashbill is down", func(t *testing.T) {
		f := newPaymentFixture(t)
		order := f.startedOrder(t, "CB401")

		f.cashbill.On("GetPayment", mock.Anything, "CB401").
			Return(nil, &client.GatewayError{Op: "get payment", Reason: "Payment service unavailable"}).Once()

		view, err := f.svc.QueryStatus(context.Background(), "CB401")
		require.NoError(t, err)
		assert.Equal(t, order.ID, view.OrderID)
		assert.Equal(t, model.StatusPreStart, view.Status)
		assert.True(t, view.IsPending)
	})

	t.Run("unknown provider status is not stored", func(t *testing.T) {
		f := newPaymentFixture(t)
		order := f.startedOrder(t, "CB402")

		f.cashbill.On("GetPayment", mock.Anything, "CB402").Return(&client.PaymentDetails{
			ID:        "CB402",
			Status:    model.StatusUnknown,
			RawStatus: "TimeoutSoon",
		}, nil).Once()

		view, err := f.svc.QueryStatus(context.Background(), "CB402")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPreStart, view.Status)

		stored, err := f.orderRepo.FindByID(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPreStart, stored.Status)
	})

	t.Run("order without transaction is not refreshed", func(t *testing.T) {
		f := newPaymentFixture(t)
		order := &model.Order{Status: model.StatusPreStart, Currency: "PLN", ReturnURL: "https://shop.example.com"}
		require.NoError(t, f.orderRepo.Create(context.Background(), order))

		view, err := f.svc.QueryStatus(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, order.ID, view.OrderID)
		f.cashbill.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.QueryStatus(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestUpdateReturnURLs(t *testing.T) {
	f := newPaymentFixture(t)
	order := f.startedOrder(t, "CB500")

	f.cashbill.On("UpdateReturnURLs", mock.Anything, "CB500", "https://shop.example.com/ok", "https://shop.example.com/fail").
		Return(nil).Once()

	view, err := f.svc.UpdateReturnURLs(context.Background(), "CB500", &dto.UpdateReturnURLsRequest{
		ReturnURL:         "https://shop.example.com/ok",
		NegativeReturnURL: "https://shop.example.com/fail",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/ok", view.ReturnURL)

	stored, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/ok", stored.ReturnURL)
	require.NotNil(t, stored.NegativeReturnURL)
	assert.Equal(t, "https://shop.example.com/fail", *stored.NegativeReturnURL)
}

func TestUpdateReturnURLs_NotStarted(t *testing.T) {
	f := newPaymentFixture(t)
	order := &model.Order{Status: model.StatusPreStart, Currency: "PLN", ReturnURL: "https://shop.example.com"}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))

	_, err := f.svc.UpdateReturnURLs(context.Background(), "1", &dto.UpdateReturnURLsRequest{ReturnURL: "https://x.example.com"})
	assert.ErrorIs(t, err, ErrOrderNotStarted)
}

func TestListChannels(t *testing.T) {
	f := newPaymentFixture(t)

	f.cashbill.On("ListChannels", mock.Anything, "PL").Return(json.RawMessage(`[{"id":"blik"}]`), nil).Once()

	channels, err := f.svc.ListChannels(context.Background(), "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"blik"}]`, string(channels))

	_, err = f.svc.ListChannels(context.Background(), "FR")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestListOrders(t *testing.T) {
	f := newPaymentFixture(t)
	f.startedOrder(t, "CB600")
	f.startedOrder(t, "CB601")

	page, err := f.svc.ListOrders(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Equal(t, 15, page.Meta.PerPage)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.Len(t, page.Orders, 2)
}
