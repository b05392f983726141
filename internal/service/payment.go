package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gameshop/internal/client"
	"gameshop/internal/config"
	"gameshop/internal/dto"
	"gameshop/internal/model"
	"gameshop/internal/repository"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	CommandTransactionStatusChanged = "transactionStatusChanged"

	defaultPerPage = 15
	maxPerPage     = 100
)

type PaymentService interface {
	SubmitPurchase(ctx context.Context, req *dto.PayRequest, clientIP string) (*dto.PayResponse, error)
	QueryStatus(ctx context.Context, orderKey string) (*dto.OrderView, error)
	UpdateReturnURLs(ctx context.Context, orderKey string, req *dto.UpdateReturnURLsRequest) (*dto.OrderView, error)
	ListChannels(ctx context.Context, languageCode string) (json.RawMessage, error)
	ListOrders(ctx context.Context, page, perPage int) (*dto.OrderPage, error)
	HandleNotification(ctx context.Context, cmd, args, sign string) error
}

type paymentServiceImpl struct {
	cashbillClient client.CashbillClient
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	cashbillCfg    *config.Cashbill
	clock          Clock
	logger         *slog.Logger
}

func NewPaymentService(
	cashbillClient client.CashbillClient,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	cashbillCfg *config.Cashbill,
	clock Clock,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		cashbillClient: cashbillClient,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		cashbillCfg:    cashbillCfg,
		clock:          clock,
		logger:         logger.With("component", "payment"),
	}
}

// SubmitPurchase prices the requested products, stores a PreStart order and opens a
// CashBill transaction for it. The order is removed again if CashBill refuses.
func (s *paymentServiceImpl) SubmitPurchase(ctx context.Context, req *dto.PayRequest, clientIP string) (*dto.PayResponse, error) {
	if err := validateItems(req.Products); err != nil {
		return nil, err
	}

	languageCode := req.LanguageCode
	if languageCode == "" {
		languageCode = s.cashbillCfg.LanguageCode
	}
	if !validLanguage(languageCode) {
		return nil, NewValidationError("language_code", "must be PL or EN")
	}

	productIDs := make([]uint, 0, len(req.Products))
	for _, item := range req.Products {
		productIDs = append(productIDs, item.ID)
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get many products by item ids: %w", err)
	}
	productMap := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	totalAmount := decimal.Zero
	lines := make([]model.LineItem, len(req.Products))
	names := make([]string, len(req.Products))
	for i, item := range req.Products {
		product, ok := productMap[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, item.ID)
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totalAmount = totalAmount.Add(subtotal)

		lines[i] = model.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
			ImageURL:  product.ImageURL,
		}
		names[i] = product.Name
	}

	additionalData, err := json.Marshal(map[string]string{"order_ref": uuid.NewString()})
	if err != nil {
		return nil, fmt.Errorf("marshal additional data: %w", err)
	}

	customer := model.CustomerData(req.CustomerData)
	order := &model.Order{
		Status:            model.StatusPreStart,
		Amount:            totalAmount,
		Currency:          s.cashbillCfg.Currency,
		Title:             fmt.Sprintf("Order #%d", s.clock.Now().Unix()),
		Description:       "Purchase: " + strings.Join(names, ", "),
		Products:          datatypes.NewJSONType(lines),
		CustomerData:      datatypes.NewJSONType(customer),
		PaymentChannel:    optional(req.PaymentChannel),
		AdditionalData:    string(additionalData),
		ReturnURL:         req.ReturnURL,
		NegativeReturnURL: optional(req.NegativeReturnURL),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	negativeReturnURL := req.NegativeReturnURL
	if negativeReturnURL == "" {
		negativeReturnURL = req.ReturnURL
	}

	created, err := s.cashbillClient.CreatePayment(ctx, &model.CashbillPaymentRequest{
		Title: order.Title,
		Amount: model.CashbillAmount{
			Value:        json.Number(totalAmount.String()),
			CurrencyCode: order.Currency,
		},
		Description:       order.Description,
		AdditionalData:    order.AdditionalData,
		ReturnURL:         req.ReturnURL,
		NegativeReturnURL: negativeReturnURL,
		PaymentChannel:    req.PaymentChannel,
		LanguageCode:      languageCode,
		Referer:           s.cashbillCfg.Referer,
		PersonalData: &model.CashbillPersonalData{
			FirstName: customer.FirstName,
			Surname:   customer.Surname,
			Email:     customer.Email,
			Country:   customer.Country,
			City:      customer.City,
			Postcode:  customer.Postcode,
			Street:    customer.Street,
			House:     customer.House,
			Flat:      customer.Flat,
			IP:        clientIP,
		},
	})
	if err != nil {
		s.discardOrder(ctx, order.ID, "")
		return nil, fmt.Errorf("create cashbill payment: %w", err)
	}

	if err := s.orderRepo.AttachRemote(ctx, order.ID, created.ID, created.RedirectURL); err != nil {
		s.logger.Error("attach cashbill transaction to order",
			"order_id", order.ID,
			"remote_id", created.ID,
			"error", err,
		)
		s.discardOrder(ctx, order.ID, created.ID)
		return nil, fmt.Errorf("attach cashbill transaction: %w", err)
	}

	s.logger.Info("payment created",
		"order_id", order.ID,
		"remote_id", created.ID,
		"amount", totalAmount.StringFixed(2),
	)

	return &dto.PayResponse{
		OrderID:         order.ID,
		CashbillOrderID: created.ID,
		RedirectURL:     created.RedirectURL,
		TotalAmount:     totalAmount,
		Products:        lines,
	}, nil
}

// QueryStatus returns the order, refreshed from CashBill when possible. A failed
// refresh is logged and the stored state is served.
func (s *paymentServiceImpl) QueryStatus(ctx context.Context, orderKey string) (*dto.OrderView, error) {
	order, err := s.findOrder(ctx, orderKey)
	if err != nil {
		return nil, err
	}

	if order.CashbillOrderID != nil {
		refreshed, err := s.reconcile(ctx, order)
		if err != nil {
			s.logger.Error("store refreshed status",
				"order_id", order.ID,
				"remote_id", order.RemoteID(),
				"error", err,
			)
		}
		order = refreshed
	}

	return dto.NewOrderView(order), nil
}

func (s *paymentServiceImpl) UpdateReturnURLs(ctx context.Context, orderKey string, req *dto.UpdateReturnURLsRequest) (*dto.OrderView, error) {
	order, err := s.findOrder(ctx, orderKey)
	if err != nil {
		return nil, err
	}
	if order.CashbillOrderID == nil {
		return nil, ErrOrderNotStarted
	}

	err = s.cashbillClient.UpdateReturnURLs(ctx, order.RemoteID(), req.ReturnURL, req.NegativeReturnURL)
	if err != nil {
		return nil, fmt.Errorf("update cashbill return urls: %w", err)
	}

	negative := optional(req.NegativeReturnURL)
	if err := s.orderRepo.UpdateReturnURLs(ctx, order.ID, req.ReturnURL, negative); err != nil {
		return nil, fmt.Errorf("store return urls: %w", err)
	}
	order.ReturnURL = req.ReturnURL
	order.NegativeReturnURL = negative

	return dto.NewOrderView(order), nil
}

func (s *paymentServiceImpl) ListChannels(ctx context.Context, languageCode string) (json.RawMessage, error) {
	if languageCode == "" {
		languageCode = s.cashbillCfg.LanguageCode
	}
	if !validLanguage(languageCode) {
		return nil, NewValidationError("language", "must be PL or EN")
	}

	channels, err := s.cashbillClient.ListChannels(ctx, languageCode)
	if err != nil {
		return nil, fmt.Errorf("list cashbill channels: %w", err)
	}
	return channels, nil
}

func (s *paymentServiceImpl) ListOrders(ctx context.Context, page, perPage int) (*dto.OrderPage, error) {
	page, perPage = normalizePage(page, perPage)

	orders, total, err := s.orderRepo.List(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	views := make([]*dto.OrderView, len(orders))
	for i, o := range orders {
		views[i] = dto.NewOrderView(o)
	}

	return &dto.OrderPage{
		Orders: views,
		Meta:   dto.NewPageMeta(page, perPage, total),
	}, nil
}

// HandleNotification processes a CashBill callback. Only a missing parameter or
// a bad signature is reported to the caller as a rejection; conditions the
// shop cannot act on are acknowledged.
func (s *paymentServiceImpl) HandleNotification(ctx context.Context, cmd, args, sign string) error {
	if cmd == "" || args == "" || sign == "" {
		return ErrMissingNotificationParams
	}
	if !s.cashbillClient.VerifyNotification(cmd, args, sign) {
		s.logger.Warn("notification signature mismatch", "cmd", cmd, "args", args)
		return ErrInvalidSignature
	}

	if cmd != CommandTransactionStatusChanged {
		s.logger.Info("ignoring notification", "cmd", cmd, "args", args)
		return nil
	}

	order, err := s.orderRepo.FindByRemoteID(ctx, args)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("notification for unknown transaction", "remote_id", args)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order by remote id: %w", err)
	}

	if _, err := s.reconcile(ctx, order); err != nil {
		return fmt.Errorf("reconcile order %d: %w", order.ID, err)
	}
	return nil
}

// reconcile overwrites the stored status with the one CashBill reports. It
// always returns the best known order; the error is set only when the
// database write failed.
func (s *paymentServiceImpl) reconcile(ctx context.Context, order *model.Order) (*model.Order, error) {
	details, err := s.cashbillClient.GetPayment(ctx, order.RemoteID())
	if err != nil {
		s.logger.Warn("status refresh failed, serving stored state",
			"order_id", order.ID,
			"remote_id", order.RemoteID(),
			"error", err,
		)
		return order, nil
	}

	if !details.Status.Known() {
		s.logger.Warn("unrecognized cashbill status",
			"order_id", order.ID,
			"remote_id", order.RemoteID(),
			"status", details.RawStatus,
		)
		return order, nil
	}

	updated, err := s.orderRepo.ApplyStatus(ctx, order.ID, details.Status, s.clock.Now())
	if err != nil {
		return order, err
	}

	if updated.Status != order.Status {
		s.logger.Info("order status updated",
			"order_id", order.ID,
			"remote_id", order.RemoteID(),
			"old_status", order.Status,
			"new_status", updated.Status,
		)
	}

	return updated, nil
}

// discardOrder removes an order that never got a usable CashBill transaction.
// remoteID is set when CashBill accepted the payment but the link was not stored.
func (s *paymentServiceImpl) discardOrder(ctx context.Context, orderID uint, remoteID string) {
	// the request may already be cancelled, the cleanup must still run
	if err := s.orderRepo.Delete(context.WithoutCancel(ctx), orderID); err != nil {
		s.logger.Error("delete order after failed payment creation",
			"order_id", orderID,
			"remote_id", remoteID,
			"error", err,
		)
		return
	}
	if remoteID != "" {
		s.logger.Warn("cashbill transaction left without an order",
			"order_id", orderID,
			"remote_id", remoteID,
		)
	}
}

func (s *paymentServiceImpl) findOrder(ctx context.Context, orderKey string) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDOrRemoteID(ctx, orderKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func validateItems(items []*dto.Item) error {
	if len(items) == 0 {
		return NewValidationError("products", "at least one product is required")
	}

	verr := &ValidationError{}
	for i, item := range items {
		if item == nil {
			verr.Add(fmt.Sprintf("products[%d]", i), "is required")
			continue
		}
		if item.ID == 0 {
			verr.Add(fmt.Sprintf("products[%d].id", i), "is required")
		}
		if item.Quantity < 1 {
			verr.Add(fmt.Sprintf("products[%d].quantity", i), "must be a positive integer")
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validLanguage(code string) bool {
	return code == "PL" || code == "EN"
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
