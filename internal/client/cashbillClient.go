package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gameshop/internal/config"
	"gameshop/internal/model"
)

const (
	cashbillLiveURL = "https://pay.cashbill.pl/ws/rest"
	cashbillTestURL = "https://pay.cashbill.pl/testws/rest"

	reasonUnavailable = "Payment service unavailable"
	reasonUnknown     = "Unknown error"

	maxResponseBytes = 1 << 20
)

type CashbillClient interface {
	CreatePayment(ctx context.Context, req *model.CashbillPaymentRequest) (*model.CashbillPaymentCreated, error)
	GetPayment(ctx context.Context, remoteID string) (*PaymentDetails, error)
	UpdateReturnURLs(ctx context.Context, remoteID, returnURL, negativeReturnURL string) error
	ListChannels(ctx context.Context, languageCode string) (json.RawMessage, error)
	VerifyNotification(cmd, args, sign string) bool
}

// PaymentDetails is a decoded status read. RawStatus keeps the provider value,
// which matters when Status is StatusUnknown.
type PaymentDetails struct {
	ID        string
	Status    model.PaymentStatus
	RawStatus string
	Payment   model.CashbillPayment
}

// GatewayError is returned for every failed CashBill call.
type GatewayError struct {
	Op         string
	Reason     string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("cashbill %s: %s (status %d)", e.Op, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("cashbill %s: %s", e.Op, e.Reason)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type cashbillClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	shopID     string
	signer     *Signer
	logger     *slog.Logger
}

func NewCashbillClient(cfg *config.Cashbill, logger *slog.Logger) CashbillClient {
	return &cashbillClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseApiURL: CashbillBaseURL(cfg),
		shopID:     cfg.ShopID,
		signer:     NewSigner(cfg.SecretKey),
		logger:     logger.With("component", "cashbill"),
	}
}

// CashbillBaseURL picks the live or sandbox REST root unless an override is configured.
func CashbillBaseURL(cfg *config.Cashbill) string {
	if cfg.BaseApiURL != "" {
		return strings.TrimRight(cfg.BaseApiURL, "/")
	}
	if cfg.TestMode {
		return cashbillTestURL
	}
	return cashbillLiveURL
}

func (c *cashbillClientImpl) CreatePayment(ctx context.Context, req *model.CashbillPaymentRequest) (*model.CashbillPaymentCreated, error) {
	const op = "create payment"

	signed := *req
	signed.Sign = c.signer.PaymentSign(req)

	body, err := json.Marshal(&signed)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	status, respBody, err := c.do(ctx, http.MethodPost, c.baseApiURL+"/payment/"+url.PathEscape(c.shopID), body)
	if err != nil {
		return nil, c.fail(op, "", 0, reasonUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, c.fail(op, "", status, errorReason(respBody), nil)
	}

	var created model.CashbillPaymentCreated
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, c.fail(op, "", status, "malformed response", err)
	}
	if created.ID == "" {
		return nil, c.fail(op, "", status, "response carried no transaction id", nil)
	}

	return &created, nil
}

func (c *cashbillClientImpl) GetPayment(ctx context.Context, remoteID string) (*PaymentDetails, error) {
	const op = "get payment"

	endpoint := fmt.Sprintf(
		"%s/payment/%s/%s?sign=%s",
		c.baseApiURL,
		url.PathEscape(c.shopID),
		url.PathEscape(remoteID),
		c.signer.Sign(remoteID),
	)

	status, respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(op, remoteID, 0, reasonUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, c.fail(op, remoteID, status, errorReason(respBody), nil)
	}

	var payment model.CashbillPayment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, c.fail(op, remoteID, status, "malformed response", err)
	}

	return &PaymentDetails{
		ID:        payment.ID,
		Status:    model.ParsePaymentStatus(payment.Status),
		RawStatus: payment.Status,
		Payment:   payment,
	}, nil
}

func (c *cashbillClientImpl) UpdateReturnURLs(ctx context.Context, remoteID, returnURL, negativeReturnURL string) error {
	const op = "update return urls"

	payload := struct {
		ReturnURL         string `json:"returnUrl"`
		NegativeReturnURL string `json:"negativeReturnUrl,omitempty"`
		Sign              string `json:"sign"`
	}{
		ReturnURL:         returnURL,
		NegativeReturnURL: negativeReturnURL,
		Sign:              c.signer.Sign(remoteID, returnURL, negativeReturnURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal return urls: %w", err)
	}

	endpoint := fmt.Sprintf("%s/payment/%s/%s", c.baseApiURL, url.PathEscape(c.shopID), url.PathEscape(remoteID))
	status, respBody, err := c.do(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return c.fail(op, remoteID, 0, reasonUnavailable, err)
	}
	if status != http.StatusNoContent {
		return c.fail(op, remoteID, status, errorReason(respBody), nil)
	}

	return nil
}

func (c *cashbillClientImpl) ListChannels(ctx context.Context, languageCode string) (json.RawMessage, error) {
	const op = "list channels"

	endpoint := fmt.Sprintf("%s/paymentchannels/%s/%s", c.baseApiURL, url.PathEscape(c.shopID), url.PathEscape(languageCode))
	status, respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(op, "", 0, reasonUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, c.fail(op, "", status, errorReason(respBody), nil)
	}
	if !json.Valid(respBody) {
		return nil, c.fail(op, "", status, "malformed response", nil)
	}

	return json.RawMessage(respBody), nil
}

func (c *cashbillClientImpl) VerifyNotification(cmd, args, sign string) bool {
	return c.signer.VerifyNotification(cmd, args, sign)
}

func (c *cashbillClientImpl) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func (c *cashbillClientImpl) fail(op, remoteID string, status int, reason string, err error) error {
	c.logger.Error("cashbill request failed",
		"op", op,
		"remote_id", remoteID,
		"status", status,
		"reason", reason,
		"error", err,
	)
	return &GatewayError{Op: op, Reason: reason, StatusCode: status, Err: err}
}

func errorReason(body []byte) string {
	var e model.CashbillError
	if err := json.Unmarshal(body, &e); err == nil && e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return reasonUnknown
}
