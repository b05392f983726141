package handler

import (
	"errors"
	"fmt"
	"gameshop/internal/dto"
	"gameshop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Channels(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.ChannelsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	channels, err := h.paymentService.ListChannels(ctx, q.LanguageCode)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(channels))
}

func (h *PaymentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PayRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.paymentService.SubmitPurchase(ctx, &req, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(result))
}

func (h *PaymentHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.paymentService.QueryStatus(ctx, c.Param("orderId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(view))
}

func (h *PaymentHandler) UpdateReturnURLs(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateReturnURLsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.paymentService.UpdateReturnURLs(ctx, c.Param("orderId"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(view))
}

// Notification answers CashBill in plain text. Parameters are read from the
// query string, or the form body on POST.
func (h *PaymentHandler) Notification(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.paymentService.HandleNotification(ctx,
		c.FormValue("cmd"),
		c.FormValue("args"),
		c.FormValue("sign"),
	)
	switch {
	case errors.Is(err, service.ErrMissingNotificationParams):
		return c.String(http.StatusBadRequest, "Missing parameters")
	case errors.Is(err, service.ErrInvalidSignature):
		return c.String(http.StatusUnauthorized, "Invalid signature")
	case err != nil:
		return fmt.Errorf("handle notification: %w", err)
	}

	return c.String(http.StatusOK, "OK")
}

func (h *PaymentHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.paymentService.ListOrders(ctx, q.Page, q.PerPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.Response{
		Success: true,
		Data:    page.Orders,
		Meta:    page.Meta,
	})
}
