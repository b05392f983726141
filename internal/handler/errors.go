package handler

import (
	"errors"
	"fmt"
	"gameshop/internal/client"
	"gameshop/internal/dto"
	"gameshop/internal/service"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var gatewayFailureMessages = map[string]string{
	"create payment":     "Payment creation failed",
	"get payment":        "Payment status check failed",
	"update return urls": "Return URL update failed",
	"list channels":      "Failed to fetch payment channels",
}

// ErrorHandler renders every error as {"success": false, "message", "errors"}.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func classify(err error) (int, *dto.Response) {
	fail := func(status int, message string) (int, *dto.Response) {
		return status, &dto.Response{Success: false, Message: message}
	}

	var verr *service.ValidationError
	var gerr *client.GatewayError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, &dto.Response{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Fields,
		}
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusUnprocessableEntity, &dto.Response{
			Success: false,
			Message: "Validation failed",
			Errors:  map[string]string{"products": err.Error()},
		}
	case errors.Is(err, service.ErrOrderNotFound):
		return fail(http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrUserNotFound):
		return fail(http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrOrderNotStarted):
		return fail(http.StatusConflict, "Order has no payment transaction")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		return fail(http.StatusForbidden, err.Error())
	case errors.As(err, &gerr):
		prefix, ok := gatewayFailureMessages[gerr.Op]
		if !ok {
			prefix = "Payment service error"
		}
		return fail(http.StatusBadGateway, prefix+": "+gerr.Reason)
	case errors.As(err, &herr):
		return fail(herr.Code, fmt.Sprint(herr.Message))
	default:
		return fail(http.StatusInternalServerError, "Internal server error")
	}
}

// RequestValidator adapts go-playground/validator to echo.Validator and
// reports failures as *service.ValidationError keyed by JSON field path.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &service.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return verr
}

// fieldPath drops the root struct name: PayRequest.customer_data.email -> customer_data.email
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be %s %s characters", bound, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain %s %s items", bound, fe.Param())
		default:
			return fmt.Sprintf("must be %s %s", bound, fe.Param())
		}
	default:
		return "is invalid"
	}
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
