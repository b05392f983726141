package handler

import (
	"gameshop/internal/dto"
	"gameshop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Get returns one period when ?period is given, otherwise the full report.
func (h *AnalyticsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.AnalyticsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	var (
		data interface{}
		err  error
	)
	switch q.Period {
	case "daily":
		data, err = h.analyticsService.Daily(ctx)
	case "monthly":
		data, err = h.analyticsService.Monthly(ctx)
	case "yearly":
		data, err = h.analyticsService.Yearly(ctx)
	case "overall":
		data, err = h.analyticsService.Overall(ctx)
	default:
		data, err = h.analyticsService.Report(ctx)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(data))
}
