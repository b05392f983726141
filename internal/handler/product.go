package handler

import (
	"gameshop/internal/dto"
	"gameshop/internal/repository"
	"gameshop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	var q dto.ProductQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	return h.list(c, repository.ProductFilter{
		Category:  q.Category,
		Featured:  q.Featured,
		Popular:   q.Popular,
		BestOffer: q.BestOffer,
	})
}

func (h *ProductHandler) ByCategory(c echo.Context) error {
	return h.list(c, repository.ProductFilter{Category: c.Param("category")})
}

func (h *ProductHandler) list(c echo.Context, filter repository.ProductFilter) error {
	ctx := c.Request().Context()

	products, err := h.productService.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.Response{
		Success: true,
		Data:    products,
		Meta: map[string]interface{}{
			"total": len(products),
			"filters": map[string]interface{}{
				"category":   filter.Category,
				"featured":   filter.Featured,
				"popular":    filter.Popular,
				"best_offer": filter.BestOffer,
			},
		},
	})
}

func (h *ProductHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.productService.Categories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(categories))
}

func (h *ProductHandler) FilterStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.productService.FilterStats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(stats))
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(product))
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(product))
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(ctx, id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(product))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
