package handler

import (
	"gameshop/internal/dto"
	"gameshop/internal/middleware"
	"gameshop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(user))
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.userService.Login(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(result))
}

func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.userService.List(ctx, q.Page, q.PerPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.Response{
		Success: true,
		Data:    page.Users,
		Meta:    page.Meta,
	})
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()

	actorID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateRole(ctx, actorID, userID, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(user))
}

func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	actorID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(ctx, actorID, userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
