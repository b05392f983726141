package middleware

import (
	"errors"
	"gameshop/internal/config"
	"gameshop/internal/model"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // uint
	CtxUserRoleKey = "user_role" // model.Role
)

// AuthMiddleware validates an HS256 bearer token and stores the user id and
// role on the echo context.
func AuthMiddleware(jwtCfg *config.JWT) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtCfg.Secret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			sub, err := claims.GetSubject()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			userID, err := strconv.ParseUint(sub, 10, 64)
			if err != nil || userID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			role, _ := claims["role"].(string)
			if !model.Role(role).Valid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(CtxUserIDKey, uint(userID))
			c.Set(CtxUserRoleKey, model.Role(role))
			return next(c)
		}
	}
}

// AdminGuard must run after AuthMiddleware.
func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(model.Role)
			if role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserIDKey).(uint)
	return id, ok
}
