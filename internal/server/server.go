package server

import (
	"context"
	"gameshop/internal/config"
	"gameshop/internal/handler"
	appmw "gameshop/internal/middleware"
	"gameshop/internal/service"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo             *echo.Echo
	jwtCfg           *config.JWT
	paymentHandler   *handler.PaymentHandler
	productHandler   *handler.ProductHandler
	analyticsHandler *handler.AnalyticsHandler
	userHandler      *handler.UserHandler
}

func NewServer(
	cfg *config.Config,
	paymentService service.PaymentService,
	productService service.ProductService,
	analyticsService service.AnalyticsService,
	userService service.UserService,
	logger *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:             e,
		jwtCfg:           &cfg.JWT,
		paymentHandler:   handler.NewPaymentHandler(paymentService),
		productHandler:   handler.NewProductHandler(productService),
		analyticsHandler: handler.NewAnalyticsHandler(analyticsService),
		userHandler:      handler.NewUserHandler(userService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- payment --------
	payment := api.Group("/payment")
	payment.GET("/channels", s.paymentHandler.Channels)
	payment.POST("/create", s.paymentHandler.Create)
	payment.GET("/status/:orderId", s.paymentHandler.Status)
	payment.PUT("/:orderId/return-urls", s.paymentHandler.UpdateReturnURLs)

	// -------- cashbill notifications --------
	payment.GET("/notification", s.paymentHandler.Notification)
	payment.POST("/notification", s.paymentHandler.Notification)

	// -------- catalog --------
	api.GET("/products", s.productHandler.List)
	api.GET("/products/:category", s.productHandler.ByCategory)
	api.GET("/categories", s.productHandler.Categories)
	api.GET("/filter-stats", s.productHandler.FilterStats)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/register", s.userHandler.Register)
	auth.POST("/login", s.userHandler.Login)

	// -------- admin --------
	admin := api.Group("/admin", appmw.AuthMiddleware(s.jwtCfg), appmw.AdminGuard())
	admin.GET("/orders", s.paymentHandler.Orders)
	admin.GET("/analytics", s.analyticsHandler.Get)

	admin.GET("/products/:id", s.productHandler.Get)
	admin.POST("/products", s.productHandler.Create)
	admin.PUT("/products/:id", s.productHandler.Update)
	admin.DELETE("/products/:id", s.productHandler.Delete)

	admin.GET("/users", s.userHandler.List)
	admin.PUT("/users/:id/role", s.userHandler.UpdateRole)
	admin.DELETE("/users/:id", s.userHandler.Delete)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
