package main

import (
	"context"
	"errors"
	"fmt"
	"gameshop/internal/client"
	"gameshop/internal/repository"
	"gameshop/internal/server"
	"gameshop/internal/service"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	cache := repository.NewNopProductCache()
	rdb, err := client.InitRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, catalog cache disabled", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		cache = repository.NewRedisProductCache(rdb)
	}

	cashbillClient := client.NewCashbillClient(&cfg.Cashbill, log)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	clock := service.NewRealClock()
	paymentService := service.NewPaymentService(
		cashbillClient,
		productRepo,
		orderRepo,
		&cfg.Cashbill,
		clock,
		log,
	)
	productService := service.NewProductService(productRepo, cache, &cfg.Redis, log)
	analyticsService := service.NewAnalyticsService(orderRepo, clock)
	userService := service.NewUserService(userRepo, &cfg.JWT, clock, log)

	serverAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)

	srv := server.NewServer(cfg, paymentService, productService, analyticsService, userService, log)

	log.Info("starting HTTP server",
		"addr", serverAddr,
		"cashbill_test_mode", cfg.Cashbill.TestMode,
	)
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case <-sigChan:
	}
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
