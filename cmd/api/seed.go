package main

import (
	"context"
	"gameshop/internal/repository"
	"gameshop/internal/service"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default catalog, keeping existing rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}

			productService := service.NewProductService(
				repository.NewProductRepository(db),
				repository.NewNopProductCache(),
				&cfg.Redis,
				log,
			)
			if err := productService.Seed(context.Background()); err != nil {
				return err
			}
			log.Info("catalog seeded")
			return nil
		},
	}
}
