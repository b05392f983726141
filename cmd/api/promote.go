package main

import (
	"context"
	"gameshop/internal/repository"
	"gameshop/internal/service"

	"github.com/spf13/cobra"
)

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote [email]",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}

			userService := service.NewUserService(
				repository.NewUserRepository(db),
				&cfg.JWT,
				service.NewRealClock(),
				log,
			)
			user, err := userService.Promote(context.Background(), args[0])
			if err != nil {
				return err
			}
			log.Info("user promoted", "user_id", user.ID, "email", user.Email)
			return nil
		},
	}
}
