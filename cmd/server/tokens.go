package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/db"
	"github.com/duong1906ltv/website/internal/logger"
	"github.com/duong1906ltv/website/internal/repository"
)

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Redeemed token maintenance",
	}
	cmd.AddCommand(tokensPruneCmd())
	return cmd
}

func tokensPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete redeemed token records past their expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.AppEnv, cfg.SentryDSN)

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer db.Close(database)

			n, err := repository.NewTokenRepository(database).CleanupExpired(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			slog.Info("pruned redeemed tokens", "count", n, "older_than", olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "only prune tokens that expired at least this long ago")
	return cmd
}
