package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/db"
	"github.com/duong1906ltv/website/internal/logger"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), db.MigrateDown)
		},
	})
	return cmd
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB, string) error) error {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.SentryDSN)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if err := fn(ctx, database.DB, cfg.DBDriver); err != nil {
		return err
	}
	return nil
}
