package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply all pending migrations, or roll back the latest one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			direction := database.MigrationDirection(args[0])
			logger.Info("Running database migrations", slog.String("direction", string(direction)))
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction); err != nil {
				logger.Error("Migration failed", slog.String("error", err.Error()))
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			return nil
		},
	}
	return cmd
}
