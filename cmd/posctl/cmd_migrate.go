package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghuser/possystem/migrations"
	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/migrator"
)

// posctl migrate [up|down|status]
var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(migrator.Up), string(migrator.Down), string(migrator.Status)},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := migrator.Up
		if len(args) == 1 {
			direction = migrator.Direction(args[0])
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := migrator.Run(cfg.DatabaseURL, migrations.FS, direction); err != nil {
			return err
		}
		if direction != migrator.Status {
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", direction)
		}
		return nil
	},
}
