package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "posctl",
	Short:         "Operational commands for the POS system",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// bootApp loads config and opens the database and event bus. Redis and
// Temporal are left out; none of the commands need them.
func bootApp(ctx context.Context) (*app.Application, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	bus, err := events.NewEventBus(cfg, log)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("setup event bus: %w", err)
	}

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: bus,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ServiceName),
	}
	cleanup := func() {
		_ = bus.Close()
		pool.Close()
	}
	return a, cleanup, nil
}
