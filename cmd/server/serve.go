package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/euforicio/scratchpad/internal/logging"
	"github.com/euforicio/scratchpad/internal/server"
	"github.com/euforicio/scratchpad/internal/server/config"
	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/internal/server/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the record service",
	Long: `Serve zones, records and the change feed over HTTP until SIGINT or SIGTERM.

The JWT secret is taken from jwt_secret in the config file or
SCRATCHPAD_SERVER_JWT_SECRET.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}

		logger, closer, err := logging.New(cfg.LogOptions())
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := sqlite.New(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close database", "error", err)
			}
		}()

		srv := server.New(logger, store, server.Config{
			Addr:       cfg.Listen,
			Version:    Version,
			RateLimit:  cfg.RateLimit,
			RateWindow: cfg.RateWindow,
			JWT: handlers.JWTConfig{
				Secret:         []byte(cfg.JWTSecret),
				AccessTokenTTL: cfg.TokenTTL,
			},
		})

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address, e.g. :8080")
	_ = v.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}
