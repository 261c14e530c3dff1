// Command tictactoe serves a same-device tic-tac-toe game with move history
// to the browser.
//
// Usage:
//
//	tictactoe --config config.yml
//	SESSION_STORE=redis REDIS_HOST=localhost tictactoe
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe-timetravel/internal/application"
	"github.com/jaminalder/tictactoe-timetravel/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Serve tic-tac-toe with move history",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(conf.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err = application.Run(ctx, logger, conf); err != nil {
				logger.Error("app run failed", "error", err)
				return fmt.Errorf("app run failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to the YAML config file")
	cmd.SetContext(context.Background())
	return cmd
}

func newLogger(level string) *slog.Logger {
	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
