// medmcp serves the clinic tool registry over HTTP: tool discovery, validated
// execution, session management, and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/medai/medmcp/internal/config"
	"github.com/medai/medmcp/internal/medtools"
	"github.com/medai/medmcp/internal/notify"
	"github.com/medai/medmcp/internal/server"
	"github.com/medai/medmcp/internal/session"
	"github.com/medai/medmcp/internal/store"
	"github.com/medai/medmcp/internal/tool"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "medmcp",
		Short:         "Doctor appointment tool server",
		Long:          "medmcp exposes the clinic's appointment tools for discovery and execution over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.AddCommand(serve)
	return root
}

func runServe(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "err", err)
		}
	}()

	metrics := server.NewMetrics()
	registry := tool.NewRegistry(
		tool.WithDefaultTimeout(cfg.ToolTimeout),
		tool.WithMaxConcurrency(cfg.ToolMaxConcurrency),
		tool.WithOnAfterExecute(metrics.AfterExecute),
	)
	// Per-execution logging at the engine layer; the HTTP layer logs
	// requests separately.
	registry.Use(tool.WithLogging(logger))
	deps := medtools.Deps{
		Doctors:      store.NewDoctorRepository(db),
		Appointments: store.NewAppointmentRepository(db),
		Mailer:       notify.LogMailer{Logger: logger},
		Calendar:     notify.LogCalendar{Logger: logger},
		Logger:       logger,
	}
	if err := medtools.RegisterAll(registry, deps); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	sessions := session.NewManager(
		session.WithTTL(cfg.SessionTTL),
		session.WithCapacity(cfg.SessionCapacity),
	)

	srv := server.New(cfg, registry, sessions, metrics, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := registry.Shutdown(shutdownCtx); err != nil {
		logger.Error("registry drain", "err", err)
	}
	return <-errCh
}
