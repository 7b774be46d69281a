package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mynotes/internal/auth"
	"mynotes/internal/database/migration"
	"mynotes/internal/events"
	handlers "mynotes/internal/http/handler"
	"mynotes/internal/http/middleware"
	"mynotes/internal/logger"
	tracing "mynotes/internal/otel"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the bucket notification listener",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	ctx := cmd.Context()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("tracing shutdown", logger.Err(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c, err := wire(ctx, reg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := migration.EnsureMigrated(ctx, c.db, log, cfg.Database.Host); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())
	app.Use(prom.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           c.db,
		Notes:        c.notes,
		Uploads:      c.uploads,
		Events:       c.processor,
		Identity:     auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.IdentityClaim),
		WebhookToken: cfg.Auth.WebhookToken,
		Gatherer:     reg,
		Log:          log,
	})

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("starting HTTP server", slog.String("address", addr), slog.String("app_host", cfg.AppHost))
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if cfg.MinIO.ListenEvents {
		listener := events.NewMinIOListener(c.store.Client(), c.store.Bucket(), log)
		g.Go(func() error {
			return listener.Run(gCtx, c.processor)
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			log.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			log.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", logger.Err(err))
		}
		// Cancels gCtx so the notification listener stops too.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
