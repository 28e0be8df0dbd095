// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/cliparse"
	"github.com/danielhkuo/pollwidget/db"
	"github.com/danielhkuo/pollwidget/metrics"
	"github.com/danielhkuo/pollwidget/middleware"
	"github.com/danielhkuo/pollwidget/polls"
	"github.com/danielhkuo/pollwidget/router"
)

func serveCmd() *cobra.Command {
	cfg, envErr := cliparse.LoadEnv(".env")

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cliparse.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func serve(ctx context.Context, cfg cliparse.Config) error {
	slog.SetDefault(cfg.Logger())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, dialect, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := db.CreateSchema(ctx, sqlDB); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", dialect)

	m := metrics.New()
	pages, err := cache.NewPageCache(cfg.CacheSize, m)
	if err != nil {
		return err
	}

	invalidator := cache.Fanout{pages}
	if cfg.NATSURL != "" {
		broadcaster, err := cache.ConnectBroadcaster(cfg.NATSURL, cfg.NATSSubject, pages, m)
		if err != nil {
			return err
		}
		defer broadcaster.Close()
		invalidator = append(invalidator, broadcaster)
		slog.Info("Sharing cache invalidations over NATS", "subject", cfg.NATSSubject)
	}

	svc := polls.NewService(db.Static(sqlDB, dialect), invalidator, m)
	mux := router.NewRouter(svc, pages, m)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown did not finish cleanly", "error", err)
		}
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server closed: %w", err)
	}
	slog.Info("Server closed")
	return nil
}
