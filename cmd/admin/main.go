package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atcnagpur/contentadmin/internal/app"
	"github.com/atcnagpur/contentadmin/internal/config"
	"github.com/atcnagpur/contentadmin/internal/logger"
	"github.com/atcnagpur/contentadmin/internal/resources"
)

const (
	backendTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	client := &http.Client{Timeout: backendTimeout}
	registry, err := resources.FromConfig(cfg, client, logger)
	if err != nil {
		logger.Fatalw("error building resources", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := registry.LoadAll(ctx); err != nil {
		logger.Warnw("initial load incomplete", "error", err)
	}

	a := app.NewApp(cfg, registry, logger.Named("app"))
	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: a.SetupRouter(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("error shutting down server", "error", err)
		}
	}()

	logger.Infow("admin gateway started", "addr", cfg.RunAddr, "backend", cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("server stopped", "error", err)
	}
}
