package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/config"
	"finitefield.org/storefront-web/internal/observability"
)

func main() {
	var (
		addr     string
		paths    appPaths
		envFile  string
		logLevel string
	)
	pflag.StringVar(&addr, "addr", "", "HTTP listen address (default :$STOREFRONT_PORT)")
	pflag.StringVar(&paths.Templates, "templates", "templates", "templates directory")
	pflag.StringVar(&paths.Public, "public", "public", "public assets directory")
	pflag.StringVar(&paths.Locales, "locales", "locales", "locale dictionaries directory")
	pflag.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the process environment")
	pflag.StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, config.WithEnvFile(envFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: load config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger, paths)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}

	go a.lines.Run(ctx, time.Hour)

	if addr == "" {
		addr = ":" + cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverLogger := logger.Named("http").With(zap.String("addr", addr))
	go func() {
		serverLogger.Info("storefront listening",
			zap.String("env", cfg.Environment),
			zap.Bool("devMode", a.devMode),
			zap.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
