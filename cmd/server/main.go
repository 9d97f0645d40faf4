package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholar-match/internal/app"
	"scholar-match/internal/config"
	"scholar-match/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	lg = lg.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment))

	container, err := app.NewContainer(cfg, lg)
	if err != nil {
		lg.Fatal("failed to build container", zap.Error(err))
	}

	bootstrap, cleanup, err := app.Bootstrap(cfg, container)
	if err != nil {
		_ = container.Close()
		lg.Fatal("failed to bootstrap app", zap.Error(err))
	}
	defer func() {
		if err := cleanup(); err != nil {
			lg.Warn("cleanup error", zap.Error(err))
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		lg.Fatal("invalid HTTP port", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server listening", zap.String("addr", addr))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error("server error", zap.Error(err))
		}
	case sig := <-sigCh:
		lg.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			lg.Warn("shutdown error", zap.Error(err))
		}
	}
}
