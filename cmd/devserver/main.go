package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medai/internal/config"
	"medai/internal/devserver"
	"medai/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for the devserver!")
	}

	server := devserver.New(cfg, log)

	srv := &http.Server{
		Addr:    cfg.DevServerAddress,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("devserver: starting", "address", cfg.DevServerAddress)
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("devserver: shutdown error", "error", err)
		}

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("devserver: server error", "error", err)
		}
	}

	log.Info("devserver stopped")
}
