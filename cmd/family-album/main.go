package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"family-album-go/internal/app"
	"family-album-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()
	code := run(log)
	_ = log.Sync()
	os.Exit(code)
}

func run(log logger.Logger) int {
	log.Info("album: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	album, err := app.New(log)
	if err != nil {
		log.Critical("album: init failed", "err", err)
		return 1
	}

	srv := album.HTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("album: shutdown signal received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}

	// Stop accepting requests before the audit queue is drained.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), album.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http: graceful shutdown failed", "err", err)
		code = 1
	}

	if err := album.Close(); err != nil {
		log.Error("album: close failed", "err", err)
		code = 1
	}

	log.Info("album: stopped", "exit_code", code)
	return code
}
