package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arishali16742/SOW/internal/bootstrap"
	"github.com/arishali16742/SOW/internal/config"
	"github.com/arishali16742/SOW/internal/infra/httpserver"
	"github.com/arishali16742/SOW/internal/logging"
)

func main() {
	// .env is optional, real env wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	// load config
	path := config.Path("")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := config.Check(cfg); err != nil {
		log.Fatalf("invalid config %s:\n%v", path, err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init services
	app, err := bootstrap.New(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     httpserver.NewRouter(app.HTTPServices(), app.HTTPOptions()),
		ReadTimeout: 30 * time.Second,
		// a scan waits on the model
		WriteTimeout: cfg.LLMTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage", cfg.Storage.Driver, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
