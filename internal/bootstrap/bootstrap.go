// Package bootstrap builds the application graph from config. Both the API server
// and the CLI start from here.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arishali16742/SOW/internal/application"
	appai "github.com/arishali16742/SOW/internal/application/ai"
	appchecks "github.com/arishali16742/SOW/internal/application/checks"
	appinsights "github.com/arishali16742/SOW/internal/application/insights"
	appscans "github.com/arishali16742/SOW/internal/application/scans"
	"github.com/arishali16742/SOW/internal/config"
	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/evidence"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/infra/ai/gemini"
	"github.com/arishali16742/SOW/internal/infra/ai/openai"
	"github.com/arishali16742/SOW/internal/infra/db/kv"
	mysqlp "github.com/arishali16742/SOW/internal/infra/db/mysql"
	"github.com/arishali16742/SOW/internal/infra/db/postgres"
	"github.com/arishali16742/SOW/internal/infra/db/sqlite"
	"github.com/arishali16742/SOW/internal/infra/httpserver"
	"github.com/arishali16742/SOW/internal/infra/ingest"
	minioStore "github.com/arishali16742/SOW/internal/infra/storage"
	"github.com/arishali16742/SOW/internal/middleware"
)

// App holds every wired service. Close releases the stores.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Checks     *appchecks.Service
	Scans      *appscans.Service
	AI         *appai.Service
	Insights   *appinsights.Service
	Failures   scanerrors.Repository
	Reconciler *evidence.Reconciler
	Health     map[string]middleware.HealthChecker

	closers []func() error
}

// New wires the application. The LLM client is only built when client is nil,
// which lets tests and offline commands inject their own.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, client ai.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		Health: map[string]middleware.HealthChecker{},
	}

	store, failures, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Failures = failures

	if client == nil {
		client, err = NewLLMClient(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	app.Checks = appchecks.NewService(kv.NewCheckRepository(store), logger.With("component", "checks"))
	app.AI = appai.NewService(client, logger.With("component", "ai"),
		appai.WithFailureLog(failures),
		appai.WithTimeout(cfg.LLMTimeout()),
	)

	app.Scans = &appscans.Service{
		Results:      kv.NewHistoryRepository(store),
		Checks:       app.Checks,
		Analyzer:     app.AI,
		Converter:    ingest.NewConverter(),
		Failures:     failures,
		Clock:        application.SystemClock{},
		Logger:       logger.With("component", "scans"),
		HistoryLimit: cfg.Analysis.HistoryLimit,
	}
	if cfg.Minio.Enabled {
		docs, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:   cfg.Minio.Endpoint,
			Region:     cfg.Minio.Region,
			Bucket:     cfg.Minio.BucketName,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			UseSSL:     cfg.Minio.UseSSL,
			PresignTTL: cfg.PresignTTL(),
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		app.Scans.Documents = docs
		app.Health["minio"] = middleware.HealthCheckerFunc(docs.Ping)
	}

	app.Insights = appinsights.NewService(app.Scans, cfg.Analysis.RecentLimit, cfg.Analysis.RootCauseLimit)
	app.Reconciler = evidence.New(cfg.Analysis.AnchorID)
	return app, nil
}

// openStore opens the configured backend and returns the key-value store the
// repositories sit on plus the failure log.
func (a *App) openStore(ctx context.Context) (kv.Store, scanerrors.Repository, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, s.Close)
		a.Health["database"] = middleware.PingDB(s.DB())
		return s, sqlite.NewScanErrorRepository(s), nil

	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := a.prepare(ctx, db, mysqlp.EnsureSchema); err != nil {
			return nil, nil, err
		}
		return mysqlp.NewKVStore(db), mysqlp.NewScanErrorRepository(db), nil

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := a.prepare(ctx, db, postgres.EnsureSchema); err != nil {
			return nil, nil, err
		}
		return postgres.NewKVStore(db), postgres.NewScanErrorRepository(db), nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (a *App) prepare(ctx context.Context, db *sql.DB, ensure func(context.Context, *sql.DB) error) error {
	a.closers = append(a.closers, db.Close)
	a.Health["database"] = middleware.PingDB(db)
	return ensure(ctx, db)
}

// NewLLMClient builds the provider named in cfg.LLM.Provider.
func NewLLMClient(ctx context.Context, cfg *config.Config) (ai.Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		c := openai.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		c.MaxTokens = cfg.LLM.MaxTokens
		c.Temperature = cfg.LLM.Temperature
		return c, nil
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
		c.MaxTokens = cfg.LLM.MaxTokens
		c.Temperature = cfg.LLM.Temperature
		return c, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
}

// HTTPServices is the view of the app the router needs.
func (a *App) HTTPServices() httpserver.Services {
	return httpserver.Services{
		Checks:     a.Checks,
		Scans:      a.Scans,
		AI:         a.AI,
		Insights:   a.Insights,
		Failures:   a.Failures,
		Reconciler: a.Reconciler,
	}
}

// HTTPOptions maps the server config onto router options.
func (a *App) HTTPOptions() httpserver.Options {
	cfg := a.Config
	return httpserver.Options{
		APIKeys:        cfg.Server.APIKeys,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateCapacity:   cfg.Server.RateLimit.Capacity,
		RateRefill:     cfg.Server.RateLimit.RefillRate,
		MaxUploadBytes: cfg.Analysis.MaxUploadBytes,
		Extensions:     ingest.Extensions,
		Health:         a.Health,
		Logger:         a.Logger.With("component", "http"),
	}
}

// Close releases every opened store, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
