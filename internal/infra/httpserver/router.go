package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/arishali16742/SOW/internal/application/ai"
	appchecks "github.com/arishali16742/SOW/internal/application/checks"
	appinsights "github.com/arishali16742/SOW/internal/application/insights"
	appscans "github.com/arishali16742/SOW/internal/application/scans"
	domai "github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/document"
	"github.com/arishali16742/SOW/internal/domain/evidence"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/middleware"
	"github.com/arishali16742/SOW/internal/repository"
)

// Services are the use-cases the API exposes. Failures is optional.
type Services struct {
	Checks     *appchecks.Service
	Scans      *appscans.Service
	AI         *appai.Service
	Insights   *appinsights.Service
	Failures   scanerrors.Repository
	Reconciler *evidence.Reconciler
}

// Options carries the HTTP-level settings.
type Options struct {
	APIKeys        map[string]string
	CORSOrigins    []string
	RateCapacity   int // zero disables rate limiting
	RateRefill     int
	MaxUploadBytes int64
	Extensions     []string
	Health         map[string]middleware.HealthChecker
	Logger         *slog.Logger
}

type Router struct {
	svc  Services
	opts Options
	log  *slog.Logger
}

func NewRouter(svc Services, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if svc.Reconciler == nil {
		svc.Reconciler = evidence.New("")
	}
	r := &Router{svc: svc, opts: opts, log: opts.Logger}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(r.log))
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill, requestCost))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/checks", r.wrap(r.handleListChecks))
		rt.Put("/checks", r.wrap(r.handleReplaceChecks))
		rt.Post("/checks", r.wrap(r.handleAddCheck))
		rt.Post("/checks/reset", r.wrap(r.handleResetChecks))
		rt.Put("/checks/{id}", r.wrap(r.handleUpdateCheck))
		rt.Delete("/checks/{id}", r.wrap(r.handleRemoveCheck))

		rt.Post("/scans", r.wrap(r.handleScan))
		rt.Get("/scans", r.wrap(r.handleHistory))
		rt.Get("/scans/{id}", r.wrap(r.handleGetScan))
		rt.Post("/scans/custom", r.wrap(r.handleCustomCheck))
		rt.Post("/scans/legacy", r.wrap(r.handleLegacyChecklist))

		rt.Post("/suggestions", r.wrap(r.handleSuggestions))
		rt.Post("/highlight", r.wrap(r.handleHighlight))

		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Get("/insights/summary", r.wrap(r.handleSummary))
		rt.Get("/insights/root-causes", r.wrap(r.handleRootCauses))
		rt.Get("/insights/trend", r.wrap(r.handleTrend))
		rt.Get("/insights/filters", r.wrap(r.handleFilters))

		rt.Get("/failures", r.wrap(r.handleFailures))
	})

	return mux
}

// modelCallCost is what a request that reaches the model is charged.
const modelCallCost = 5

var modelRoutes = map[string]bool{
	"/v1/scans":        true,
	"/v1/scans/custom": true,
	"/v1/scans/legacy": true,
	"/v1/suggestions":  true,
}

func requestCost(req *http.Request) int {
	if req.Method == http.MethodPost && modelRoutes[req.URL.Path] {
		return modelCallCost
	}
	return 1
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		middleware.RecordModelError(err)

		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			r.log.Error("request failed", "path", req.URL.Path, "status", status, "error", err)
		}
		http.Error(w, msg, status)
	}
}

// statusFor maps a use-case error to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "ai quota exceeded, please try again later"
	case errors.Is(err, domai.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "ai model unavailable, please try again"
	case errors.Is(err, domai.ErrModelOutputInvalid):
		return http.StatusBadGateway, "ai model returned an invalid answer, please try again"
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, document.ErrIngestionFailure),
		errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, document.ErrEmpty):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, checks.ErrCheckNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, checks.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repository.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeJSON(req *http.Request, dst any) error {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// queryInt reads an integer query parameter; missing means zero.
func queryInt(req *http.Request, name string) (int, error) {
	v := req.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}
