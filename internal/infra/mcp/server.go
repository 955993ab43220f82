// Package mcp exposes the auditor's operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	appinsights "github.com/arishali16742/SOW/internal/application/insights"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/evidence"
	"github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

// CheckService lists the active checks.
type CheckService interface {
	List(ctx context.Context) ([]checks.Check, error)
}

// ScanService runs and extends document scans.
type ScanService interface {
	Scan(ctx context.Context, req scans.ScanRequest) (scans.ScanOutcome, error)
	AddCustomCheck(ctx context.Context, documentText, prompt string, current []scans.Issue) ([]scans.Issue, scans.Issue, error)
}

// AdvisorService proposes rewrites for failed checks.
type AdvisorService interface {
	SuggestImprovements(ctx context.Context, documentText, issueDescription, relevantText string) ([]string, error)
}

// InsightService reports over history.
type InsightService interface {
	Dashboard(ctx context.Context) (appinsights.Dashboard, error)
	RootCauses(ctx context.Context, f insights.Filter, limit int) ([]insights.RootCause, error)
	Trend(ctx context.Context, g insights.GroupBy, f insights.Filter) (appinsights.Trend, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Checks     CheckService
	Scans      ScanService
	Advisor    AdvisorService
	Insights   InsightService
	Reconciler *evidence.Reconciler
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

const serverInstructions = `Audit Statement-of-Work documents.
Run run_checklist on a document first; it returns the failed and passed checks.
Use highlight_issue to locate the evidence of a failed check in the document HTML,
suggest_improvements for rewrite ideas and custom_prompt for ad-hoc questions.
dashboard, root_causes and trend report over previous scans.`

// NewServer creates an MCP server with every tool registered.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Services.Reconciler == nil {
		cfg.Services.Reconciler = evidence.New("")
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sowise",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerTools(server, cfg.Services)
	return server
}

// RunStdio serves on stdin/stdout until ctx is done or the client disconnects.
func RunStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}
