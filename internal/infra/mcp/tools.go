package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/evidence"
	"github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

// ==== inputs ====

type emptyParams struct{}

type RunChecklistParams struct {
	Path     string `json:"path,omitempty" jsonschema:"local path of a .docx, .pdf, .html or .txt file to audit"`
	FileName string `json:"fileName,omitempty" jsonschema:"document name, required when html is given"`
	HTML     string `json:"html,omitempty" jsonschema:"already converted document HTML, used when path is empty"`
}

type CustomPromptParams struct {
	HTML   string        `json:"html" jsonschema:"document HTML or text"`
	Prompt string        `json:"prompt" jsonschema:"the question to ask about the document"`
	Issues []scans.Issue `json:"issues,omitempty" jsonschema:"current issue list; the answer is prepended to it"`
}

type SuggestParams struct {
	HTML         string `json:"html" jsonschema:"document HTML or text"`
	Description  string `json:"description" jsonschema:"description of the failed check"`
	RelevantText string `json:"relevantText,omitempty" jsonschema:"the offending passage"`
}

type HighlightParams struct {
	HTML         string   `json:"html" jsonschema:"document HTML"`
	Status       string   `json:"status,omitempty" jsonschema:"issue status, passed or failed (default failed)"`
	RelevantText string   `json:"relevantText,omitempty" jsonschema:"evidence passage"`
	Occurrences  []string `json:"occurrences,omitempty" jsonschema:"individual evidence snippets; preferred over relevantText"`
}

type RootCauseParams struct {
	Year    int `json:"year,omitempty" jsonschema:"calendar year"`
	Quarter int `json:"quarter,omitempty" jsonschema:"quarter 1-4, needs year"`
	Month   int `json:"month,omitempty" jsonschema:"month 1-12, needs year"`
	Week    int `json:"week,omitempty" jsonschema:"ISO week 1-53, needs year"`
	Limit   int `json:"limit,omitempty" jsonschema:"number of checks to return (default 10)"`
}

type TrendParams struct {
	GroupBy string `json:"groupBy,omitempty" jsonschema:"weekly, monthly, quarterly or yearly (default monthly)"`
	Year    int    `json:"year,omitempty" jsonschema:"calendar year"`
	Quarter int    `json:"quarter,omitempty" jsonschema:"quarter 1-4, needs year"`
	Month   int    `json:"month,omitempty" jsonschema:"month 1-12, needs year"`
	Week    int    `json:"week,omitempty" jsonschema:"ISO week 1-53, needs year"`
}

// filterOf applies the levels in cascade order so a missing parent clears its children.
func filterOf(year, quarter, month, week int) insights.Filter {
	return insights.Filter{}.WithYear(year).WithQuarter(quarter).WithMonth(month).WithWeek(week).Normalize()
}

// ==== outputs ====
// Outputs carry no time.Time so their schemas stay plain strings.

type CheckList struct {
	Checks []checks.Check `json:"checks"`
}

type ResultView struct {
	ID          string        `json:"id"`
	FileName    string        `json:"fileName"`
	Date        string        `json:"date"`
	Compliance  int           `json:"compliance"`
	FailedCount int           `json:"failedCount"`
	TotalChecks int           `json:"totalChecks"`
	Issues      []scans.Issue `json:"issues"`
	DocumentURL string        `json:"documentUrl,omitempty"`
}

type ScanView struct {
	Result    ResultView `json:"result"`
	Persisted bool       `json:"persisted"`
	HTML      string     `json:"html"`
}

type CustomView struct {
	Issue  scans.Issue   `json:"issue"`
	Issues []scans.Issue `json:"issues"`
}

type SuggestionView struct {
	SuggestedImprovements []string `json:"suggestedImprovements"`
}

type HighlightView struct {
	HTML  string          `json:"html"`
	Spans []evidence.Span `json:"spans"`
}

type DashboardView struct {
	Summary    insights.Summary          `json:"summary"`
	Recent     []insights.RecentDocument `json:"recent"`
	RootCauses []insights.RootCause      `json:"rootCauses"`
}

type RootCauseView struct {
	RootCauses []insights.RootCause `json:"rootCauses"`
}

type TrendView struct {
	GroupBy string                `json:"groupBy"`
	Filter  insights.Filter       `json:"filter"`
	Points  []insights.TrendPoint `json:"points"`
	Options insights.Options      `json:"options"`
}

// orEmpty keeps array-typed output fields from encoding as null, which the
// output schema rejects.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func optionsView(o insights.Options) insights.Options {
	return insights.Options{
		Years:    orEmpty(o.Years),
		Quarters: orEmpty(o.Quarters),
		Months:   orEmpty(o.Months),
		Weeks:    orEmpty(o.Weeks),
	}
}

func viewOf(r scans.AnalysisResult) ResultView {
	return ResultView{
		ID:          r.ID,
		FileName:    r.FileName,
		Date:        r.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Compliance:  r.Compliance,
		FailedCount: r.FailedCount,
		TotalChecks: r.TotalChecks,
		Issues:      orEmpty(r.Issues),
		DocumentURL: r.DocumentURL,
	}
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_checks",
		Description: "List the compliance checks every scan runs, in evaluation order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, CheckList, error) {
		list, err := svc.Checks.List(ctx)
		if err != nil {
			return nil, CheckList{}, err
		}
		return nil, CheckList{Checks: orEmpty(list)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_checklist",
		Description: "Audit a Statement-of-Work document against every check and store the result in history",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RunChecklistParams) (*sdkmcp.CallToolResult, ScanView, error) {
		req, err := scanRequest(in)
		if err != nil {
			return nil, ScanView{}, err
		}
		out, err := svc.Scans.Scan(ctx, req)
		if err != nil {
			return nil, ScanView{}, err
		}
		return nil, ScanView{Result: viewOf(out.Result), Persisted: out.Persisted, HTML: out.HTML}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "custom_prompt",
		Description: "Ask a free-form compliance question about a document; the answer is returned as a new issue",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CustomPromptParams) (*sdkmcp.CallToolResult, CustomView, error) {
		list, added, err := svc.Scans.AddCustomCheck(ctx, in.HTML, in.Prompt, in.Issues)
		if err != nil {
			return nil, CustomView{}, err
		}
		return nil, CustomView{Issue: added, Issues: orEmpty(list)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "suggest_improvements",
		Description: "Propose rewrites for a failed check",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SuggestParams) (*sdkmcp.CallToolResult, SuggestionView, error) {
		out, err := svc.Advisor.SuggestImprovements(ctx, in.HTML, in.Description, in.RelevantText)
		if err != nil {
			return nil, SuggestionView{}, err
		}
		return nil, SuggestionView{SuggestedImprovements: orEmpty(out)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "highlight_issue",
		Description: "Mark the evidence of a failed check inside the document HTML",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, in HighlightParams) (*sdkmcp.CallToolResult, HighlightView, error) {
		status := scans.StatusFailed
		if in.Status != "" {
			status = scans.Status(strings.ToLower(strings.TrimSpace(in.Status)))
		}
		is := scans.Issue{Status: status, RelevantText: in.RelevantText, Occurrences: in.Occurrences}
		spans := orEmpty(svc.Reconciler.Spans(in.HTML, is))
		return nil, HighlightView{HTML: svc.Reconciler.Highlight(in.HTML, is), Spans: spans}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "dashboard",
		Description: "Headline figures, the five latest scans and the most frequent failures",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, DashboardView, error) {
		d, err := svc.Insights.Dashboard(ctx)
		if err != nil {
			return nil, DashboardView{}, err
		}
		return nil, DashboardView{Summary: d.Summary, Recent: orEmpty(d.Recent), RootCauses: orEmpty(d.RootCauses)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "root_causes",
		Description: "Rank failing checks by weighted occurrence within a calendar period",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RootCauseParams) (*sdkmcp.CallToolResult, RootCauseView, error) {
		list, err := svc.Insights.RootCauses(ctx, filterOf(in.Year, in.Quarter, in.Month, in.Week), in.Limit)
		if err != nil {
			return nil, RootCauseView{}, err
		}
		return nil, RootCauseView{RootCauses: orEmpty(list)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "trend",
		Description: "Failed issues per time bucket, with the filter values available at each level",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TrendParams) (*sdkmcp.CallToolResult, TrendView, error) {
		g, err := insights.ParseGroupBy(in.GroupBy)
		if err != nil {
			return nil, TrendView{}, err
		}
		t, err := svc.Insights.Trend(ctx, g, filterOf(in.Year, in.Quarter, in.Month, in.Week))
		if err != nil {
			return nil, TrendView{}, err
		}
		return nil, TrendView{GroupBy: string(t.GroupBy), Filter: t.Filter, Points: orEmpty(t.Points), Options: optionsView(t.Options)}, nil
	})
}

func scanRequest(in RunChecklistParams) (scans.ScanRequest, error) {
	if in.Path != "" {
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return scans.ScanRequest{}, fmt.Errorf("read %s: %w", in.Path, err)
		}
		name := in.FileName
		if name == "" {
			name = filepath.Base(in.Path)
		}
		return scans.ScanRequest{FileName: name, Data: data}, nil
	}
	if in.HTML == "" {
		return scans.ScanRequest{}, fmt.Errorf("either path or html is required")
	}
	return scans.ScanRequest{FileName: in.FileName, HTML: in.HTML}, nil
}
