package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/evidence"
	"github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/middleware"
)

//
// ==== CHECKS ====
//

// GET /v1/checks
func (r *Router) handleListChecks(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Checks.List(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// PUT /v1/checks
// Body: [{"id","title","prompt"}, ...]
func (r *Router) handleReplaceChecks(w http.ResponseWriter, req *http.Request) error {
	var list []checks.Check
	if err := decodeJSON(req, &list); err != nil {
		return err
	}
	for _, c := range list {
		if err := middleware.ValidateCheckID(c.ID); err != nil {
			return badRequest("%v", err)
		}
	}
	if err := r.svc.Checks.Save(req.Context(), list); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

type checkBody struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

func (b checkBody) validate() error {
	if err := middleware.ValidateTitle(b.Title); err != nil {
		return badRequest("%v", err)
	}
	if err := middleware.ValidatePrompt(b.Prompt); err != nil {
		return badRequest("%v", err)
	}
	return nil
}

// POST /v1/checks
func (r *Router) handleAddCheck(w http.ResponseWriter, req *http.Request) error {
	var body checkBody
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if err := body.validate(); err != nil {
		return err
	}
	c, err := r.svc.Checks.Add(req.Context(), middleware.SanitizeString(body.Title), middleware.SanitizeString(body.Prompt))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// PUT /v1/checks/{id}
func (r *Router) handleUpdateCheck(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCheckID(id); err != nil {
		return badRequest("%v", err)
	}
	var body checkBody
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if err := body.validate(); err != nil {
		return err
	}
	c, err := r.svc.Checks.Update(req.Context(), id, middleware.SanitizeString(body.Title), middleware.SanitizeString(body.Prompt))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// DELETE /v1/checks/{id}
func (r *Router) handleRemoveCheck(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCheckID(id); err != nil {
		return badRequest("%v", err)
	}
	if err := r.svc.Checks.Remove(req.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/checks/reset
func (r *Router) handleResetChecks(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Checks.Reset(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

//
// ==== SCANS ====
//

// POST /v1/scans
// multipart/form-data with a "file" part, or JSON {"fileName","html"}.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes)

	scanReq, err := r.readScanRequest(req)
	if err != nil {
		return err
	}

	track := middleware.TrackScan()
	out, err := r.svc.Scans.Scan(req.Context(), scanReq)
	if err != nil {
		track.Failed()
		return err
	}
	track.Completed(out.Result.Compliance, out.Persisted)
	return writeJSON(w, http.StatusOK, out)
}

func (r *Router) readScanRequest(req *http.Request) (scans.ScanRequest, error) {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		if err := req.ParseMultipartForm(r.opts.MaxUploadBytes); err != nil {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				return scans.ScanRequest{}, err
			}
			return scans.ScanRequest{}, badRequest("failed to parse upload form: %v", err)
		}
		defer req.MultipartForm.RemoveAll()

		file, header, err := req.FormFile("file")
		if err != nil {
			return scans.ScanRequest{}, badRequest("file is required")
		}
		defer file.Close()

		if err := middleware.ValidateFileName(header.Filename, r.opts.Extensions); err != nil {
			return scans.ScanRequest{}, badRequest("%v", err)
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return scans.ScanRequest{}, err
		}
		return scans.ScanRequest{FileName: header.Filename, Data: data}, nil
	}

	var body struct {
		FileName string `json:"fileName"`
		HTML     string `json:"html"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return scans.ScanRequest{}, err
	}
	if err := middleware.ValidateFileName(body.FileName, nil); err != nil {
		return scans.ScanRequest{}, badRequest("%v", err)
	}
	return scans.ScanRequest{FileName: body.FileName, HTML: body.HTML}, nil
}

// GET /v1/scans?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	page, err := queryInt(req, "page")
	if err != nil {
		return err
	}
	size, err := queryInt(req, "page_size")
	if err != nil {
		return err
	}
	res, err := r.svc.Scans.Page(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/scans/{id}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return badRequest("%v", err)
	}
	res, err := r.svc.Scans.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /v1/scans/custom
// Body: {"html": "...", "prompt": "...", "issues": [...]}
func (r *Router) handleCustomCheck(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		HTML   string        `json:"html"`
		Prompt string        `json:"prompt"`
		Issues []scans.Issue `json:"issues"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidatePrompt(body.Prompt); err != nil {
		return badRequest("%v", err)
	}
	list, added, err := r.svc.Scans.AddCustomCheck(req.Context(), body.HTML, middleware.SanitizeString(body.Prompt), body.Issues)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"issue":  added,
		"issues": list,
	})
}

// POST /v1/scans/legacy
// Body: {"html": "..."}
func (r *Router) handleLegacyChecklist(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		HTML string `json:"html"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	issues, err := r.svc.AI.RunLegacyChecklist(req.Context(), body.HTML)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

// POST /v1/suggestions
// Body: {"html": "...", "description": "...", "relevantText": "..."}
func (r *Router) handleSuggestions(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		HTML         string `json:"html"`
		Description  string `json:"description"`
		RelevantText string `json:"relevantText"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	out, err := r.svc.AI.SuggestImprovements(req.Context(), body.HTML, body.Description, body.RelevantText)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"suggestedImprovements": out})
}

// POST /v1/highlight
// Body: {"html": "...", "issue": {...}}
func (r *Router) handleHighlight(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		HTML  string      `json:"html"`
		Issue scans.Issue `json:"issue"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	spans := r.svc.Reconciler.Spans(body.HTML, body.Issue)
	if spans == nil {
		spans = []evidence.Span{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"html":  r.svc.Reconciler.Highlight(body.HTML, body.Issue),
		"spans": spans,
	})
}

//
// ==== INSIGHTS ====
//

// GET /v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	d, err := r.svc.Insights.Dashboard(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d)
}

// GET /v1/insights/summary?year=&quarter=&month=&week=
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	s, err := r.svc.Insights.Summary(req.Context(), f)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, s)
}

// GET /v1/insights/root-causes?limit=&year=...
func (r *Router) handleRootCauses(w http.ResponseWriter, req *http.Request) error {
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		return err
	}
	list, err := r.svc.Insights.RootCauses(req.Context(), f, limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []insights.RootCause{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/insights/trend?groupBy=weekly|monthly|quarterly|yearly&year=...
func (r *Router) handleTrend(w http.ResponseWriter, req *http.Request) error {
	g, err := insights.ParseGroupBy(req.URL.Query().Get("groupBy"))
	if err != nil {
		return badRequest("%v", err)
	}
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	t, err := r.svc.Insights.Trend(req.Context(), g, f)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, t)
}

// GET /v1/insights/filters?year=&quarter=&month=
func (r *Router) handleFilters(w http.ResponseWriter, req *http.Request) error {
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	opts, err := r.svc.Insights.Filters(req.Context(), f)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, opts)
}

// parseFilter applies year, quarter, month and week in cascade order.
func parseFilter(req *http.Request) (insights.Filter, error) {
	var vals [4]int
	for i, name := range []string{"year", "quarter", "month", "week"} {
		n, err := queryInt(req, name)
		if err != nil {
			return insights.Filter{}, err
		}
		vals[i] = n
	}
	year, quarter, month, week := vals[0], vals[1], vals[2], vals[3]
	switch {
	case quarter < 0 || quarter > 4:
		return insights.Filter{}, badRequest("quarter must be between 1 and 4")
	case month < 0 || month > 12:
		return insights.Filter{}, badRequest("month must be between 1 and 12")
	case week < 0 || week > 53:
		return insights.Filter{}, badRequest("week must be between 1 and 53")
	}
	return insights.Filter{}.WithYear(year).WithQuarter(quarter).WithMonth(month).WithWeek(week).Normalize(), nil
}

//
// ==== FAILURES ====
//

// GET /v1/failures?action=&limit=
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	if r.svc.Failures == nil {
		return writeJSON(w, http.StatusOK, []*scanerrors.ScanError{})
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		return err
	}
	list, err := r.svc.Failures.Latest(req.Context(), req.URL.Query().Get("action"), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*scanerrors.ScanError{}
	}
	return writeJSON(w, http.StatusOK, list)
}
