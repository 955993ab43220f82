package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	appinsights "github.com/arishali16742/SOW/internal/application/insights"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/insights"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

var (
	colorPass   = color.New(color.FgGreen, color.Bold)
	colorFail   = color.New(color.FgRed, color.Bold)
	colorWarn   = color.New(color.FgYellow)
	colorInfo   = color.New(color.FgCyan)
	colorHeader = color.New(color.Bold, color.Underline)
	colorDim    = color.New(color.Faint)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func bandColor(b insights.Band) *color.Color {
	switch b {
	case insights.BandHigh:
		return colorPass
	case insights.BandMedium:
		return colorWarn
	default:
		return colorFail
	}
}

func printResult(w io.Writer, r scans.AnalysisResult, persisted bool) {
	colorHeader.Fprintf(w, "%s\n", r.FileName)
	band := insights.ComplianceBand(r.Compliance)
	fmt.Fprintf(w, "Compliance: ")
	bandColor(band).Fprintf(w, "%d%%", r.Compliance)
	fmt.Fprintf(w, "  (%d of %d checks failed)\n", r.FailedCount, r.TotalChecks)
	if persisted {
		colorDim.Fprintf(w, "saved as %s\n", r.ID)
	} else {
		colorDim.Fprintf(w, "not saved: the model returned no issues\n")
	}
	fmt.Fprintln(w)
	printIssues(w, r.Issues)
}

func printIssues(w io.Writer, issues []scans.Issue) {
	for i, is := range issues {
		printIssue(w, i+1, is)
	}
}

func printIssue(w io.Writer, n int, is scans.Issue) {
	mark, c := "PASS", colorPass
	if is.Failed() {
		mark, c = "FAIL", colorFail
	}
	fmt.Fprintf(w, "%2d. ", n)
	c.Fprintf(w, "[%s]", mark)
	fmt.Fprintf(w, " %s", is.Title)
	if is.Count != nil {
		fmt.Fprintf(w, " (x%d)", *is.Count)
	}
	fmt.Fprintln(w)
	if is.Description != "" {
		fmt.Fprintf(w, "    %s\n", is.Description)
	}
	if is.Failed() && is.RelevantText != "" {
		colorWarn.Fprintf(w, "    > %s\n", oneLine(is.RelevantText, 160))
	}
}

func printChecks(w io.Writer, list []checks.Check) {
	for i, c := range list {
		fmt.Fprintf(w, "%2d. ", i+1)
		colorInfo.Fprintf(w, "%s", c.ID)
		fmt.Fprintf(w, "  %s\n", c.Title)
		colorDim.Fprintf(w, "    %s\n", oneLine(c.Prompt, 160))
	}
}

func printHistory(w io.Writer, page scans.PaginatedResult) {
	for _, r := range page.Data {
		fmt.Fprintf(w, "%s  %-40s  ", r.Date.Format("2006-01-02 15:04"), oneLine(r.FileName, 40))
		bandColor(insights.ComplianceBand(r.Compliance)).Fprintf(w, "%3d%%", r.Compliance)
		colorDim.Fprintf(w, "  %s\n", r.ID)
	}
	colorDim.Fprintf(w, "page %d/%d, %d scans\n", page.Page, max(page.TotalPages, 1), page.Total)
}

func printDashboard(w io.Writer, d appinsights.Dashboard) {
	colorHeader.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  documents:         %d\n", d.Summary.TotalDocuments)
	fmt.Fprintf(w, "  avg compliance:    ")
	bandColor(insights.ComplianceBand(d.Summary.AvgCompliance)).Fprintf(w, "%d%%\n", d.Summary.AvgCompliance)
	fmt.Fprintf(w, "  total issues:      %d\n", d.Summary.TotalIssues)
	fmt.Fprintf(w, "  avg issues per doc %.1f\n", d.Summary.AvgIssuesPerDoc)

	if len(d.Recent) > 0 {
		fmt.Fprintln(w)
		colorHeader.Fprintln(w, "Recent documents")
		for _, r := range d.Recent {
			fmt.Fprintf(w, "  %-40s ", oneLine(r.FileName, 40))
			bandColor(r.Band).Fprintf(w, "%3d%%", r.Compliance)
			fmt.Fprintf(w, "  %d failed\n", r.FailedCount)
		}
	}
	if len(d.RootCauses) > 0 {
		fmt.Fprintln(w)
		printRootCauses(w, d.RootCauses)
	}
}

func printRootCauses(w io.Writer, list []insights.RootCause) {
	colorHeader.Fprintln(w, "Top root causes")
	if len(list) == 0 {
		colorDim.Fprintln(w, "  none")
		return
	}
	for i, rc := range list {
		fmt.Fprintf(w, "  %2d. %-50s ", i+1, oneLine(rc.Title, 50))
		colorFail.Fprintf(w, "%d\n", rc.Total)
	}
}

func printTrend(w io.Writer, t appinsights.Trend) {
	colorHeader.Fprintf(w, "Failed issues (%s)\n", t.GroupBy)
	peak := 0
	for _, p := range t.Points {
		peak = max(peak, p.Total)
	}
	for _, p := range t.Points {
		bar := 0
		if peak > 0 {
			bar = p.Total * 30 / peak
		}
		fmt.Fprintf(w, "  %-10s ", p.Bucket)
		colorFail.Fprint(w, strings.Repeat("#", bar))
		fmt.Fprintf(w, " %d (%d docs)\n", p.Total, p.Documents)
	}
	if len(t.Points) == 0 {
		colorDim.Fprintln(w, "  no scans in this period")
	}
	fmt.Fprintln(w)
	colorDim.Fprintf(w, "years: %v  quarters: %v  months: %v  weeks: %v\n",
		t.Options.Years, t.Options.Quarters, t.Options.Months, t.Options.Weeks)
}

// oneLine collapses whitespace and cuts s to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
