// Package insights aggregates scan history into dashboard figures and reports.
package insights

import (
	"math"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

// Summary holds the headline dashboard figures.
type Summary struct {
	TotalDocuments  int     `json:"totalDocuments"`
	AvgCompliance   int     `json:"avgCompliance"`
	AvgIssuesPerDoc float64 `json:"avgIssuesPerDoc"`
	TotalIssues     int     `json:"totalIssues"`
}

// Summarize computes the dashboard figures; empty history yields all zeros.
func Summarize(history []scans.AnalysisResult) Summary {
	n := len(history)
	if n == 0 {
		return Summary{}
	}
	var compliance, issues int
	for _, r := range history {
		compliance += r.Compliance
		issues += r.FailedCount
	}
	return Summary{
		TotalDocuments:  n,
		AvgCompliance:   int(scans.RoundHalfUp(float64(compliance) / float64(n))),
		AvgIssuesPerDoc: math.Floor(float64(issues)/float64(n)*10+0.5) / 10,
		TotalIssues:     issues,
	}
}

// Band buckets a compliance percentage for colouring.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ComplianceBand returns high for >= 80, medium for >= 50, low otherwise.
func ComplianceBand(compliance int) Band {
	switch {
	case compliance >= 80:
		return BandHigh
	case compliance >= 50:
		return BandMedium
	default:
		return BandLow
	}
}

// RecentDocument is one row of the dashboard's recent list.
type RecentDocument struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	Date        string `json:"date"`
	Compliance  int    `json:"compliance"`
	FailedCount int    `json:"failedCount"`
	Band        Band   `json:"band"`
}

// DefaultRecentLimit is the size of the dashboard's recent list.
const DefaultRecentLimit = 5

// Recent returns the first n results of a most-recent-first history.
func Recent(history []scans.AnalysisResult, n int) []RecentDocument {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	n = min(n, len(history))
	out := make([]RecentDocument, 0, n)
	for _, r := range history[:n] {
		out = append(out, RecentDocument{
			ID:          r.ID,
			FileName:    r.FileName,
			Date:        r.Date.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Compliance:  r.Compliance,
			FailedCount: r.FailedCount,
			Band:        ComplianceBand(r.Compliance),
		})
	}
	return out
}
