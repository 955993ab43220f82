package scans

import (
	"fmt"
	"math"
	"time"
)

// Status enum
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusPassed || s == StatusFailed
}

// Issue is the model's verdict for one check (or one custom prompt).
type Issue struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Status       Status   `json:"status"`
	Description  string   `json:"description"`
	RelevantText string   `json:"relevantText"`
	Count        *int     `json:"count,omitempty"`
	Occurrences  []string `json:"occurrences,omitempty"`
}

// Failed is true when the check did not pass.
func (i Issue) Failed() bool { return i.Status == StatusFailed }

// Weight is the number of occurrences this failure stands for in root-cause totals.
func (i Issue) Weight() int {
	if i.Count != nil {
		return *i.Count
	}
	return 1
}

// CustomFinding is the model answer to an ad-hoc question about the document.
type CustomFinding struct {
	Status       Status `json:"status"`
	Description  string `json:"description"`
	RelevantText string `json:"relevantText"`
}

// Aggregate Root: AnalysisResult, one completed scan.
type AnalysisResult struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	Date        time.Time `json:"date"`
	Issues      []Issue   `json:"issues"`
	Compliance  int       `json:"compliance"`
	FailedCount int       `json:"failedCount"`
	TotalChecks int       `json:"totalChecks"`
	DocumentURL string    `json:"documentUrl,omitempty"`
}

// NewResult computes the derived counters for a finished scan taken at the given time.
func NewResult(at time.Time, fileName string, issues []Issue) AnalysisResult {
	failed := 0
	for _, is := range issues {
		if is.Failed() {
			failed++
		}
	}
	return AnalysisResult{
		ID:          ResultID(at),
		FileName:    fileName,
		Date:        at.UTC(),
		Issues:      issues,
		Compliance:  Compliance(len(issues), failed),
		FailedCount: failed,
		TotalChecks: len(issues),
	}
}

// Compliance is the rounded pass percentage; an empty scan counts as fully compliant.
func Compliance(total, failed int) int {
	if total <= 0 {
		return 100
	}
	return int(RoundHalfUp(100 * float64(total-failed) / float64(total)))
}

// RoundHalfUp rounds .5 towards positive infinity.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ResultID is time ordered: "scan-<unix millis>".
func ResultID(at time.Time) string {
	return fmt.Sprintf("scan-%d", at.UnixMilli())
}

// CustomIssueID is the id given to an issue created from a custom prompt.
func CustomIssueID(at time.Time) string {
	return fmt.Sprintf("custom-%d", at.UnixMilli())
}

// PrependIssue returns a new list with is at index 0.
func PrependIssue(list []Issue, is Issue) []Issue {
	out := make([]Issue, 0, len(list)+1)
	out = append(out, is)
	return append(out, list...)
}
