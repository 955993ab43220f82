package insights

import (
	"sort"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

// DefaultRootCauseLimit is how many root causes reports show.
const DefaultRootCauseLimit = 10

// RootCause is a check title and how often it failed across history.
type RootCause struct {
	Title string `json:"title"`
	Total int    `json:"total"`
}

// RootCauses groups failed issues by title, weighted by their count, and sorts
// descending. Ties keep the order in which titles first appear in history.
func RootCauses(history []scans.AnalysisResult) []RootCause {
	index := map[string]int{}
	var out []RootCause
	for _, r := range history {
		for _, is := range r.Issues {
			if !is.Failed() {
				continue
			}
			i, ok := index[is.Title]
			if !ok {
				i = len(out)
				index[is.Title] = i
				out = append(out, RootCause{Title: is.Title})
			}
			out[i].Total += is.Weight()
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if out == nil {
		return []RootCause{}
	}
	return out
}

// TopN keeps the first n entries; n <= 0 keeps everything.
func TopN(list []RootCause, n int) []RootCause {
	if n <= 0 || n >= len(list) {
		return list
	}
	return list[:n]
}
