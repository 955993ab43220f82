package scans

// DefaultHistoryLimit is how many results are retained.
const DefaultHistoryLimit = 20

// Prepend puts r first and drops the oldest entries beyond limit.
// limit <= 0 falls back to DefaultHistoryLimit.
func Prepend(history []AnalysisResult, r AnalysisResult, limit int) []AnalysisResult {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out := make([]AnalysisResult, 0, min(len(history)+1, limit))
	out = append(out, r)
	for _, h := range history {
		if len(out) == limit {
			break
		}
		out = append(out, h)
	}
	return out
}

// Find returns the result with the given id.
func Find(history []AnalysisResult, id string) (AnalysisResult, bool) {
	for _, h := range history {
		if h.ID == id {
			return h, true
		}
	}
	return AnalysisResult{}, false
}
