package scans

// ScanRequest is one uploaded document to audit.
// Either Data (a file to convert) or HTML (already converted) must be set.
type ScanRequest struct {
	FileName string
	Data     []byte
	HTML     string
}

// ScanOutcome is what a scan returns to the caller.
type ScanOutcome struct {
	Result AnalysisResult `json:"result"`
	// HTML is the converted document, used for display and highlighting.
	HTML string `json:"html"`
	// Persisted is false when the scan produced no issues and history was left alone.
	Persisted bool `json:"persisted"`
}
