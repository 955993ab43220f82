package scanerrors

import "time"

// Kind classifies a failure the same way the HTTP layer does.
type Kind string

const (
	KindModelUnavailable   Kind = "model_unavailable"
	KindQuotaExceeded      Kind = "quota_exceeded"
	KindModelOutputInvalid Kind = "model_output_invalid"
	KindIngestion          Kind = "ingestion_failure"
	KindOther              Kind = "other"
)

// ScanError represents a persisted failure of one audit action.
type ScanError struct {
	ID       int64  `json:"id" db:"id"`
	Action   string `json:"action" db:"action"` // checklist-scan | custom-prompt | suggestion | legacy-checklist | ingest
	Kind     Kind   `json:"kind" db:"kind"`
	FileName string `json:"fileName,omitempty" db:"file_name"`
	Message  string `json:"message" db:"message"`
	// RawOutput is the model payload that failed validation, kept for schema drift analysis.
	RawOutput string    `json:"rawOutput,omitempty" db:"raw_output"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
