package scans

import "context"

// HistoryStorageKey is the key the result history is persisted under.
const HistoryStorageKey = "sowise_analysis_history"

// HistoryRepository port, the whole history list is one document (most recent first).
// Load returns repository.ErrNotFound when empty and repository.ErrCorrupt on bad data.
type HistoryRepository interface {
	Load(ctx context.Context) ([]AnalysisResult, error)
	Save(ctx context.Context, history []AnalysisResult) error
}

// DocumentStore port (penyimpanan file dokumen asli)
type DocumentStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
