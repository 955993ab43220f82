package document

import (
	"context"
	"errors"
)

var (
	// ErrIngestionFailure means the uploaded file could not be turned into text.
	ErrIngestionFailure = errors.New("document ingestion failed")
	// ErrUnsupportedFormat is returned for file types with no converter.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmpty is returned when there is no document content to analyse.
	ErrEmpty = errors.New("document is empty")
)

// Converter turns an uploaded file into display HTML.
type Converter interface {
	Convert(ctx context.Context, fileName string, data []byte) (string, error)
}
