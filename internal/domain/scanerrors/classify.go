package scanerrors

import (
	"errors"
	"time"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/document"
)

// Classify maps an error to its Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return KindQuotaExceeded
	case errors.Is(err, ai.ErrModelUnavailable):
		return KindModelUnavailable
	case errors.Is(err, ai.ErrModelOutputInvalid):
		return KindModelOutputInvalid
	case errors.Is(err, document.ErrIngestionFailure), errors.Is(err, document.ErrUnsupportedFormat):
		return KindIngestion
	default:
		return KindOther
	}
}

// FromError builds an entry for err, copying the raw model output when there is one.
func FromError(action, fileName string, err error, at time.Time) *ScanError {
	e := &ScanError{
		Action:    action,
		Kind:      Classify(err),
		FileName:  fileName,
		Message:   err.Error(),
		CreatedAt: at.UTC(),
	}
	var oe *ai.OutputError
	if errors.As(err, &oe) {
		e.RawOutput = oe.Raw
	}
	return e
}
