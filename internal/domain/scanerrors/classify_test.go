package scanerrors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/document"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, KindQuotaExceeded, Classify(fmt.Errorf("call: %w", ai.ErrQuotaExceeded)))
	assert.Equal(t, KindModelUnavailable, Classify(fmt.Errorf("call: %w", ai.ErrModelUnavailable)))
	assert.Equal(t, KindModelOutputInvalid, Classify(ai.InvalidOutput("suggestion", "{}", "missing")))
	assert.Equal(t, KindIngestion, Classify(fmt.Errorf("%w: bad zip", document.ErrIngestionFailure)))
	assert.Equal(t, KindOther, Classify(errors.New("boom")))
}

func TestFromErrorKeepsRawOutput(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e := FromError("checklist-scan", "sow.docx", ai.InvalidOutput("checklist-scan", "not json", "decode"), at)

	assert.Equal(t, KindModelOutputInvalid, e.Kind)
	assert.Equal(t, "not json", e.RawOutput)
	assert.Equal(t, "sow.docx", e.FileName)
	assert.Equal(t, at, e.CreatedAt)
}
