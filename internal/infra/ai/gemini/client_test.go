package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arishali16742/SOW/internal/domain/ai"
)

func TestClassify(t *testing.T) {
	err := classify(errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED"))
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)

	err = classify(errors.New("Error 503, Message: overloaded, Status: UNAVAILABLE"))
	assert.ErrorIs(t, err, ai.ErrModelUnavailable)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}
