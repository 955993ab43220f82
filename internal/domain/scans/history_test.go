package scans

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependCapsHistory(t *testing.T) {
	var history []AnalysisResult
	for i := 0; i < 25; i++ {
		history = Prepend(history, AnalysisResult{ID: fmt.Sprintf("scan-%d", i)}, 0)
	}

	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, "scan-24", history[0].ID)
	assert.Equal(t, "scan-5", history[len(history)-1].ID)
}

func TestPrependCustomLimit(t *testing.T) {
	history := []AnalysisResult{{ID: "a"}, {ID: "b"}}
	out := Prepend(history, AnalysisResult{ID: "c"}, 2)
	assert.Equal(t, []string{"c", "a"}, ids(out))
	assert.Equal(t, []string{"a", "b"}, ids(history))
}

func TestFind(t *testing.T) {
	history := []AnalysisResult{{ID: "a"}, {ID: "b"}}
	r, ok := Find(history, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", r.ID)

	_, ok = Find(history, "z")
	assert.False(t, ok)
}

func TestPaginate(t *testing.T) {
	history := []AnalysisResult{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}

	p := Paginate(history, 2, 2)
	assert.Equal(t, []string{"c", "d"}, ids(p.Data))
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(5), p.Total)

	p = Paginate(history, 9, 2)
	assert.Empty(t, p.Data)
	assert.NotNil(t, p.Data)
}

func ids(list []AnalysisResult) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
