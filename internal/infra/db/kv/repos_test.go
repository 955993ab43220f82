package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/repository"
)

func TestCheckRepository(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewCheckRepository(store)

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Save(ctx, checks.Defaults()[:2]))
	list, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, checks.Defaults()[:2], list)

	require.NoError(t, repo.Save(ctx, []checks.Check{}))
	list, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckRepositoryCorrupt(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", `{"id":"check1"}`, `[{"title":"no id"}]`} {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, checks.StorageKey, []byte(raw)))

		_, err := NewCheckRepository(store).Load(ctx)
		assert.ErrorIs(t, err, repository.ErrCorrupt, raw)
	}
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewHistoryRepository(store)

	count := 2
	in := []scans.AnalysisResult{{
		ID:       "scan-1709287200000",
		FileName: "sow.docx",
		Date:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Issues: []scans.Issue{{
			ID: "check1", Title: "Duplicate Headings Check", Status: scans.StatusFailed,
			RelevantText: "1. Overview", Count: &count, Occurrences: []string{"1. Overview", "1. Overview"},
		}},
		Compliance: 0, FailedCount: 1, TotalChecks: 1,
	}}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err := store.Get(ctx, scans.HistoryStorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fileName":"sow.docx"`)
	assert.Contains(t, string(raw), `"failedCount":1`)
}

func TestHistoryRepositoryReadsOriginalFormat(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	raw := `[{"id":"scan-1","fileName":"a.docx","date":"2024-03-01T10:00:00.000Z","issues":[],"compliance":100,"failedCount":0,"totalChecks":9}]`
	require.NoError(t, store.Put(ctx, scans.HistoryStorageKey, []byte(raw)))

	out, err := NewHistoryRepository(store).Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 9, out[0].TotalChecks)
	assert.Equal(t, 2024, out[0].Date.Year())
}

func TestHistoryRepositoryCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, scans.HistoryStorageKey, []byte(`[{"fileName":"x"}]`)))

	_, err := NewHistoryRepository(store).Load(ctx)
	assert.ErrorIs(t, err, repository.ErrCorrupt)
}
