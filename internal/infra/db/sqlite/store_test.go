package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/scanerrors"
	"github.com/arishali16742/SOW/internal/infra/db/kv"
	"github.com/arishali16742/SOW/internal/repository"
)

// NewTestStore opens an in-memory database for tests.
func NewTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), memoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	s := NewTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "k", []byte(`[2]`)))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(v))

	assert.ErrorIs(t, s.Put(ctx, "", nil), repository.ErrInvalidInput)
}

func TestCheckRepositoryOnSQLite(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewCheckRepository(NewTestStore(t))

	require.NoError(t, repo.Save(ctx, checks.Defaults()))
	list, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, checks.Defaults(), list)
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/sowise.db"
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestScanErrorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewScanErrorRepository(NewTestStore(t))
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	first := &scanerrors.ScanError{Action: "checklist-scan", Kind: scanerrors.KindModelOutputInvalid, Message: "bad", RawOutput: "oops", CreatedAt: base}
	second := &scanerrors.ScanError{Action: "ingest", Kind: scanerrors.KindIngestion, FileName: "a.docx", Message: "zip", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	assert.NotZero(t, first.ID)

	all, err := repo.Latest(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ingest", all[0].Action)
	assert.Equal(t, base, all[1].CreatedAt)
	assert.Equal(t, "oops", all[1].RawOutput)

	only, err := repo.Latest(ctx, "checklist-scan", 0)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, scanerrors.KindModelOutputInvalid, only[0].Kind)
}
