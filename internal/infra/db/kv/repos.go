package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/scans"
	"github.com/arishali16742/SOW/internal/repository"
)

// CheckRepository implements checks.Repository.
type CheckRepository struct{ store Store }

func NewCheckRepository(s Store) *CheckRepository { return &CheckRepository{store: s} }

func (r *CheckRepository) Load(ctx context.Context) ([]checks.Check, error) {
	var list []checks.Check
	if err := load(ctx, r.store, checks.StorageKey, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("%w: %s is null", repository.ErrCorrupt, checks.StorageKey)
	}
	for i, c := range list {
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("%w: %s[%d] has no id", repository.ErrCorrupt, checks.StorageKey, i)
		}
	}
	return list, nil
}

func (r *CheckRepository) Save(ctx context.Context, list []checks.Check) error {
	return save(ctx, r.store, checks.StorageKey, list)
}

// HistoryRepository implements scans.HistoryRepository.
type HistoryRepository struct{ store Store }

func NewHistoryRepository(s Store) *HistoryRepository { return &HistoryRepository{store: s} }

func (r *HistoryRepository) Load(ctx context.Context) ([]scans.AnalysisResult, error) {
	var list []scans.AnalysisResult
	if err := load(ctx, r.store, scans.HistoryStorageKey, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("%w: %s is null", repository.ErrCorrupt, scans.HistoryStorageKey)
	}
	for i, res := range list {
		if res.ID == "" || res.Date.IsZero() {
			return nil, fmt.Errorf("%w: %s[%d] has no id or date", repository.ErrCorrupt, scans.HistoryStorageKey, i)
		}
	}
	return list, nil
}

func (r *HistoryRepository) Save(ctx context.Context, history []scans.AnalysisResult) error {
	return save(ctx, r.store, scans.HistoryStorageKey, history)
}

func load(ctx context.Context, s Store, key string, dst any) error {
	b, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, key, err)
	}
	return nil
}

func save(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, b)
}
