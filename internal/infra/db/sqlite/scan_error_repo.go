package sqlite

import (
	"context"
	"fmt"
	"time"

	domain "github.com/arishali16742/SOW/internal/domain/scanerrors"
)

type ScanErrorRepository struct {
	store *Store
}

func NewScanErrorRepository(s *Store) *ScanErrorRepository { return &ScanErrorRepository{store: s} }

type scanErrorRow struct {
	ID        int64  `db:"id"`
	Action    string `db:"action"`
	Kind      string `db:"kind"`
	FileName  string `db:"file_name"`
	Message   string `db:"message"`
	RawOutput string `db:"raw_output"`
	CreatedAt int64  `db:"created_at"`
}

func (r *ScanErrorRepository) Save(ctx context.Context, e *domain.ScanError) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	row := scanErrorRow{
		Action:    e.Action,
		Kind:      string(e.Kind),
		FileName:  e.FileName,
		Message:   e.Message,
		RawOutput: e.RawOutput,
		CreatedAt: created.UnixMilli(),
	}
	const q = `
INSERT INTO scan_errors (action, kind, file_name, message, raw_output, created_at)
VALUES (:action, :kind, :file_name, :message, :raw_output, :created_at)`
	res, err := r.store.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return fmt.Errorf("insert scan error: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

func (r *ScanErrorRepository) Latest(ctx context.Context, action string, limit int) ([]*domain.ScanError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, action, kind, file_name, message, raw_output, created_at
FROM scan_errors
WHERE (? = '' OR action = ?)
ORDER BY created_at DESC, id DESC
LIMIT ?`
	var rows []scanErrorRow
	if err := r.store.db.SelectContext(ctx, &rows, q, action, action, limit); err != nil {
		return nil, fmt.Errorf("list scan errors: %w", err)
	}
	out := make([]*domain.ScanError, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.ScanError{
			ID:        row.ID,
			Action:    row.Action,
			Kind:      domain.Kind(row.Kind),
			FileName:  row.FileName,
			Message:   row.Message,
			RawOutput: row.RawOutput,
			CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		})
	}
	return out, nil
}
