package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/arishali16742/SOW/internal/domain/scanerrors"
)

type ScanErrorRepository struct{ db *sql.DB }

func NewScanErrorRepository(db *sql.DB) *ScanErrorRepository { return &ScanErrorRepository{db: db} }

func (r *ScanErrorRepository) Save(ctx context.Context, e *domain.ScanError) error {
	const q = `
INSERT INTO sow_scan_errors (action, kind, file_name, message, raw_output, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.db.QueryRowContext(ctx, q,
		e.Action, string(e.Kind), e.FileName, e.Message, e.RawOutput, created.UTC(),
	).Scan(&e.ID)
}

func (r *ScanErrorRepository) Latest(ctx context.Context, action string, limit int) ([]*domain.ScanError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, action, kind, file_name, message, raw_output, created_at
FROM sow_scan_errors
WHERE ($1 = '' OR action = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, action, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ScanError
	for rows.Next() {
		var e domain.ScanError
		var kind string
		if err := rows.Scan(&e.ID, &e.Action, &kind, &e.FileName, &e.Message, &e.RawOutput, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.Kind(kind)
		out = append(out, &e)
	}
	return out, rows.Err()
}
