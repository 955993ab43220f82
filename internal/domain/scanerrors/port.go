package scanerrors

import "context"

// Repository defines persistence for failure entries
type Repository interface {
	Save(ctx context.Context, e *ScanError) error
	// Latest returns the newest entries first; an empty action matches all actions.
	Latest(ctx context.Context, action string, limit int) ([]*ScanError, error)
}
