package checks

import "context"

// StorageKey is the key the check list is persisted under.
const StorageKey = "sowise_default_checks"

// Repository persists the whole check list as one document.
// Load returns repository.ErrNotFound when nothing was saved yet and
// repository.ErrCorrupt when the stored value cannot be decoded.
type Repository interface {
	Load(ctx context.Context) ([]Check, error)
	Save(ctx context.Context, list []Check) error
}
