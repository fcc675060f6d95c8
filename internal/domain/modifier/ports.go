package modifier

import "context"

// Repository persists modifiers.
type Repository interface {
	Create(ctx context.Context, mod *Modifier) error
	Delete(ctx context.Context, id int64) error

	// ListActive returns every active modifier. Expiry filtering happens in
	// the aggregator, which knows the current turn.
	ListActive(ctx context.Context) ([]*Modifier, error)

	// List returns modifiers, optionally filtered by scope and scope id
	// (empty = no filter).
	List(ctx context.Context, scope Scope, scopeID string, onlyActive bool) ([]*Modifier, error)
}
