package stockpile

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// Store is the per-province resource ledger with its reservation overlay.
//
// Reserve is the only admission gate between concurrently-initiated
// operations: it re-checks availability inside a write-isolated transaction,
// so two reservations whose combined amount exceeds the available stock can
// never both succeed. Consume converts reservations into stockpile
// decrements; Release drops them without touching stock.
type Store interface {
	// Available returns stockpile amount minus active reservations for one
	// province/resource. Never negative.
	Available(ctx context.Context, provinceID string, resource shared.Resource) (float64, error)

	// NationAvailable sums (amount - reservations) across every province the
	// nation controls. Used by sell-side market validation.
	NationAvailable(ctx context.Context, nationID string, resource shared.Resource) (float64, error)

	// Reserve atomically re-checks available >= amount and inserts a
	// reservation row. Returns false (and mutates nothing) when the stock
	// cannot cover the request.
	Reserve(ctx context.Context, buildID int64, provinceID string, resource shared.Resource, amount float64) (bool, error)

	// Consume decrements stockpiles by every reservation tied to buildID and
	// deletes the reservation rows, returning what was consumed.
	Consume(ctx context.Context, buildID int64) ([]ReservationRecord, error)

	// Release deletes all reservations for buildID without touching
	// stockpile amounts.
	Release(ctx context.Context, buildID int64) error

	// Add increases a stockpile, clamped to capacity, creating the row at
	// DefaultCapacity when absent.
	Add(ctx context.Context, provinceID string, resource shared.Resource, amount float64) error

	// AddWithCapacity behaves like Add but uses the given capacity when the
	// row must be created (trade deposits use a larger receiving default).
	AddWithCapacity(ctx context.Context, provinceID string, resource shared.Resource, amount, createCapacity float64) error

	// RemoveDirect unconditionally decrements a stockpile without consulting
	// reservations; returns false (no mutation) when the stock is short.
	RemoveDirect(ctx context.Context, provinceID string, resource shared.Resource, amount float64) (bool, error)

	// Entry returns the row for one province/resource, or nil when absent.
	Entry(ctx context.Context, provinceID string, resource shared.Resource) (*Entry, error)

	// ListByProvince returns every stockpile row for a province.
	ListByProvince(ctx context.Context, provinceID string) ([]*Entry, error)

	// ListByNation returns every stockpile row across the nation's
	// provinces, ordered by province priority.
	ListByNation(ctx context.Context, nationID string) ([]*Entry, error)
}
