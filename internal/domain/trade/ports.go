package trade

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// MarketRepository persists public market posts.
type MarketRepository interface {
	Create(ctx context.Context, post *MarketPost) error
	FindByID(ctx context.Context, id int64) (*MarketPost, error)
	Delete(ctx context.Context, id int64) error

	// List returns posts newest-first, optionally filtered by resource
	// (empty = all).
	List(ctx context.Context, resource shared.Resource, limit int) ([]*MarketPost, error)
}

// OfferRepository persists direct trade offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *Offer) error
	FindByID(ctx context.Context, id int64) (*Offer, error)
	UpdateStatus(ctx context.Context, offer *Offer) error

	// CountOpenByCreator counts the nation's open offers (admission gate).
	CountOpenByCreator(ctx context.Context, nationID string) (int, error)

	// ListByNation returns offers the nation created or received,
	// newest-first.
	ListByNation(ctx context.Context, nationID string, limit int) ([]*Offer, error)
}

// RecordRepository is the append-only settled-trade ledger.
type RecordRepository interface {
	Create(ctx context.Context, record *Record) error
	ListByNation(ctx context.Context, nationID string, limit int) ([]*Record, error)
}

// ResourceCatalog answers per-resource shipment weight and existence.
type ResourceCatalog interface {
	// Exists reports whether the resource is registered in the world data.
	Exists(ctx context.Context, resource shared.Resource) (bool, error)

	// WeightKg returns the resource's unit weight, or
	// DefaultResourceWeightKg when unregistered.
	WeightKg(ctx context.Context, resource shared.Resource) (float64, error)
}
