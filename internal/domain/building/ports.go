package building

import "context"

// TemplateRepository serves immutable building reference data.
type TemplateRepository interface {
	FindByID(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
}

// BuildRepository persists the pending-build queue.
type BuildRepository interface {
	// Create inserts a pending row and assigns its id.
	Create(ctx context.Context, build *PendingBuild) error

	FindByID(ctx context.Context, id int64) (*PendingBuild, error)

	// UpdateReserved persists the build's reservation record set.
	UpdateReserved(ctx context.Context, build *PendingBuild) error

	// UpdateStatus persists a status transition.
	UpdateStatus(ctx context.Context, build *PendingBuild) error

	// Delete removes the row entirely (failed start, cancel).
	Delete(ctx context.Context, id int64) error

	// ListDue returns pending builds with complete_turn <= turn.
	ListDue(ctx context.Context, turn int) ([]*PendingBuild, error)

	// ListPendingByNation returns the nation's queue, soonest first.
	ListPendingByNation(ctx context.Context, nationID string) ([]*PendingBuild, error)
}

// InstalledRepository persists installed buildings.
type InstalledRepository interface {
	FindByID(ctx context.Context, id int64) (*Installed, error)

	// Increment upserts (province, building, tier) adding one to count.
	Increment(ctx context.Context, provinceID, buildingID string, tier int) error

	// Delete removes an installed row (demolition, no refund).
	Delete(ctx context.Context, id int64) error

	// List returns every installed row in the world.
	List(ctx context.Context) ([]*Installed, error)

	// ListByNation returns installed rows across the nation's provinces.
	ListByNation(ctx context.Context, nationID string) ([]*Installed, error)

	// ListByStateAndNation returns installed rows in the nation's provinces
	// within one state.
	ListByStateAndNation(ctx context.Context, stateID, nationID string) ([]*Installed, error)
}
