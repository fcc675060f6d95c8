package military

import "context"

// UnitTemplateRepository serves immutable unit reference data.
type UnitTemplateRepository interface {
	FindByID(ctx context.Context, id string) (*UnitTemplate, error)
	List(ctx context.Context) ([]*UnitTemplate, error)
}

// RecruitRepository persists queued recruits.
type RecruitRepository interface {
	Create(ctx context.Context, recruit *Recruit) error
	FindByID(ctx context.Context, id int64) (*Recruit, error)
	Delete(ctx context.Context, id int64) error

	// List returns the nation's recruits, optionally filtered by state
	// (empty stateID = all).
	List(ctx context.Context, nationID, stateID string) ([]*Recruit, error)

	// CountByProvinces counts the nation's recruits stationed in the given
	// provinces (committed manpower units).
	CountByProvinces(ctx context.Context, nationID string, provinceIDs []string) (int, error)
}

// ArmyRepository persists armies.
type ArmyRepository interface {
	Create(ctx context.Context, army *Army) error
	FindByID(ctx context.Context, id int64) (*Army, error)
	ListByNation(ctx context.Context, nationID string) ([]*Army, error)
}

// TechnologyRepository answers the recruit tech gate.
type TechnologyRepository interface {
	HasTech(ctx context.Context, nationID, techID string) (bool, error)
}
