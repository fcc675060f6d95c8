package world

import "context"

// ProvinceRepository exposes the province reads the engine needs. Greedy
// allocation paths rely on the repositories returning provinces already
// ordered by priority (node_strength DESC, province_id ASC).
type ProvinceRepository interface {
	// FindByID retrieves a single province.
	FindByID(ctx context.Context, provinceID string) (*Province, error)

	// ListByStateAndController returns the nation's provinces in a state,
	// ordered by priority.
	ListByStateAndController(ctx context.Context, stateID, nationID string) ([]*Province, error)

	// ListByController returns every province the nation controls, ordered
	// by priority.
	ListByController(ctx context.Context, nationID string) ([]*Province, error)

	// StrongestByController returns the nation's highest-priority province,
	// or nil when the nation controls none.
	StrongestByController(ctx context.Context, nationID string) (*Province, error)

	// StrongestInState returns the nation's highest-priority province within
	// a state, or nil when there is none.
	StrongestInState(ctx context.Context, stateID, nationID string) (*Province, error)

	// SetManpowerUsed persists an updated manpower_used value.
	SetManpowerUsed(ctx context.Context, provinceID string, manpowerUsed int) error
}

// TurnRepository owns the single authoritative turn counter.
type TurnRepository interface {
	CurrentTurn(ctx context.Context) (int, error)
	SetCurrentTurn(ctx context.Context, turn int) error
}

// NationRepository exposes treasury reads and the cash/debt mutations the
// engine performs. Credit/Debit run inside the ambient transaction when one
// is active.
type NationRepository interface {
	FindByID(ctx context.Context, nationID string) (*Nation, error)

	// Credit adds cash to the nation's treasury.
	Credit(ctx context.Context, nationID string, amount float64) error

	// Debit removes cash; it does not check the balance, callers validate
	// affordability inside the same transaction first.
	Debit(ctx context.Context, nationID string, amount float64) error

	// AddDebt zeroes nothing; it increments the nation's debt.
	AddDebt(ctx context.Context, nationID string, amount float64) error

	// SetCash overwrites the cash balance (maintenance shortfall path).
	SetCash(ctx context.Context, nationID string, cash float64) error

	// AdjustManpowerUsed adds delta (may be negative, floored at zero).
	AdjustManpowerUsed(ctx context.Context, nationID string, delta int) error

	// ListIDs returns every nation id.
	ListIDs(ctx context.Context) ([]string, error)
}
