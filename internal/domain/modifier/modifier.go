package modifier

import (
	"fmt"
	"strings"
)

// Scope is where a modifier attaches.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeNation   Scope = "nation"
	ScopeState    Scope = "state"
	ScopeProvince Scope = "province"
)

// Effect is what a modifier adjusts. EffectAll applies to every effect.
type Effect string

const (
	EffectProduction Effect = "production"
	EffectPopulation Effect = "population"
	EffectTax        Effect = "tax"
	EffectAll        Effect = "all"
)

// Kind is how a modifier combines: additive or multiplicative.
type Kind string

const (
	KindMul Kind = "mul"
	KindAdd Kind = "add"
)

// Modifier is an admin-created scoped adjustment. Never mutated after
// creation; removed explicitly or ignored past its expiry turn.
type Modifier struct {
	ID          int64
	Scope       Scope
	ScopeID     string // empty for global
	Effect      Effect
	Kind        Kind
	Value       float64 // mul: 0.9 = -10%; add: -0.1 = -10%
	Source      string
	CreatedTurn int
	ExpiresTurn *int
	Active      bool
}

// New validates and normalizes a modifier.
func New(scope Scope, scopeID string, effect Effect, kind Kind, value float64, source string, createdTurn int, expiresTurn *int) (*Modifier, error) {
	scope = Scope(strings.ToLower(string(scope)))
	effect = Effect(strings.ToLower(string(effect)))
	kind = Kind(strings.ToLower(string(kind)))

	switch scope {
	case ScopeGlobal, ScopeNation, ScopeState, ScopeProvince:
	default:
		return nil, fmt.Errorf("invalid scope: %s", scope)
	}
	switch effect {
	case EffectProduction, EffectPopulation, EffectTax, EffectAll:
	default:
		return nil, fmt.Errorf("invalid effect: %s", effect)
	}
	switch kind {
	case KindMul, KindAdd:
	default:
		return nil, fmt.Errorf("invalid kind: %s", kind)
	}
	if scope != ScopeGlobal && scopeID == "" {
		return nil, fmt.Errorf("scope %s requires a scope id", scope)
	}

	return &Modifier{
		Scope:       scope,
		ScopeID:     scopeID,
		Effect:      effect,
		Kind:        kind,
		Value:       value,
		Source:      source,
		CreatedTurn: createdTurn,
		ExpiresTurn: expiresTurn,
		Active:      true,
	}, nil
}

// Expired reports whether the modifier lapsed before the given turn.
func (m *Modifier) Expired(currentTurn int) bool {
	return m.ExpiresTurn != nil && *m.ExpiresTurn < currentTurn
}

// AppliesTo decides whether the modifier matches a (nation, state) scope
// pair. Province-scoped modifiers never match: province aggregation is a
// separate read path.
func (m *Modifier) AppliesTo(nationID, stateID string) bool {
	switch m.Scope {
	case ScopeGlobal:
		return true
	case ScopeNation:
		return m.ScopeID == nationID
	case ScopeState:
		return m.ScopeID == stateID
	default:
		return false
	}
}
