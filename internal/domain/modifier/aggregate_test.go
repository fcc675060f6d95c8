package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
)

func TestAggregate_AdditiveCombinesBeforeMultiplicative(t *testing.T) {
	// Arrange - +20% and +10% additive, then a 0.5x multiplier
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindAdd, Value: 0.2, Active: true},
		{ID: 2, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindAdd, Value: 0.1, Active: true},
		{ID: 3, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 0.5, Active: true},
	}

	// Act
	report := modifier.Aggregate(mods, "n1", "s1", 0)

	// Assert - (1 + 0.3) * 0.5, not 1 * 0.5 + 0.3
	assert.InDelta(t, 0.3, report.Production.AddSum, 1e-9)
	assert.InDelta(t, 0.5, report.Production.MulProduct, 1e-9)
	assert.InDelta(t, 0.65, report.Production.Final, 1e-9)
	assert.Len(t, report.Production.Breakdown, 3)
}

func TestAggregate_FinalClampsAtZero(t *testing.T) {
	// Arrange - a -200% additive penalty
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeGlobal, Effect: modifier.EffectTax, Kind: modifier.KindAdd, Value: -2.0, Active: true},
	}

	// Act
	report := modifier.Aggregate(mods, "n1", "s1", 0)

	// Assert
	assert.InDelta(t, 0, report.Tax.Final, 1e-9)
}

func TestAggregate_ScopeFiltering(t *testing.T) {
	// Arrange
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeNation, ScopeID: "n1", Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 2.0, Active: true},
		{ID: 2, Scope: modifier.ScopeNation, ScopeID: "n2", Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 9.0, Active: true},
		{ID: 3, Scope: modifier.ScopeState, ScopeID: "s1", Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 3.0, Active: true},
		{ID: 4, Scope: modifier.ScopeState, ScopeID: "s2", Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 9.0, Active: true},
		{ID: 5, Scope: modifier.ScopeProvince, ScopeID: "p1", Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 9.0, Active: true},
	}

	// Act
	report := modifier.Aggregate(mods, "n1", "s1", 0)

	// Assert - only the matching nation and state rows contribute;
	// province-scoped modifiers are a separate read path
	assert.InDelta(t, 6.0, report.Production.Final, 1e-9)
	assert.Len(t, report.Production.Breakdown, 2)
}

func TestAggregate_ExpiredAndInactiveExcluded(t *testing.T) {
	// Arrange
	expires := 4
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 5.0, Active: true, ExpiresTurn: &expires},
		{ID: 2, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 7.0, Active: false},
	}

	// Act - turn 5 is past the expiry
	report := modifier.Aggregate(mods, "n1", "s1", 5)

	// Assert
	assert.InDelta(t, 1.0, report.Production.Final, 1e-9)
	assert.Empty(t, report.Production.Breakdown)
}

func TestAggregate_EffectAllAppliesEverywhere(t *testing.T) {
	// Arrange
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeGlobal, Effect: modifier.EffectAll, Kind: modifier.KindAdd, Value: 0.5, Active: true},
	}

	// Act
	report := modifier.Aggregate(mods, "n1", "s1", 0)

	// Assert
	assert.InDelta(t, 1.5, report.Production.Final, 1e-9)
	assert.InDelta(t, 1.5, report.Population.Final, 1e-9)
	assert.InDelta(t, 1.5, report.Tax.Final, 1e-9)
}

func TestAggregate_ExpiryIsInclusiveOfItsLastTurn(t *testing.T) {
	// Arrange - a modifier expiring on turn 5 still applies during turn 5
	expires := 5
	mods := []*modifier.Modifier{
		{ID: 1, Scope: modifier.ScopeGlobal, Effect: modifier.EffectProduction, Kind: modifier.KindMul, Value: 2.0, Active: true, ExpiresTurn: &expires},
	}

	// Act
	report := modifier.Aggregate(mods, "n1", "s1", 5)

	// Assert
	assert.InDelta(t, 2.0, report.Production.Final, 1e-9)
}

func TestNew_ValidatesAndNormalizes(t *testing.T) {
	// Act
	mod, err := modifier.New("Nation", "n1", "Production", "MUL", 1.25, "war exhaustion", 3, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, modifier.ScopeNation, mod.Scope)
	assert.Equal(t, modifier.EffectProduction, mod.Effect)
	assert.Equal(t, modifier.KindMul, mod.Kind)
	assert.True(t, mod.Active)

	// Scoped modifiers need a target
	_, err = modifier.New(modifier.ScopeState, "", modifier.EffectTax, modifier.KindAdd, 0.1, "", 0, nil)
	assert.Error(t, err)

	_, err = modifier.New("galaxy", "x", modifier.EffectTax, modifier.KindAdd, 0.1, "", 0, nil)
	assert.Error(t, err)
}
