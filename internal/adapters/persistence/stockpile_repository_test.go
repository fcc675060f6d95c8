package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/test/helpers"
)

func TestStockpileStore_ReserveAdmission(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 100, 1000)

	// Act - two reservations whose sum exceeds the stock
	first, err := store.Reserve(context.Background(), 1, "p1", shared.Resource("Coal"), 60)
	require.NoError(t, err)
	second, err := store.Reserve(context.Background(), 2, "p1", shared.Resource("Coal"), 60)
	require.NoError(t, err)

	// Assert - only the first is admitted
	assert.True(t, first)
	assert.False(t, second)

	available, err := store.Available(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 40, available, 1e-9)
}

func TestStockpileStore_ReleaseRestoresAvailability(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 100, 1000)

	ok, err := store.Reserve(context.Background(), 1, "p1", shared.Resource("Coal"), 80)
	require.NoError(t, err)
	require.True(t, ok)

	// Act
	err = store.Release(context.Background(), 1)
	require.NoError(t, err)

	// Assert - stock untouched, full amount reservable again
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 100, entry.Amount, 1e-9)

	ok, err = store.Reserve(context.Background(), 2, "p1", shared.Resource("Coal"), 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStockpileStore_ConsumeDecrementsStock(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 100, 1000)
	helpers.SeedStockpile(t, db, "p2", "Coal", 50, 1000)

	ok, err := store.Reserve(context.Background(), 7, "p1", shared.Resource("Coal"), 60)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.Reserve(context.Background(), 7, "p2", shared.Resource("Coal"), 20)
	require.NoError(t, err)
	require.True(t, ok)

	// Act
	consumed, err := store.Consume(context.Background(), 7)

	// Assert - stock drops by the reserved amounts, reservations are gone
	require.NoError(t, err)
	assert.Len(t, consumed, 2)

	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 40, entry.Amount, 1e-9)

	entry, err = store.Entry(context.Background(), "p2", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 30, entry.Amount, 1e-9)

	available, err := store.Available(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 40, available, 1e-9)
}

func TestStockpileStore_AddClampsToCapacity(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 900, 1000)

	// Act
	err := store.Add(context.Background(), "p1", shared.Resource("Coal"), 250)

	// Assert - overflow is dropped at the ceiling
	require.NoError(t, err)
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 1000, entry.Amount, 1e-9)
}

func TestStockpileStore_AddCreatesMissingRow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)

	// Act
	err := store.AddWithCapacity(context.Background(), "p1", shared.Resource("Steel"), 40, 100000)

	// Assert - the row is created lazily with the given capacity
	require.NoError(t, err)
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Steel"))
	require.NoError(t, err)
	assert.InDelta(t, 40, entry.Amount, 1e-9)
	assert.InDelta(t, 100000, entry.Capacity, 1e-9)
}

func TestStockpileStore_RemoveDirectShortfall(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 10, 1000)

	// Act
	ok, err := store.RemoveDirect(context.Background(), "p1", shared.Resource("Coal"), 15)

	// Assert - nothing moved
	require.NoError(t, err)
	assert.False(t, ok)
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 10, entry.Amount, 1e-9)
}

func TestStockpileStore_NationAvailable(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStockpileStore(db)
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p2", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Beta",
	})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p3", StateID: "s2", ControllerID: helpers.ControlledBy("n2"), Name: "Gamma",
	})
	helpers.SeedStockpile(t, db, "p1", "Coal", 100, 1000)
	helpers.SeedStockpile(t, db, "p2", "Coal", 50, 1000)
	helpers.SeedStockpile(t, db, "p3", "Coal", 999, 1000)

	ok, err := store.Reserve(context.Background(), 1, "p1", shared.Resource("Coal"), 30)
	require.NoError(t, err)
	require.True(t, ok)

	// Act
	available, err := store.NationAvailable(context.Background(), "n1", shared.Resource("Coal"))

	// Assert - other nations' stock and own reservations are excluded
	require.NoError(t, err)
	assert.InDelta(t, 120, available, 1e-9)
}
