package turn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/turn"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/building"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/test/helpers"
)

func newTurnService(t *testing.T) (*turn.Service, *gorm.DB) {
	db := helpers.NewTestDB(t)
	repos := persistence.NewRepositories(db)
	uow := persistence.NewGormUnitOfWork(db)
	return turn.NewService(repos, uow, nil, nil), db
}

func buildStatus(t *testing.T, db *gorm.DB, buildID int64) string {
	var model persistence.StateBuildModel
	require.NoError(t, db.Where("id = ?", buildID).First(&model).Error)
	return model.Status
}

func TestAdvanceTurn_PersistsTurnNumber(t *testing.T) {
	// Arrange
	svc, _ := newTurnService(t)

	// Act
	next, err := svc.AdvanceTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	next, err = svc.AdvanceTurn(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, next)
	current, err := svc.CurrentTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestAdvanceTurn_CompletesDueBuild(t *testing.T) {
	// Arrange
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"),
		Name: "Alpha", NodeStrength: 10,
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "mine", Name: "Mine",
		BuildCostResources:  `{"Coal": 50}`,
		BuildTimeTurns:      1,
		MaintenanceManpower: 5,
	})
	helpers.SeedStockpile(t, db, "p1", "Coal", 80, 1000)

	require.NoError(t, db.Create(&persistence.StateBuildModel{
		ID: 1, NationID: "n1", StateID: "s1", BuildingID: "mine", Tier: 1,
		StartedTurn: 0, CompleteTurn: 1, Status: "pending", ReservedJSON: "[]",
	}).Error)
	require.NoError(t, db.Create(&persistence.ReservationModel{
		BuildID: 1, ProvinceID: "p1", Resource: "Coal", Amount: 50,
	}).Error)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert - reservation consumed, building installed at the strongest
	// province, manpower committed
	require.NoError(t, err)
	assert.Equal(t, "completed", buildStatus(t, db, 1))

	var installed persistence.ProvinceBuildingModel
	require.NoError(t, db.Where("province_id = ? AND building_id = ?", "p1", "mine").First(&installed).Error)
	assert.Equal(t, 1, installed.Count)

	store := persistence.NewGormStockpileStore(db)
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 30, entry.Amount, 1e-9)

	var reservations int64
	require.NoError(t, db.Model(&persistence.ReservationModel{}).Count(&reservations).Error)
	assert.Zero(t, reservations)

	var province persistence.ProvinceModel
	require.NoError(t, db.Where("province_id = ?", "p1").First(&province).Error)
	assert.Equal(t, 5, province.ManpowerUsed)
}

func TestAdvanceTurn_FailsBuildWithoutHostProvince(t *testing.T) {
	// Arrange - the nation lost its only province in the state; the
	// reservation lives on a province it no longer controls
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n2", Name: "Belmark", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n2"),
		Name: "Alpha", NodeStrength: 10,
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "mine", Name: "Mine", BuildCostResources: `{"Coal": 50}`, BuildTimeTurns: 1,
	})
	helpers.SeedStockpile(t, db, "p1", "Coal", 80, 1000)

	require.NoError(t, db.Create(&persistence.StateBuildModel{
		ID: 1, NationID: "n1", StateID: "s1", BuildingID: "mine", Tier: 1,
		StartedTurn: 0, CompleteTurn: 1, Status: "pending", ReservedJSON: "[]",
	}).Error)
	require.NoError(t, db.Create(&persistence.ReservationModel{
		BuildID: 1, ProvinceID: "p1", Resource: "Coal", Amount: 50,
	}).Error)

	// Act
	next, err := svc.AdvanceTurn(context.Background())

	// Assert - the build fails, the consumed resources are not refunded,
	// and the turn still advances
	require.NoError(t, err)
	assert.Equal(t, 1, next)
	assert.Equal(t, "failed", buildStatus(t, db, 1))

	store := persistence.NewGormStockpileStore(db)
	entry, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 30, entry.Amount, 1e-9)

	var installed int64
	require.NoError(t, db.Model(&persistence.ProvinceBuildingModel{}).Count(&installed).Error)
	assert.Zero(t, installed)
}

func TestAdvanceTurn_AppliesProduction(t *testing.T) {
	// Arrange - a smelter burning coal into steel
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "smelter", Name: "Smelter",
		Inputs:  `{"Coal": 2}`,
		Outputs: `{"Steel": 3}`,
	})
	require.NoError(t, db.Create(&persistence.ProvinceBuildingModel{
		ProvinceID: "p1", BuildingID: "smelter", Tier: 1, Count: 1,
	}).Error)
	helpers.SeedStockpile(t, db, "p1", "Coal", 10, 1000)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert
	require.NoError(t, err)
	store := persistence.NewGormStockpileStore(db)

	coal, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 8, coal.Amount, 1e-9)

	steel, err := store.Entry(context.Background(), "p1", shared.Resource("Steel"))
	require.NoError(t, err)
	assert.InDelta(t, 3, steel.Amount, 1e-9)
	assert.InDelta(t, 1000, steel.Capacity, 1e-9)
}

func TestAdvanceTurn_ProductionScalesWithCountAndTier(t *testing.T) {
	// Arrange - two tier-2 smelters stack linearly
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "smelter", Name: "Smelter", Outputs: `{"Steel": 3}`,
	})
	require.NoError(t, db.Create(&persistence.ProvinceBuildingModel{
		ProvinceID: "p1", BuildingID: "smelter", Tier: 2, Count: 2,
	}).Error)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert - multiplier is count x tier
	require.NoError(t, err)
	assert.InDelta(t, 4, building.ProductionMultiplier(2, 2), 1e-9)

	store := persistence.NewGormStockpileStore(db)
	steel, err := store.Entry(context.Background(), "p1", shared.Resource("Steel"))
	require.NoError(t, err)
	assert.InDelta(t, 12, steel.Amount, 1e-9)
}

func TestAdvanceTurn_UnderProducesSilentlyOnMissingInputs(t *testing.T) {
	// Arrange - only 1 coal for a 2-coal recipe; outputs still deposit
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "smelter", Name: "Smelter", Inputs: `{"Coal": 2}`, Outputs: `{"Steel": 3}`,
	})
	require.NoError(t, db.Create(&persistence.ProvinceBuildingModel{
		ProvinceID: "p1", BuildingID: "smelter", Tier: 1, Count: 1,
	}).Error)
	helpers.SeedStockpile(t, db, "p1", "Coal", 1, 1000)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert - the input drains to zero, the turn does not error
	require.NoError(t, err)
	store := persistence.NewGormStockpileStore(db)
	coal, err := store.Entry(context.Background(), "p1", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 0, coal.Amount, 1e-9)
}

func TestAdvanceTurn_MaintenanceShortfallBecomesDebt(t *testing.T) {
	// Arrange - maintenance bill 25, treasury 10
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 10})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "fort", Name: "Fort", MaintenanceCash: 25,
	})
	require.NoError(t, db.Create(&persistence.ProvinceBuildingModel{
		ProvinceID: "p1", BuildingID: "fort", Tier: 1, Count: 1,
	}).Error)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert
	require.NoError(t, err)
	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 0, nation.Cash, 1e-9)
	assert.InDelta(t, 15, nation.Debt, 1e-9)
}

func TestAdvanceTurn_ChargesMaintenancePerInstalledCount(t *testing.T) {
	// Arrange
	svc, db := newTurnService(t)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 100})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"), Name: "Alpha",
	})
	helpers.SeedBuildingTemplate(t, db, persistence.BuildingTemplateModel{
		ID: "fort", Name: "Fort", MaintenanceCash: 10,
	})
	require.NoError(t, db.Create(&persistence.ProvinceBuildingModel{
		ProvinceID: "p1", BuildingID: "fort", Tier: 1, Count: 3,
	}).Error)

	// Act
	_, err := svc.AdvanceTurn(context.Background())

	// Assert
	require.NoError(t, err)
	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 70, nation.Cash, 1e-9)
	assert.InDelta(t, 0, nation.Debt, 1e-9)
}
