package recruit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/recruit"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/test/helpers"
)

func newRecruitService(t *testing.T) (*recruit.Service, *gorm.DB) {
	db := helpers.NewTestDB(t)
	repos := persistence.NewRepositories(db)
	uow := persistence.NewGormUnitOfWork(db)
	return recruit.NewService(repos, uow), db
}

func seedRecruitWorld(t *testing.T, db *gorm.DB) {
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"),
		Name: "Alpha", Population: 100, NodeStrength: 10,
	})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p2", StateID: "s2", ControllerID: helpers.ControlledBy("n1"),
		Name: "Beta", Population: 100, NodeStrength: 5,
	})
	helpers.SeedUnitTemplate(t, db, persistence.UnitTemplateModel{
		ID: "infantry", Name: "Infantry",
		ManpowerCost:  10,
		BuildCashCost: 100,
		ResourcesJSON: `{"Iron": 5}`,
	})
}

func TestRecruit_CreatesOneRowPerUnit(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 20, 1000)

	// Act
	recruits, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 2, StateID: "s1",
	})

	// Assert - two queued rows, everything deducted up front
	require.NoError(t, err)
	require.Len(t, recruits, 2)
	for _, row := range recruits {
		assert.Equal(t, "queued", row.Status)
		assert.Equal(t, "p1", row.ProvinceID)
	}

	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 800, nation.Cash, 1e-9)
	assert.Equal(t, 20, nation.ManpowerUsed)

	store := persistence.NewGormStockpileStore(db)
	iron, err := store.Entry(context.Background(), "p1", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 10, iron.Amount, 1e-9)
}

func TestRecruit_DrainsStateBeforeNation(t *testing.T) {
	// Arrange - 3 iron in the state, the remainder elsewhere
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 3, 1000)
	helpers.SeedStockpile(t, db, "p2", "Iron", 7, 1000)

	// Act
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 1, StateID: "s1",
	})

	// Assert - the state empties first
	require.NoError(t, err)
	store := persistence.NewGormStockpileStore(db)

	stateIron, err := store.Entry(context.Background(), "p1", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 0, stateIron.Amount, 1e-9)

	otherIron, err := store.Entry(context.Background(), "p2", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 5, otherIron.Amount, 1e-9)
}

func TestRecruit_InsufficientManpowerRollsBack(t *testing.T) {
	// Arrange - pool is floor(100 * 0.40) = 40, five units want 50
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 100, 1000)

	// Act
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 5, StateID: "s1",
	})

	// Assert - nothing was deducted
	var manpowerErr *shared.InsufficientManpowerError
	require.ErrorAs(t, err, &manpowerErr)
	assert.Equal(t, 10, manpowerErr.Shortfall)

	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 1000, nation.Cash, 1e-9)
	assert.Equal(t, 0, nation.ManpowerUsed)

	var rows int64
	require.NoError(t, db.Model(&persistence.RecruitModel{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestRecruit_BuildingManpowerShrinksThePool(t *testing.T) {
	// Arrange - buildings already commit 35 of the 40-man pool
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 100, 1000)
	require.NoError(t, db.Model(&persistence.ProvinceModel{}).
		Where("province_id = ?", "p1").Update("manpower_used", 35).Error)

	// Act
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 1, StateID: "s1",
	})

	// Assert
	var manpowerErr *shared.InsufficientManpowerError
	require.ErrorAs(t, err, &manpowerErr)
	assert.Equal(t, 5, manpowerErr.Shortfall)
}

func TestRecruit_InsufficientResourceRollsBack(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 2, 1000)

	// Act
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 1, StateID: "s1",
	})

	// Assert - the partial drain is rolled back with the transaction
	var insufficientErr *shared.InsufficientResourceError
	require.ErrorAs(t, err, &insufficientErr)

	store := persistence.NewGormStockpileStore(db)
	iron, err := store.Entry(context.Background(), "p1", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 2, iron.Amount, 1e-9)

	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 1000, nation.Cash, 1e-9)
}

func TestRecruit_TechGate(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 100, 1000)
	helpers.SeedUnitTemplate(t, db, persistence.UnitTemplateModel{
		ID: "tank", Name: "Tank", ManpowerCost: 5, BuildCashCost: 200,
		TechRequired: "armored-warfare",
	})

	// Act - without the technology
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "tank", Quantity: 1, StateID: "s1",
	})
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	// Arrange - grant it
	require.NoError(t, db.Create(&persistence.NationTechnologyModel{
		NationID: "n1", TechID: "armored-warfare",
	}).Error)

	// Act - with the technology
	recruits, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "tank", Quantity: 1, StateID: "s1",
	})

	// Assert
	require.NoError(t, err)
	assert.Len(t, recruits, 1)
}

func TestRecruit_ClassificationGate(t *testing.T) {
	// Arrange - the template is restricted to another affiliation
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedUnitTemplate(t, db, persistence.UnitTemplateModel{
		ID: "janissary", Name: "Janissary", ManpowerCost: 5,
		Classification: "imperial",
	})

	// Act
	_, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "janissary", Quantity: 1, StateID: "s1",
	})

	// Assert
	var unauthorizedErr *shared.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorizedErr)
}

func TestRecruit_ArmyMustBelongToNation(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n2", Name: "Belmark", Cash: 1000})

	army, err := svc.CreateArmy(context.Background(), "n2", "First Army", "s1")
	require.NoError(t, err)

	// Act
	_, err = svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 1, StateID: "s1", ArmyID: &army.ID,
	})

	// Assert
	var unauthorizedErr *shared.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorizedErr)
}

func TestDisband_RefundsOneUnitCost(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Iron", 20, 1000)

	recruits, err := svc.Recruit(context.Background(), recruit.RecruitRequest{
		NationID: "n1", TemplateID: "infantry", Quantity: 1, StateID: "s1",
	})
	require.NoError(t, err)

	// Act
	err = svc.Disband(context.Background(), "n1", recruits[0].ID)

	// Assert - cash, manpower and resources flow back
	require.NoError(t, err)
	var nation persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", "n1").First(&nation).Error)
	assert.InDelta(t, 1000, nation.Cash, 1e-9)
	assert.Equal(t, 0, nation.ManpowerUsed)

	store := persistence.NewGormStockpileStore(db)
	iron, err := store.Entry(context.Background(), "p1", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 20, iron.Amount, 1e-9)

	rows, err := svc.List(context.Background(), "n1", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEstimateCost_ScalesLinearly(t *testing.T) {
	// Arrange
	svc, db := newRecruitService(t)
	seedRecruitWorld(t, db)

	// Act
	cost, err := svc.EstimateCost(context.Background(), "infantry", 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30, cost.Manpower)
	assert.InDelta(t, 300, cost.Cash, 1e-9)
	assert.InDelta(t, 15, cost.Resources[shared.Resource("Iron")], 1e-9)
}
