package helpers

import (
	"strconv"
	"testing"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
)

// SeedNation inserts a nation row, failing the test on error
func SeedNation(t *testing.T, db *gorm.DB, nation persistence.NationModel) {
	t.Helper()
	if err := db.Create(&nation).Error; err != nil {
		t.Fatalf("failed to seed nation %s: %v", nation.NationID, err)
	}
}

// SeedProvince inserts a province row. Controller may be empty for an
// uncontrolled province.
func SeedProvince(t *testing.T, db *gorm.DB, province persistence.ProvinceModel) {
	t.Helper()
	if err := db.Create(&province).Error; err != nil {
		t.Fatalf("failed to seed province %s: %v", province.ProvinceID, err)
	}
}

// ControlledBy returns a controller pointer for province fixtures
func ControlledBy(nationID string) *string {
	return &nationID
}

// SeedStockpile inserts a stockpile row
func SeedStockpile(t *testing.T, db *gorm.DB, provinceID, resource string, amount, capacity float64) {
	t.Helper()
	row := persistence.StockpileModel{
		ProvinceID: provinceID,
		Resource:   resource,
		Amount:     amount,
		Capacity:   capacity,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed stockpile %s/%s: %v", provinceID, resource, err)
	}
}

// SeedBuildingTemplate inserts a building template row
func SeedBuildingTemplate(t *testing.T, db *gorm.DB, template persistence.BuildingTemplateModel) {
	t.Helper()
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed building template %s: %v", template.ID, err)
	}
}

// SeedUnitTemplate inserts a unit template row
func SeedUnitTemplate(t *testing.T, db *gorm.DB, template persistence.UnitTemplateModel) {
	t.Helper()
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed unit template %s: %v", template.ID, err)
	}
}

// SeedResource inserts a resource metadata row
func SeedResource(t *testing.T, db *gorm.DB, resource string, weightKg float64) {
	t.Helper()
	row := persistence.ResourceModel{Resource: resource, WeightKg: weightKg}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed resource %s: %v", resource, err)
	}
}

// SetCurrentTurn writes the turn counter config row
func SetCurrentTurn(t *testing.T, db *gorm.DB, turn int) {
	t.Helper()
	row := persistence.ConfigModel{Key: "current_turn", Value: strconv.Itoa(turn)}
	if err := db.Save(&row).Error; err != nil {
		t.Fatalf("failed to set current turn: %v", err)
	}
}
