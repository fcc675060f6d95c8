package building

import (
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// Template is immutable reference data describing one building type.
type Template struct {
	ID                  string
	Name                string
	BuildCostResources  shared.ResourceSet
	BuildCashCost       float64
	BuildTimeTurns      int
	Inputs              shared.ResourceSet
	Outputs             shared.ResourceSet
	MaintenanceCash     float64
	MaintenanceManpower int
}

// BuildTime returns the construction duration in turns, minimum one.
func (t *Template) BuildTime() int {
	if t.BuildTimeTurns < 1 {
		return 1
	}
	return t.BuildTimeTurns
}

// ProductionMultiplier is count*tier: installed buildings stack linearly.
func ProductionMultiplier(count, tier int) float64 {
	if count < 1 {
		count = 1
	}
	if tier < 1 {
		tier = 1
	}
	return float64(count * tier)
}
