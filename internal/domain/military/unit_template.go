package military

import (
	"math"
	"strings"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// RecruitablePopulationShare caps how much of a state's population can ever
// be under arms.
const RecruitablePopulationShare = 0.40

// UnitTemplate is immutable reference data for one recruitable unit type.
type UnitTemplate struct {
	ID             string
	Name           string
	Category       string
	ManpowerCost   int
	BuildCashCost  float64
	Resources      shared.ResourceSet
	TechRequired   string
	Classification string // comma-separated tag set; empty = unrestricted
}

// AllowedFor checks the template's classification tag set against the
// nation's affiliation. An empty classification admits every nation.
func (t *UnitTemplate) AllowedFor(affiliation string) bool {
	tags := strings.TrimSpace(t.Classification)
	if tags == "" {
		return true
	}
	affiliation = strings.ToLower(strings.TrimSpace(affiliation))
	for _, tag := range strings.Split(tags, ",") {
		if strings.ToLower(strings.TrimSpace(tag)) == affiliation {
			return true
		}
	}
	return false
}

// CostEstimate is the linear per-quantity cost of a recruitment request.
type CostEstimate struct {
	Manpower  int
	Cash      float64
	Resources shared.ResourceSet
}

// EstimateCost scales the template's unit cost by quantity (minimum one).
func (t *UnitTemplate) EstimateCost(quantity int) CostEstimate {
	if quantity < 1 {
		quantity = 1
	}
	resources := make(shared.ResourceSet, len(t.Resources))
	for res, qty := range t.Resources {
		resources[res] = math.Round(qty * float64(quantity))
	}
	return CostEstimate{
		Manpower:  t.ManpowerCost * quantity,
		Cash:      math.Round(t.BuildCashCost * float64(quantity)),
		Resources: resources,
	}
}

// Recruit is one queued unit. Recruitment inserts one row per unit so later
// army management can move units individually.
type Recruit struct {
	ID             int64
	NationID       string
	ArmyID         *int64
	StateID        string
	ProvinceID     string
	UnitTemplateID string
	CreatedTurn    int
	Status         string
}

// RecruitStatusQueued is the only status recruitment itself produces.
const RecruitStatusQueued = "queued"

// Army groups recruits under a name within a home state.
type Army struct {
	ID       int64
	NationID string
	Name     string
	StateID  string
}
