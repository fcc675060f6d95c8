package trade

import (
	"math"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// Mode is the shipment transport mode.
type Mode string

const (
	ModeLand Mode = "land"
	ModeRail Mode = "rail"
	ModeSea  Mode = "sea"
	ModeAuto Mode = "auto"
)

// BaseRatePerKgKm is the flat shipping tariff.
const BaseRatePerKgKm = 0.00008

// DefaultResourceWeightKg applies when a resource has no weight row.
const DefaultResourceWeightKg = 1.0

var modeFactors = map[Mode]float64{
	ModeLand: 1.0,
	ModeRail: 0.7,
	ModeSea:  0.4,
	ModeAuto: 1.0,
}

// Factor returns the mode's cost multiplier; unknown modes price as land.
func (m Mode) Factor() float64 {
	if f, ok := modeFactors[m]; ok {
		return f
	}
	return 1.0
}

// Valid reports whether the mode is a known transport mode.
func (m Mode) Valid() bool {
	_, ok := modeFactors[m]
	return ok
}

// TransportCost prices a shipment: weight x distance x base rate x mode
// factor.
func TransportCost(weightKg, distanceKm float64, mode Mode) float64 {
	return weightKg * distanceKm * BaseRatePerKgKm * mode.Factor()
}

// ShipmentWeight sums per-resource unit weight x quantity across both legs
// of an exchange.
func ShipmentWeight(offered, requested shared.ResourceSet, weightOf func(shared.Resource) float64) float64 {
	total := 0.0
	for res, qty := range offered.Merge(requested) {
		w := DefaultResourceWeightKg
		if weightOf != nil {
			w = weightOf(res)
		}
		total += w * qty
	}
	return total
}

// Distance is the straight-line length between two points on the world map.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}
