package world

// Nation is a player treasury row. The economy engine mutates only cash,
// debt and manpower_used; everything else is reference data owned by the
// world importer.
type Nation struct {
	ID           string
	Name         string
	Cash         float64
	Debt         float64
	TaxRate      float64
	ManpowerUsed int
	Affiliation  string
}

// CanAfford reports whether the treasury covers the amount (with epsilon
// slack for fractional cash).
func (n *Nation) CanAfford(amount float64) bool {
	return n.Cash+1e-9 >= amount
}
