package modifier

// Contribution is one modifier's line in an aggregation breakdown.
type Contribution struct {
	ID     int64
	Scope  Scope
	Source string
	Kind   Kind
	Value  float64
}

// EffectTotal is the aggregation result for one effect.
//
// Final = max(0, (1 + AddSum) * MulProduct). The additive sum combines
// inside the parentheses before the multiplicative product is applied; game
// balance depends on exactly this order.
type EffectTotal struct {
	AddSum     float64
	MulProduct float64
	Final      float64
	Breakdown  []Contribution
}

// Report maps each concrete effect to its aggregated totals.
type Report struct {
	Production EffectTotal
	Population EffectTotal
	Tax        EffectTotal
}

// ByEffect returns the totals for one effect.
func (r *Report) ByEffect(effect Effect) EffectTotal {
	switch effect {
	case EffectPopulation:
		return r.Population
	case EffectTax:
		return r.Tax
	default:
		return r.Production
	}
}

// Aggregate composes the active, non-expired modifiers matching
// (global | nation | state) into per-effect totals. Modifiers with
// effect=all contribute to every effect.
func Aggregate(mods []*Modifier, nationID, stateID string, currentTurn int) *Report {
	report := &Report{}
	for _, effect := range []Effect{EffectProduction, EffectPopulation, EffectTax} {
		total := EffectTotal{MulProduct: 1.0}
		for _, m := range mods {
			if !m.Active || m.Expired(currentTurn) || !m.AppliesTo(nationID, stateID) {
				continue
			}
			if m.Effect != effect && m.Effect != EffectAll {
				continue
			}
			total.Breakdown = append(total.Breakdown, Contribution{
				ID:     m.ID,
				Scope:  m.Scope,
				Source: m.Source,
				Kind:   m.Kind,
				Value:  m.Value,
			})
			if m.Kind == KindAdd {
				total.AddSum += m.Value
			} else {
				total.MulProduct *= m.Value
			}
		}
		total.Final = (1.0 + total.AddSum) * total.MulProduct
		if total.Final < 0 {
			total.Final = 0
		}
		switch effect {
		case EffectProduction:
			report.Production = total
		case EffectPopulation:
			report.Population = total
		case EffectTax:
			report.Tax = total
		}
	}
	return report
}
