package shared

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Epsilon is the tolerance used when comparing fractional resource amounts.
// Stockpile math inherits float quantities from the world data, so every
// "is there enough" check allows this slack.
const Epsilon = 1e-9

// Resource identifies a tradeable good ("Coal", "Iron", ...).
type Resource string

func (r Resource) String() string {
	return string(r)
}

// ResourceSet maps resources to quantities. It is the typed form of the
// cost/offer JSON columns; zero and negative entries are rejected at load.
type ResourceSet map[Resource]float64

// ParseResourceSet decodes a JSON object column into a validated ResourceSet.
// An empty or missing column yields an empty set.
func ParseResourceSet(raw string) (ResourceSet, error) {
	if raw == "" {
		return ResourceSet{}, nil
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("invalid resource map: %w", err)
	}
	set := make(ResourceSet, len(m))
	for name, qty := range m {
		if name == "" {
			return nil, fmt.Errorf("invalid resource map: empty resource name")
		}
		if qty < 0 {
			return nil, fmt.Errorf("invalid resource map: negative quantity %f for %s", qty, name)
		}
		if qty == 0 {
			continue
		}
		set[Resource(name)] = qty
	}
	return set, nil
}

// Encode serializes the set back to its JSON column form.
func (s ResourceSet) Encode() (string, error) {
	m := make(map[string]float64, len(s))
	for res, qty := range s {
		m[res.String()] = qty
	}
	out, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode resource map: %w", err)
	}
	return string(out), nil
}

// Merge returns the union of both sets, summing quantities.
func (s ResourceSet) Merge(other ResourceSet) ResourceSet {
	out := make(ResourceSet, len(s)+len(other))
	for res, qty := range s {
		out[res] += qty
	}
	for res, qty := range other {
		out[res] += qty
	}
	return out
}

// IsEmpty reports whether the set carries no quantities.
func (s ResourceSet) IsEmpty() bool {
	return len(s) == 0
}

// Resources returns the set's resource names in deterministic order.
func (s ResourceSet) Resources() []Resource {
	out := make([]Resource, 0, len(s))
	for res := range s {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
