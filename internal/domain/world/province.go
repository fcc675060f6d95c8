package world

// Province is the smallest territorial unit. It owns a stockpile (held in
// the stockpile context) and a node_strength priority weight used to break
// ties when choosing which province services a request.
type Province struct {
	ID           string
	StateID      string
	ControllerID string // empty when uncontrolled
	Name         string
	Population   int
	NodeStrength float64
	X            float64
	Y            float64
	ManpowerUsed int
}

// ControlledBy reports whether the province is controlled by the nation.
func (p *Province) ControlledBy(nationID string) bool {
	return p.ControllerID != "" && p.ControllerID == nationID
}

// State groups provinces; it is the scope at which builds are queued and
// manpower pools are computed.
type State struct {
	ID   string
	Name string
}

// ByPriority orders provinces for greedy allocation: node_strength
// descending, then province id ascending. The tie-break keeps allocation
// deterministic and reproducible.
type ByPriority []*Province

func (s ByPriority) Len() int      { return len(s) }
func (s ByPriority) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s ByPriority) Less(i, j int) bool {
	if s[i].NodeStrength != s[j].NodeStrength {
		return s[i].NodeStrength > s[j].NodeStrength
	}
	return s[i].ID < s[j].ID
}
