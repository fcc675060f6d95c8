package report

import (
	"context"
	"math"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/military"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// Service is the read side: rollups assembled for display, no mutations.
type Service struct {
	repos *common.Repos
}

// NewService creates a new reporting service
func NewService(repos *common.Repos) *Service {
	return &Service{repos: repos}
}

// ResourceTotal is one nation-wide resource line.
type ResourceTotal struct {
	Resource shared.Resource
	Amount   float64
	Capacity float64
}

// InstalledSummary aggregates installed buildings of one type and tier.
type InstalledSummary struct {
	BuildingID string
	Tier       int
	Count      int
}

// StateInfo is the per-state overview a nation sees.
type StateInfo struct {
	StateID             string
	Provinces           int
	Population          int
	BuildingManpower    int
	CommittedRecruits   int
	RecruitableManpower int
	EstimatedTaxIncome  float64
	Modifiers           *modifier.Report
	Stockpiles          []ResourceTotal
	Installed           []InstalledSummary
}

// StateInfo assembles the state overview: manpower pool, estimated tax
// income under the final tax modifier, stockpile and building rollups.
func (s *Service) StateInfo(ctx context.Context, nationID, stateID string) (*StateInfo, error) {
	provinces, err := s.repos.Provinces.ListByStateAndController(ctx, stateID, nationID)
	if err != nil {
		return nil, err
	}
	nation, err := s.repos.Nations.FindByID(ctx, nationID)
	if err != nil {
		return nil, err
	}

	info := &StateInfo{StateID: stateID, Provinces: len(provinces)}
	provinceIDs := make([]string, len(provinces))
	for i, province := range provinces {
		info.Population += province.Population
		info.BuildingManpower += province.ManpowerUsed
		provinceIDs[i] = province.ID
	}

	committed, err := s.repos.Recruits.CountByProvinces(ctx, nationID, provinceIDs)
	if err != nil {
		return nil, err
	}
	info.CommittedRecruits = committed
	pool := int(math.Floor(float64(info.Population) * military.RecruitablePopulationShare))
	recruitable := pool - info.BuildingManpower - committed
	if recruitable < 0 {
		recruitable = 0
	}
	info.RecruitableManpower = recruitable

	mods, err := s.repos.Modifiers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	currentTurn, err := s.repos.Turns.CurrentTurn(ctx)
	if err != nil {
		return nil, err
	}
	info.Modifiers = modifier.Aggregate(mods, nationID, stateID, currentTurn)
	info.EstimatedTaxIncome = float64(info.Population) * nation.TaxRate * info.Modifiers.Tax.Final

	totals := map[shared.Resource]*ResourceTotal{}
	var order []shared.Resource
	for _, provinceID := range provinceIDs {
		entries, err := s.repos.Stockpiles.ListByProvince(ctx, provinceID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			total, ok := totals[entry.Resource]
			if !ok {
				total = &ResourceTotal{Resource: entry.Resource}
				totals[entry.Resource] = total
				order = append(order, entry.Resource)
			}
			total.Amount += entry.Amount
			total.Capacity += entry.Capacity
		}
	}
	for _, resource := range order {
		info.Stockpiles = append(info.Stockpiles, *totals[resource])
	}

	installed, err := s.repos.Installed.ListByStateAndNation(ctx, stateID, nationID)
	if err != nil {
		return nil, err
	}
	byKey := map[[2]interface{}]*InstalledSummary{}
	var keys [][2]interface{}
	for _, row := range installed {
		key := [2]interface{}{row.BuildingID, row.Tier}
		summary, ok := byKey[key]
		if !ok {
			summary = &InstalledSummary{BuildingID: row.BuildingID, Tier: row.Tier}
			byKey[key] = summary
			keys = append(keys, key)
		}
		summary.Count += row.Count
	}
	for _, key := range keys {
		info.Installed = append(info.Installed, *byKey[key])
	}

	return info, nil
}

// ResourcesRollup sums every stockpile row across the nation's provinces.
func (s *Service) ResourcesRollup(ctx context.Context, nationID string) ([]ResourceTotal, error) {
	entries, err := s.repos.Stockpiles.ListByNation(ctx, nationID)
	if err != nil {
		return nil, err
	}
	totals := map[shared.Resource]*ResourceTotal{}
	var order []shared.Resource
	for _, entry := range entries {
		total, ok := totals[entry.Resource]
		if !ok {
			total = &ResourceTotal{Resource: entry.Resource}
			totals[entry.Resource] = total
			order = append(order, entry.Resource)
		}
		total.Amount += entry.Amount
		total.Capacity += entry.Capacity
	}
	out := make([]ResourceTotal, 0, len(order))
	for _, resource := range order {
		out = append(out, *totals[resource])
	}
	return out, nil
}
