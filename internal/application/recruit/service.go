package recruit

import (
	"context"
	"fmt"
	"math"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/military"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/world"
)

// Service is the recruitment flow. Unlike builds it deducts eagerly: cash,
// manpower and resources are all spent inside the recruit call itself, one
// transaction per call, so a failed recruitment never leaves a partial
// deduction behind.
type Service struct {
	repos *common.Repos
	uow   common.UnitOfWork
}

// NewService creates a new recruitment service
func NewService(repos *common.Repos, uow common.UnitOfWork) *Service {
	return &Service{repos: repos, uow: uow}
}

// EstimateCost scales the template's per-unit cost by quantity.
func (s *Service) EstimateCost(ctx context.Context, templateID string, quantity int) (military.CostEstimate, error) {
	template, err := s.repos.UnitTemplates.FindByID(ctx, templateID)
	if err != nil {
		return military.CostEstimate{}, err
	}
	return template.EstimateCost(quantity), nil
}

// RecruitRequest asks for quantity units of one template raised in a state.
type RecruitRequest struct {
	NationID   string
	TemplateID string
	Quantity   int
	StateID    string
	ArmyID     *int64
}

// Recruit validates tech and classification gates, the state manpower pool
// and the treasury, then drains resources state-first-then-nation-wide and
// inserts one queued recruit row per unit. Any shortfall rolls the whole
// call back.
func (s *Service) Recruit(ctx context.Context, req RecruitRequest) ([]*military.Recruit, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var recruits []*military.Recruit
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		template, err := r.UnitTemplates.FindByID(ctx, req.TemplateID)
		if err != nil {
			return err
		}
		nation, err := r.Nations.FindByID(ctx, req.NationID)
		if err != nil {
			return err
		}

		if template.TechRequired != "" {
			has, err := r.Technologies.HasTech(ctx, req.NationID, template.TechRequired)
			if err != nil {
				return err
			}
			if !has {
				return shared.NewInvalidStateError(fmt.Sprintf("unit %s requires technology %s", template.ID, template.TechRequired))
			}
		}
		if !template.AllowedFor(nation.Affiliation) {
			return shared.NewUnauthorizedError(fmt.Sprintf("unit %s is not available to your nation", template.ID))
		}

		if req.ArmyID != nil {
			army, err := r.Armies.FindByID(ctx, *req.ArmyID)
			if err != nil {
				return err
			}
			if army.NationID != req.NationID {
				return shared.NewUnauthorizedError("army belongs to another nation")
			}
		}

		stateProvinces, err := r.Provinces.ListByStateAndController(ctx, req.StateID, req.NationID)
		if err != nil {
			return err
		}
		if len(stateProvinces) == 0 {
			return shared.NewUnauthorizedError(fmt.Sprintf("nation %s controls no province in state %s", req.NationID, req.StateID))
		}

		cost := template.EstimateCost(req.Quantity)

		recruitable, err := recruitableManpower(ctx, r, req.NationID, stateProvinces)
		if err != nil {
			return err
		}
		if recruitable < cost.Manpower {
			return shared.NewInsufficientManpowerError(cost.Manpower - recruitable)
		}

		if !nation.CanAfford(cost.Cash) {
			return shared.NewInsufficientCashError(cost.Cash - nation.Cash)
		}

		if err := drainResources(ctx, r, req.NationID, req.StateID, stateProvinces, cost.Resources); err != nil {
			return err
		}

		if cost.Cash > 0 {
			if err := r.Nations.Debit(ctx, req.NationID, cost.Cash); err != nil {
				return err
			}
		}
		if cost.Manpower > 0 {
			if err := r.Nations.AdjustManpowerUsed(ctx, req.NationID, cost.Manpower); err != nil {
				return err
			}
		}

		currentTurn, err := r.Turns.CurrentTurn(ctx)
		if err != nil {
			return err
		}

		// One row per unit, stationed at the state's strongest province.
		station := stateProvinces[0]
		recruits = make([]*military.Recruit, 0, req.Quantity)
		for i := 0; i < req.Quantity; i++ {
			recruit := &military.Recruit{
				NationID:       req.NationID,
				ArmyID:         req.ArmyID,
				StateID:        req.StateID,
				ProvinceID:     station.ID,
				UnitTemplateID: template.ID,
				CreatedTurn:    currentTurn,
				Status:         military.RecruitStatusQueued,
			}
			if err := r.Recruits.Create(ctx, recruit); err != nil {
				return err
			}
			recruits = append(recruits, recruit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recruits, nil
}

// recruitableManpower is floor(statePopulation * share) minus the manpower
// committed to buildings and to already-queued recruits in the state.
func recruitableManpower(ctx context.Context, r *common.Repos, nationID string, stateProvinces []*world.Province) (int, error) {
	population := 0
	buildingManpower := 0
	provinceIDs := make([]string, len(stateProvinces))
	for i, province := range stateProvinces {
		population += province.Population
		buildingManpower += province.ManpowerUsed
		provinceIDs[i] = province.ID
	}
	committed, err := r.Recruits.CountByProvinces(ctx, nationID, provinceIDs)
	if err != nil {
		return 0, err
	}
	pool := int(math.Floor(float64(population) * military.RecruitablePopulationShare))
	return pool - buildingManpower - committed, nil
}

// drainResources removes the cost set from stockpiles, draining the
// requesting state's provinces completely before touching the rest of the
// nation. Both scopes iterate in priority order. A resource running dry
// mid-way returns an error so the enclosing transaction rolls everything
// back.
func drainResources(ctx context.Context, r *common.Repos, nationID, stateID string, stateProvinces []*world.Province, resources shared.ResourceSet) error {
	if resources.IsEmpty() {
		return nil
	}

	all, err := r.Provinces.ListByController(ctx, nationID)
	if err != nil {
		return err
	}
	ordered := make([]*world.Province, 0, len(all))
	ordered = append(ordered, stateProvinces...)
	for _, province := range all {
		if province.StateID != stateID {
			ordered = append(ordered, province)
		}
	}

	for _, resource := range resources.Resources() {
		remaining := resources[resource]
		for _, province := range ordered {
			if remaining <= shared.Epsilon {
				break
			}
			available, err := r.Stockpiles.Available(ctx, province.ID, resource)
			if err != nil {
				return err
			}
			take := remaining
			if available < take {
				take = available
			}
			if take <= shared.Epsilon {
				continue
			}
			ok, err := r.Stockpiles.RemoveDirect(ctx, province.ID, resource, take)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			remaining -= take
		}
		if remaining > shared.Epsilon {
			return shared.NewInsufficientResourceError(resource, remaining)
		}
	}
	return nil
}

// Disband refunds one unit's cost estimate best-effort and deletes the
// recruit row. Resource refunds that no longer fit are dropped rather than
// failing the disband.
func (s *Service) Disband(ctx context.Context, nationID string, recruitID int64) error {
	logger := common.LoggerFromContext(ctx)
	return s.uow.Do(ctx, func(r *common.Repos) error {
		recruit, err := r.Recruits.FindByID(ctx, recruitID)
		if err != nil {
			return err
		}
		if recruit.NationID != nationID {
			return shared.NewUnauthorizedError("recruit belongs to another nation")
		}

		template, err := r.UnitTemplates.FindByID(ctx, recruit.UnitTemplateID)
		if err != nil {
			return err
		}
		cost := template.EstimateCost(1)

		if cost.Cash > 0 {
			if err := r.Nations.Credit(ctx, nationID, cost.Cash); err != nil {
				return err
			}
		}
		if cost.Manpower > 0 {
			if err := r.Nations.AdjustManpowerUsed(ctx, nationID, -cost.Manpower); err != nil {
				return err
			}
		}
		for resource, amount := range cost.Resources {
			if err := r.Stockpiles.Add(ctx, recruit.ProvinceID, resource, amount); err != nil {
				logger.Log("WARN", "disband resource refund not applied", map[string]interface{}{
					"recruit_id": recruitID,
					"province":   recruit.ProvinceID,
					"resource":   resource.String(),
					"amount":     amount,
					"error":      err.Error(),
				})
			}
		}

		return r.Recruits.Delete(ctx, recruitID)
	})
}

// List returns the nation's recruits, optionally narrowed to one state.
func (s *Service) List(ctx context.Context, nationID, stateID string) ([]*military.Recruit, error) {
	return s.repos.Recruits.List(ctx, nationID, stateID)
}

// CreateArmy names a new empty army homed in a state.
func (s *Service) CreateArmy(ctx context.Context, nationID, name, stateID string) (*military.Army, error) {
	if name == "" {
		return nil, shared.NewInvalidStateError("army name must not be empty")
	}
	if _, err := s.repos.Nations.FindByID(ctx, nationID); err != nil {
		return nil, err
	}
	army := &military.Army{NationID: nationID, Name: name, StateID: stateID}
	if err := s.repos.Armies.Create(ctx, army); err != nil {
		return nil, err
	}
	return army, nil
}

// ListArmies returns the nation's armies.
func (s *Service) ListArmies(ctx context.Context, nationID string) ([]*military.Army, error) {
	return s.repos.Armies.ListByNation(ctx, nationID)
}
