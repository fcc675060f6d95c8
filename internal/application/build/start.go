package build

import (
	"context"
	"fmt"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/building"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
)

// StartRequest asks for a new construction in one state.
type StartRequest struct {
	NationID   string
	StateID    string
	BuildingID string
	Tier       int
}

// Start validates the request, inserts a pending build and greedily reserves
// the template's build cost across the nation's provinces in the state,
// highest node_strength first. Tier affects production and maintenance once
// installed, not the construction cost. Any shortfall releases everything reserved so far and
// removes the build; the whole sequence runs in one transaction.
func (s *Service) Start(ctx context.Context, req StartRequest) (*building.PendingBuild, error) {
	if req.Tier < 1 {
		req.Tier = 1
	}

	var created *building.PendingBuild
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		template, err := r.BuildingTemplates.FindByID(ctx, req.BuildingID)
		if err != nil {
			return err
		}

		provinces, err := r.Provinces.ListByStateAndController(ctx, req.StateID, req.NationID)
		if err != nil {
			return err
		}
		if len(provinces) == 0 {
			return shared.NewUnauthorizedError(fmt.Sprintf("nation %s controls no province in state %s", req.NationID, req.StateID))
		}

		currentTurn, err := r.Turns.CurrentTurn(ctx)
		if err != nil {
			return err
		}

		pending := &building.PendingBuild{
			NationID:     req.NationID,
			StateID:      req.StateID,
			BuildingID:   req.BuildingID,
			Tier:         req.Tier,
			StartedTurn:  currentTurn,
			CompleteTurn: currentTurn + template.BuildTime(),
			Status:       building.StatusPending,
		}
		if err := r.Builds.Create(ctx, pending); err != nil {
			return err
		}

		cost := template.BuildCostResources
		var reserved []stockpile.ReservationRecord
		for _, resource := range cost.Resources() {
			remaining := cost[resource]
			for _, province := range provinces {
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
				ok, err := r.Stockpiles.Reserve(ctx, pending.ID, province.ID, resource, take)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				reserved = append(reserved, stockpile.ReservationRecord{
					ProvinceID: province.ID,
					Resource:   resource.String(),
					Amount:     take,
				})
				remaining -= take
			}
			if remaining > shared.Epsilon {
				// Shortfall: the transaction rollback undoes the pending
				// row and every reservation made in this call.
				return shared.NewInsufficientResourceError(resource, remaining)
			}
		}

		pending.Reserved = reserved
		if err := r.Builds.UpdateReserved(ctx, pending); err != nil {
			return err
		}
		created = pending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel releases a pending build's reservations and removes it. Only the
// owning nation may cancel, and only while the build is still pending.
func (s *Service) Cancel(ctx context.Context, nationID string, buildID int64) error {
	return s.uow.Do(ctx, func(r *common.Repos) error {
		pending, err := r.Builds.FindByID(ctx, buildID)
		if err != nil {
			return err
		}
		if pending.NationID != nationID {
			return shared.NewUnauthorizedError("build belongs to another nation")
		}
		if pending.Status != building.StatusPending {
			return shared.NewInvalidStateError(fmt.Sprintf("build status is %s; only pending builds can be cancelled", pending.Status))
		}
		if err := r.Stockpiles.Release(ctx, buildID); err != nil {
			return err
		}
		return r.Builds.Delete(ctx, buildID)
	})
}

// Queue returns the nation's pending builds, soonest completion first.
func (s *Service) Queue(ctx context.Context, nationID string) ([]*building.PendingBuild, error) {
	return s.repos.Builds.ListPendingByNation(ctx, nationID)
}
