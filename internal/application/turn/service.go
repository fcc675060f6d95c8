package turn

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/building"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
)

// Service is the turn processor. AdvanceTurn is externally triggered once
// per game turn; it resolves due builds, applies production/consumption to
// every installed building and charges maintenance against every treasury.
//
// Steps 2-4 are per-row best-effort: a failing row is logged and skipped so
// a single bad record can never stall the world. The new turn number is
// persisted only after every row has been processed.
type Service struct {
	repos   *common.Repos
	uow     common.UnitOfWork
	clock   shared.Clock
	metrics common.Metrics
}

// NewService creates a new turn processor
func NewService(repos *common.Repos, uow common.UnitOfWork, clock shared.Clock, metrics common.Metrics) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if metrics == nil {
		metrics = common.NoOpMetrics{}
	}
	return &Service{repos: repos, uow: uow, clock: clock, metrics: metrics}
}

// CurrentTurn reads the authoritative turn counter.
func (s *Service) CurrentTurn(ctx context.Context) (int, error) {
	return s.repos.Turns.CurrentTurn(ctx)
}

// AdvanceTurn moves the world one turn forward and returns the new turn
// number.
func (s *Service) AdvanceTurn(ctx context.Context) (int, error) {
	started := s.clock.Now()
	logger := common.LoggerFromContext(ctx)

	currentTurn, err := s.repos.Turns.CurrentTurn(ctx)
	if err != nil {
		return 0, err
	}
	nextTurn := currentTurn + 1

	s.resolveDueBuilds(ctx, logger, nextTurn)
	s.applyProduction(ctx, logger)
	s.applyMaintenance(ctx, logger)

	if err := s.repos.Turns.SetCurrentTurn(ctx, nextTurn); err != nil {
		return 0, err
	}

	s.metrics.SetCurrentTurn(nextTurn)
	s.metrics.ObserveTurnSeconds(s.clock.Now().Sub(started).Seconds())
	logger.Log("INFO", "turn advanced", map[string]interface{}{
		"turn": nextTurn,
	})
	return nextTurn, nil
}

// resolveDueBuilds consumes each due build's reservations and installs the
// result at the nation's strongest province in the target state. A build
// whose nation no longer holds a province there is marked failed; its
// reservations were already consumed and are not refunded.
func (s *Service) resolveDueBuilds(ctx context.Context, logger common.Logger, nextTurn int) {
	due, err := s.repos.Builds.ListDue(ctx, nextTurn)
	if err != nil {
		logger.Log("ERROR", "listing due builds failed", map[string]interface{}{
			"turn":  nextTurn,
			"error": err.Error(),
		})
		return
	}

	for _, pending := range due {
		build := pending
		err := s.uow.Do(ctx, func(r *common.Repos) error {
			return s.resolveBuild(ctx, r, build)
		})
		if err != nil {
			logger.Log("ERROR", "build resolution failed", map[string]interface{}{
				"build_id": build.ID,
				"error":    err.Error(),
			})
		}
	}
}

func (s *Service) resolveBuild(ctx context.Context, r *common.Repos, build *building.PendingBuild) error {
	if _, err := r.Stockpiles.Consume(ctx, build.ID); err != nil {
		return err
	}

	host, err := r.Provinces.StrongestInState(ctx, build.StateID, build.NationID)
	if err != nil {
		return err
	}
	if host == nil {
		if err := build.Fail(); err != nil {
			return err
		}
		if err := r.Builds.UpdateStatus(ctx, build); err != nil {
			return err
		}
		s.metrics.BuildFailed()
		return nil
	}

	if err := r.Installed.Increment(ctx, host.ID, build.BuildingID, build.Tier); err != nil {
		return err
	}
	template, err := r.BuildingTemplates.FindByID(ctx, build.BuildingID)
	if err != nil {
		return err
	}
	if template.MaintenanceManpower > 0 {
		if err := r.Provinces.SetManpowerUsed(ctx, host.ID, host.ManpowerUsed+template.MaintenanceManpower); err != nil {
			return err
		}
	}

	if err := build.Complete(); err != nil {
		return err
	}
	if err := r.Builds.UpdateStatus(ctx, build); err != nil {
		return err
	}
	s.metrics.BuildCompleted()
	return nil
}

// applyProduction walks every installed building: inputs drain floored at
// zero (missing inputs under-produce silently), outputs deposit clamped to
// capacity, rows created lazily at the production default.
func (s *Service) applyProduction(ctx context.Context, logger common.Logger) {
	installed, err := s.repos.Installed.List(ctx)
	if err != nil {
		logger.Log("ERROR", "listing installed buildings failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	templates := map[string]*building.Template{}
	for _, row := range installed {
		template, ok := templates[row.BuildingID]
		if !ok {
			template, err = s.repos.BuildingTemplates.FindByID(ctx, row.BuildingID)
			if err != nil {
				logger.Log("ERROR", "template lookup failed during production", map[string]interface{}{
					"building_id": row.BuildingID,
					"error":       err.Error(),
				})
				continue
			}
			templates[row.BuildingID] = template
		}

		installedRow := row
		err := s.uow.Do(ctx, func(r *common.Repos) error {
			return produceAt(ctx, r, installedRow, template)
		})
		if err != nil {
			logger.Log("ERROR", "production failed for installed building", map[string]interface{}{
				"installed_id": installedRow.ID,
				"province":     installedRow.ProvinceID,
				"error":        err.Error(),
			})
		}
	}
}

func produceAt(ctx context.Context, r *common.Repos, row *building.Installed, template *building.Template) error {
	mult := building.ProductionMultiplier(row.Count, row.Tier)

	for _, resource := range template.Inputs.Resources() {
		need := template.Inputs[resource] * mult
		entry, err := r.Stockpiles.Entry(ctx, row.ProvinceID, resource)
		if err != nil {
			return err
		}
		if entry == nil || entry.Amount <= shared.Epsilon {
			continue
		}
		take := need
		if entry.Amount < take {
			take = entry.Amount
		}
		if _, err := r.Stockpiles.RemoveDirect(ctx, row.ProvinceID, resource, take); err != nil {
			return err
		}
	}

	for _, resource := range template.Outputs.Resources() {
		amount := template.Outputs[resource] * mult
		if amount <= 0 {
			continue
		}
		if err := r.Stockpiles.AddWithCapacity(ctx, row.ProvinceID, resource, amount, stockpile.DefaultCapacity); err != nil {
			return err
		}
	}
	return nil
}

// applyMaintenance charges each nation maintenance_cash x installed count.
// A treasury that cannot cover the bill is zeroed and the shortfall becomes
// debt.
func (s *Service) applyMaintenance(ctx context.Context, logger common.Logger) {
	nationIDs, err := s.repos.Nations.ListIDs(ctx)
	if err != nil {
		logger.Log("ERROR", "listing nations failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, nationID := range nationIDs {
		id := nationID
		err := s.uow.Do(ctx, func(r *common.Repos) error {
			return chargeMaintenance(ctx, r, id)
		})
		if err != nil {
			logger.Log("ERROR", "maintenance charge failed", map[string]interface{}{
				"nation_id": id,
				"error":     err.Error(),
			})
		}
	}
}

func chargeMaintenance(ctx context.Context, r *common.Repos, nationID string) error {
	installed, err := r.Installed.ListByNation(ctx, nationID)
	if err != nil {
		return err
	}
	total := 0.0
	templates := map[string]*building.Template{}
	for _, row := range installed {
		template, ok := templates[row.BuildingID]
		if !ok {
			template, err = r.BuildingTemplates.FindByID(ctx, row.BuildingID)
			if err != nil {
				return err
			}
			templates[row.BuildingID] = template
		}
		total += template.MaintenanceCash * float64(row.Count)
	}
	if total <= 0 {
		return nil
	}

	nation, err := r.Nations.FindByID(ctx, nationID)
	if err != nil {
		return err
	}
	if nation.CanAfford(total) {
		return r.Nations.Debit(ctx, nationID, total)
	}

	shortfall := total - nation.Cash
	if err := r.Nations.SetCash(ctx, nationID, 0); err != nil {
		return err
	}
	return r.Nations.AddDebt(ctx, nationID, shortfall)
}
