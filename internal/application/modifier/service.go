package modifier

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
)

// Service is the admin surface over modifiers plus the aggregation query
// everything else consults.
type Service struct {
	repos *common.Repos
}

// NewService creates a new modifier service
func NewService(repos *common.Repos) *Service {
	return &Service{repos: repos}
}

// AddRequest describes a new scoped adjustment.
type AddRequest struct {
	Scope       modifier.Scope
	ScopeID     string
	Effect      modifier.Effect
	Kind        modifier.Kind
	Value       float64
	Source      string
	ExpiresTurn *int
}

// Add validates and stores a modifier, stamping it with the current turn.
func (s *Service) Add(ctx context.Context, req AddRequest) (*modifier.Modifier, error) {
	currentTurn, err := s.repos.Turns.CurrentTurn(ctx)
	if err != nil {
		return nil, err
	}
	mod, err := modifier.New(req.Scope, req.ScopeID, req.Effect, req.Kind, req.Value, req.Source, currentTurn, req.ExpiresTurn)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Modifiers.Create(ctx, mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// Remove deletes a modifier outright.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repos.Modifiers.Delete(ctx, id)
}

// List returns modifiers, optionally filtered by scope and scope id.
func (s *Service) List(ctx context.Context, scope modifier.Scope, scopeID string, onlyActive bool) ([]*modifier.Modifier, error) {
	return s.repos.Modifiers.List(ctx, scope, scopeID, onlyActive)
}

// ComputeFinal aggregates every active, unexpired modifier matching the
// (nation, state) pair into per-effect totals.
func (s *Service) ComputeFinal(ctx context.Context, nationID, stateID string) (*modifier.Report, error) {
	mods, err := s.repos.Modifiers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	currentTurn, err := s.repos.Turns.CurrentTurn(ctx)
	if err != nil {
		return nil, err
	}
	return modifier.Aggregate(mods, nationID, stateID, currentTurn), nil
}
