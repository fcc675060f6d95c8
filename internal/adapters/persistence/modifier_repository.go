package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// GormModifierRepository implements modifier.Repository
type GormModifierRepository struct {
	db *gorm.DB
}

// NewGormModifierRepository creates a new GORM modifier repository
func NewGormModifierRepository(db *gorm.DB) *GormModifierRepository {
	return &GormModifierRepository{db: db}
}

func (r *GormModifierRepository) Create(ctx context.Context, mod *modifier.Modifier) error {
	model := &ModifierModel{
		Scope:       string(mod.Scope),
		ScopeID:     mod.ScopeID,
		Effect:      string(mod.Effect),
		Kind:        string(mod.Kind),
		Value:       mod.Value,
		Source:      mod.Source,
		CreatedTurn: mod.CreatedTurn,
		ExpiresTurn: mod.ExpiresTurn,
		Active:      mod.Active,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("modifier insert", result.Error)
	}
	mod.ID = model.ID
	return nil
}

func (r *GormModifierRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ModifierModel{})
	if result.Error != nil {
		return shared.NewStoreError("modifier delete", result.Error)
	}
	return nil
}

func (r *GormModifierRepository) ListActive(ctx context.Context) ([]*modifier.Modifier, error) {
	return r.List(ctx, "", "", true)
}

func (r *GormModifierRepository) List(ctx context.Context, scope modifier.Scope, scopeID string, onlyActive bool) ([]*modifier.Modifier, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if scope != "" {
		query = query.Where("scope = ?", string(scope))
	}
	if scopeID != "" {
		query = query.Where("scope_id = ?", scopeID)
	}
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	var models []ModifierModel
	if result := query.Find(&models); result.Error != nil {
		return nil, shared.NewStoreError("modifier list", result.Error)
	}
	mods := make([]*modifier.Modifier, len(models))
	for i := range models {
		m := &models[i]
		mods[i] = &modifier.Modifier{
			ID:          m.ID,
			Scope:       modifier.Scope(m.Scope),
			ScopeID:     m.ScopeID,
			Effect:      modifier.Effect(m.Effect),
			Kind:        modifier.Kind(m.Kind),
			Value:       m.Value,
			Source:      m.Source,
			CreatedTurn: m.CreatedTurn,
			ExpiresTurn: m.ExpiresTurn,
			Active:      m.Active,
		}
	}
	return mods, nil
}
