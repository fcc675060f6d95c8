package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/world"
)

// provincePriorityOrder is the deterministic greedy-allocation order:
// strongest node first, province id as the tie-break.
const provincePriorityOrder = "node_strength DESC, province_id ASC"

// GormProvinceRepository implements world.ProvinceRepository using GORM
type GormProvinceRepository struct {
	db *gorm.DB
}

// NewGormProvinceRepository creates a new GORM province repository
func NewGormProvinceRepository(db *gorm.DB) *GormProvinceRepository {
	return &GormProvinceRepository{db: db}
}

// FindByID retrieves a single province
func (r *GormProvinceRepository) FindByID(ctx context.Context, provinceID string) (*world.Province, error) {
	var model ProvinceModel
	result := r.db.WithContext(ctx).Where("province_id = ?", provinceID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("province", provinceID)
		}
		return nil, shared.NewStoreError("province lookup", result.Error)
	}
	return modelToProvince(&model), nil
}

// ListByStateAndController returns the nation's provinces in a state,
// ordered by priority
func (r *GormProvinceRepository) ListByStateAndController(ctx context.Context, stateID, nationID string) ([]*world.Province, error) {
	var models []ProvinceModel
	result := r.db.WithContext(ctx).
		Where("state_id = ? AND controller_id = ?", stateID, nationID).
		Order(provincePriorityOrder).
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("province list", result.Error)
	}
	return modelsToProvinces(models), nil
}

// ListByController returns every province the nation controls, ordered by
// priority
func (r *GormProvinceRepository) ListByController(ctx context.Context, nationID string) ([]*world.Province, error) {
	var models []ProvinceModel
	result := r.db.WithContext(ctx).
		Where("controller_id = ?", nationID).
		Order(provincePriorityOrder).
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("province list", result.Error)
	}
	return modelsToProvinces(models), nil
}

// StrongestByController returns the nation's highest-priority province, or
// nil when the nation controls none
func (r *GormProvinceRepository) StrongestByController(ctx context.Context, nationID string) (*world.Province, error) {
	var model ProvinceModel
	result := r.db.WithContext(ctx).
		Where("controller_id = ?", nationID).
		Order(provincePriorityOrder).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, shared.NewStoreError("province lookup", result.Error)
	}
	return modelToProvince(&model), nil
}

// StrongestInState returns the nation's highest-priority province within a
// state, or nil when there is none
func (r *GormProvinceRepository) StrongestInState(ctx context.Context, stateID, nationID string) (*world.Province, error) {
	var model ProvinceModel
	result := r.db.WithContext(ctx).
		Where("state_id = ? AND controller_id = ?", stateID, nationID).
		Order(provincePriorityOrder).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, shared.NewStoreError("province lookup", result.Error)
	}
	return modelToProvince(&model), nil
}

// SetManpowerUsed persists an updated manpower_used value
func (r *GormProvinceRepository) SetManpowerUsed(ctx context.Context, provinceID string, manpowerUsed int) error {
	if manpowerUsed < 0 {
		manpowerUsed = 0
	}
	result := r.db.WithContext(ctx).Model(&ProvinceModel{}).
		Where("province_id = ?", provinceID).
		Update("manpower_used", manpowerUsed)
	if result.Error != nil {
		return shared.NewStoreError("province update", result.Error)
	}
	return nil
}

func modelToProvince(model *ProvinceModel) *world.Province {
	controller := ""
	if model.ControllerID != nil {
		controller = *model.ControllerID
	}
	return &world.Province{
		ID:           model.ProvinceID,
		StateID:      model.StateID,
		ControllerID: controller,
		Name:         model.Name,
		Population:   model.Population,
		NodeStrength: model.NodeStrength,
		X:            model.X,
		Y:            model.Y,
		ManpowerUsed: model.ManpowerUsed,
	}
}

func modelsToProvinces(models []ProvinceModel) []*world.Province {
	provinces := make([]*world.Province, len(models))
	for i := range models {
		provinces[i] = modelToProvince(&models[i])
	}
	return provinces
}
