package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/military"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// GormUnitTemplateRepository implements military.UnitTemplateRepository
type GormUnitTemplateRepository struct {
	db *gorm.DB
}

// NewGormUnitTemplateRepository creates a new GORM unit template repository
func NewGormUnitTemplateRepository(db *gorm.DB) *GormUnitTemplateRepository {
	return &GormUnitTemplateRepository{db: db}
}

func (r *GormUnitTemplateRepository) FindByID(ctx context.Context, id string) (*military.UnitTemplate, error) {
	var model UnitTemplateModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("unit template", id)
		}
		return nil, shared.NewStoreError("unit template lookup", result.Error)
	}
	return modelToUnitTemplate(&model)
}

func (r *GormUnitTemplateRepository) List(ctx context.Context) ([]*military.UnitTemplate, error) {
	var models []UnitTemplateModel
	result := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("unit template list", result.Error)
	}
	templates := make([]*military.UnitTemplate, len(models))
	for i := range models {
		tpl, err := modelToUnitTemplate(&models[i])
		if err != nil {
			return nil, err
		}
		templates[i] = tpl
	}
	return templates, nil
}

func modelToUnitTemplate(model *UnitTemplateModel) (*military.UnitTemplate, error) {
	resources, err := shared.ParseResourceSet(model.ResourcesJSON)
	if err != nil {
		return nil, fmt.Errorf("unit template %s resources: %w", model.ID, err)
	}
	return &military.UnitTemplate{
		ID:             model.ID,
		Name:           model.Name,
		Category:       model.Category,
		ManpowerCost:   model.ManpowerCost,
		BuildCashCost:  model.BuildCashCost,
		Resources:      resources,
		TechRequired:   model.TechRequired,
		Classification: model.Classification,
	}, nil
}

// GormRecruitRepository implements military.RecruitRepository
type GormRecruitRepository struct {
	db *gorm.DB
}

// NewGormRecruitRepository creates a new GORM recruit repository
func NewGormRecruitRepository(db *gorm.DB) *GormRecruitRepository {
	return &GormRecruitRepository{db: db}
}

func (r *GormRecruitRepository) Create(ctx context.Context, recruit *military.Recruit) error {
	model := &RecruitModel{
		NationID:       recruit.NationID,
		ArmyID:         recruit.ArmyID,
		StateID:        recruit.StateID,
		ProvinceID:     recruit.ProvinceID,
		UnitTemplateID: recruit.UnitTemplateID,
		CreatedTurn:    recruit.CreatedTurn,
		Status:         recruit.Status,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("recruit insert", result.Error)
	}
	recruit.ID = model.RecruitID
	return nil
}

func (r *GormRecruitRepository) FindByID(ctx context.Context, id int64) (*military.Recruit, error) {
	var model RecruitModel
	result := r.db.WithContext(ctx).Where("recruit_id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("recruit", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("recruit lookup", result.Error)
	}
	return modelToRecruit(&model), nil
}

func (r *GormRecruitRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("recruit_id = ?", id).Delete(&RecruitModel{})
	if result.Error != nil {
		return shared.NewStoreError("recruit delete", result.Error)
	}
	return nil
}

func (r *GormRecruitRepository) List(ctx context.Context, nationID, stateID string) ([]*military.Recruit, error) {
	query := r.db.WithContext(ctx).Where("nation_id = ?", nationID).Order("recruit_id ASC")
	if stateID != "" {
		query = query.Where("state_id = ?", stateID)
	}
	var models []RecruitModel
	if result := query.Find(&models); result.Error != nil {
		return nil, shared.NewStoreError("recruit list", result.Error)
	}
	recruits := make([]*military.Recruit, len(models))
	for i := range models {
		recruits[i] = modelToRecruit(&models[i])
	}
	return recruits, nil
}

func (r *GormRecruitRepository) CountByProvinces(ctx context.Context, nationID string, provinceIDs []string) (int, error) {
	if len(provinceIDs) == 0 {
		return 0, nil
	}
	var count int64
	result := r.db.WithContext(ctx).Model(&RecruitModel{}).
		Where("nation_id = ? AND province_id IN ?", nationID, provinceIDs).
		Count(&count)
	if result.Error != nil {
		return 0, shared.NewStoreError("recruit count", result.Error)
	}
	return int(count), nil
}

func modelToRecruit(model *RecruitModel) *military.Recruit {
	return &military.Recruit{
		ID:             model.RecruitID,
		NationID:       model.NationID,
		ArmyID:         model.ArmyID,
		StateID:        model.StateID,
		ProvinceID:     model.ProvinceID,
		UnitTemplateID: model.UnitTemplateID,
		CreatedTurn:    model.CreatedTurn,
		Status:         model.Status,
	}
}

// GormArmyRepository implements military.ArmyRepository
type GormArmyRepository struct {
	db *gorm.DB
}

// NewGormArmyRepository creates a new GORM army repository
func NewGormArmyRepository(db *gorm.DB) *GormArmyRepository {
	return &GormArmyRepository{db: db}
}

func (r *GormArmyRepository) Create(ctx context.Context, army *military.Army) error {
	model := &ArmyModel{
		NationID: army.NationID,
		Name:     army.Name,
		StateID:  army.StateID,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("army insert", result.Error)
	}
	army.ID = model.ArmyID
	return nil
}

func (r *GormArmyRepository) FindByID(ctx context.Context, id int64) (*military.Army, error) {
	var model ArmyModel
	result := r.db.WithContext(ctx).Where("army_id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("army", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("army lookup", result.Error)
	}
	return &military.Army{ID: model.ArmyID, NationID: model.NationID, Name: model.Name, StateID: model.StateID}, nil
}

func (r *GormArmyRepository) ListByNation(ctx context.Context, nationID string) ([]*military.Army, error) {
	var models []ArmyModel
	result := r.db.WithContext(ctx).Where("nation_id = ?", nationID).Order("army_id ASC").Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("army list", result.Error)
	}
	armies := make([]*military.Army, len(models))
	for i := range models {
		m := &models[i]
		armies[i] = &military.Army{ID: m.ArmyID, NationID: m.NationID, Name: m.Name, StateID: m.StateID}
	}
	return armies, nil
}

// GormTechnologyRepository implements military.TechnologyRepository
type GormTechnologyRepository struct {
	db *gorm.DB
}

// NewGormTechnologyRepository creates a new GORM technology repository
func NewGormTechnologyRepository(db *gorm.DB) *GormTechnologyRepository {
	return &GormTechnologyRepository{db: db}
}

func (r *GormTechnologyRepository) HasTech(ctx context.Context, nationID, techID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&NationTechnologyModel{}).
		Where("nation_id = ? AND tech_id = ?", nationID, techID).
		Count(&count)
	if result.Error != nil {
		return false, shared.NewStoreError("technology lookup", result.Error)
	}
	return count > 0, nil
}
