package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/building"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
)

// GormBuildingTemplateRepository implements building.TemplateRepository
type GormBuildingTemplateRepository struct {
	db *gorm.DB
}

// NewGormBuildingTemplateRepository creates a new GORM template repository
func NewGormBuildingTemplateRepository(db *gorm.DB) *GormBuildingTemplateRepository {
	return &GormBuildingTemplateRepository{db: db}
}

func (r *GormBuildingTemplateRepository) FindByID(ctx context.Context, id string) (*building.Template, error) {
	var model BuildingTemplateModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("building template", id)
		}
		return nil, shared.NewStoreError("template lookup", result.Error)
	}
	return modelToTemplate(&model)
}

func (r *GormBuildingTemplateRepository) List(ctx context.Context) ([]*building.Template, error) {
	var models []BuildingTemplateModel
	result := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("template list", result.Error)
	}
	templates := make([]*building.Template, len(models))
	for i := range models {
		tpl, err := modelToTemplate(&models[i])
		if err != nil {
			return nil, err
		}
		templates[i] = tpl
	}
	return templates, nil
}

func modelToTemplate(model *BuildingTemplateModel) (*building.Template, error) {
	cost, err := shared.ParseResourceSet(model.BuildCostResources)
	if err != nil {
		return nil, fmt.Errorf("template %s cost: %w", model.ID, err)
	}
	inputs, err := shared.ParseResourceSet(model.Inputs)
	if err != nil {
		return nil, fmt.Errorf("template %s inputs: %w", model.ID, err)
	}
	outputs, err := shared.ParseResourceSet(model.Outputs)
	if err != nil {
		return nil, fmt.Errorf("template %s outputs: %w", model.ID, err)
	}
	return &building.Template{
		ID:                  model.ID,
		Name:                model.Name,
		BuildCostResources:  cost,
		BuildCashCost:       model.BuildCashCost,
		BuildTimeTurns:      model.BuildTimeTurns,
		Inputs:              inputs,
		Outputs:             outputs,
		MaintenanceCash:     model.MaintenanceCash,
		MaintenanceManpower: model.MaintenanceManpower,
	}, nil
}

// GormBuildRepository implements building.BuildRepository
type GormBuildRepository struct {
	db *gorm.DB
}

// NewGormBuildRepository creates a new GORM build repository
func NewGormBuildRepository(db *gorm.DB) *GormBuildRepository {
	return &GormBuildRepository{db: db}
}

func (r *GormBuildRepository) Create(ctx context.Context, b *building.PendingBuild) error {
	model, err := buildToModel(b)
	if err != nil {
		return err
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("build insert", result.Error)
	}
	b.ID = model.ID
	return nil
}

func (r *GormBuildRepository) FindByID(ctx context.Context, id int64) (*building.PendingBuild, error) {
	var model StateBuildModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("build", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("build lookup", result.Error)
	}
	return modelToBuild(&model)
}

func (r *GormBuildRepository) UpdateReserved(ctx context.Context, b *building.PendingBuild) error {
	reserved, err := encodeReserved(b.Reserved)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&StateBuildModel{}).
		Where("id = ?", b.ID).
		Update("reserved_json", reserved)
	if result.Error != nil {
		return shared.NewStoreError("build update", result.Error)
	}
	return nil
}

func (r *GormBuildRepository) UpdateStatus(ctx context.Context, b *building.PendingBuild) error {
	result := r.db.WithContext(ctx).Model(&StateBuildModel{}).
		Where("id = ?", b.ID).
		Update("status", string(b.Status))
	if result.Error != nil {
		return shared.NewStoreError("build update", result.Error)
	}
	return nil
}

func (r *GormBuildRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&StateBuildModel{})
	if result.Error != nil {
		return shared.NewStoreError("build delete", result.Error)
	}
	return nil
}

func (r *GormBuildRepository) ListDue(ctx context.Context, turn int) ([]*building.PendingBuild, error) {
	var models []StateBuildModel
	result := r.db.WithContext(ctx).
		Where("status = ? AND complete_turn <= ?", string(building.StatusPending), turn).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("build list", result.Error)
	}
	return modelsToBuilds(models)
}

func (r *GormBuildRepository) ListPendingByNation(ctx context.Context, nationID string) ([]*building.PendingBuild, error) {
	var models []StateBuildModel
	result := r.db.WithContext(ctx).
		Where("nation_id = ? AND status = ?", nationID, string(building.StatusPending)).
		Order("complete_turn ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("build list", result.Error)
	}
	return modelsToBuilds(models)
}

func modelsToBuilds(models []StateBuildModel) ([]*building.PendingBuild, error) {
	builds := make([]*building.PendingBuild, len(models))
	for i := range models {
		b, err := modelToBuild(&models[i])
		if err != nil {
			return nil, err
		}
		builds[i] = b
	}
	return builds, nil
}

func modelToBuild(model *StateBuildModel) (*building.PendingBuild, error) {
	var reserved []stockpile.ReservationRecord
	if model.ReservedJSON != "" {
		if err := json.Unmarshal([]byte(model.ReservedJSON), &reserved); err != nil {
			return nil, shared.NewStoreError("reserved_json parse", err)
		}
	}
	return &building.PendingBuild{
		ID:           model.ID,
		NationID:     model.NationID,
		StateID:      model.StateID,
		BuildingID:   model.BuildingID,
		Tier:         model.Tier,
		StartedTurn:  model.StartedTurn,
		CompleteTurn: model.CompleteTurn,
		Status:       building.Status(model.Status),
		Reserved:     reserved,
	}, nil
}

func buildToModel(b *building.PendingBuild) (*StateBuildModel, error) {
	reserved, err := encodeReserved(b.Reserved)
	if err != nil {
		return nil, err
	}
	return &StateBuildModel{
		ID:           b.ID,
		NationID:     b.NationID,
		StateID:      b.StateID,
		BuildingID:   b.BuildingID,
		Tier:         b.Tier,
		StartedTurn:  b.StartedTurn,
		CompleteTurn: b.CompleteTurn,
		Status:       string(b.Status),
		ReservedJSON: reserved,
	}, nil
}

func encodeReserved(records []stockpile.ReservationRecord) (string, error) {
	if records == nil {
		records = []stockpile.ReservationRecord{}
	}
	out, err := json.Marshal(records)
	if err != nil {
		return "", shared.NewStoreError("reserved_json encode", err)
	}
	return string(out), nil
}

// GormInstalledRepository implements building.InstalledRepository
type GormInstalledRepository struct {
	db *gorm.DB
}

// NewGormInstalledRepository creates a new GORM installed-building repository
func NewGormInstalledRepository(db *gorm.DB) *GormInstalledRepository {
	return &GormInstalledRepository{db: db}
}

func (r *GormInstalledRepository) FindByID(ctx context.Context, id int64) (*building.Installed, error) {
	var model ProvinceBuildingModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("installed building", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("installed lookup", result.Error)
	}
	return modelToInstalled(&model), nil
}

// Increment upserts (province, building, tier), adding one to count.
func (r *GormInstalledRepository) Increment(ctx context.Context, provinceID, buildingID string, tier int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ProvinceBuildingModel
		result := tx.Where("province_id = ? AND building_id = ? AND tier = ?", provinceID, buildingID, tier).First(&model)
		if result.Error != nil {
			if result.Error != gorm.ErrRecordNotFound {
				return shared.NewStoreError("installed lookup", result.Error)
			}
			model = ProvinceBuildingModel{
				ProvinceID: provinceID,
				BuildingID: buildingID,
				Tier:       tier,
				Count:      1,
			}
			if result := tx.Create(&model); result.Error != nil {
				return shared.NewStoreError("installed insert", result.Error)
			}
			return nil
		}
		result = tx.Model(&ProvinceBuildingModel{}).
			Where("id = ?", model.ID).
			Update("count", gorm.Expr("count + 1"))
		if result.Error != nil {
			return shared.NewStoreError("installed increment", result.Error)
		}
		return nil
	})
}

func (r *GormInstalledRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProvinceBuildingModel{})
	if result.Error != nil {
		return shared.NewStoreError("installed delete", result.Error)
	}
	return nil
}

func (r *GormInstalledRepository) List(ctx context.Context) ([]*building.Installed, error) {
	var models []ProvinceBuildingModel
	result := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("installed list", result.Error)
	}
	return modelsToInstalled(models), nil
}

func (r *GormInstalledRepository) ListByNation(ctx context.Context, nationID string) ([]*building.Installed, error) {
	var models []ProvinceBuildingModel
	result := r.db.WithContext(ctx).
		Joins("JOIN provinces ON provinces.province_id = province_buildings.province_id").
		Where("provinces.controller_id = ?", nationID).
		Order("province_buildings.id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("installed list", result.Error)
	}
	return modelsToInstalled(models), nil
}

func (r *GormInstalledRepository) ListByStateAndNation(ctx context.Context, stateID, nationID string) ([]*building.Installed, error) {
	var models []ProvinceBuildingModel
	result := r.db.WithContext(ctx).
		Joins("JOIN provinces ON provinces.province_id = province_buildings.province_id").
		Where("provinces.state_id = ? AND provinces.controller_id = ?", stateID, nationID).
		Order("province_buildings.id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("installed list", result.Error)
	}
	return modelsToInstalled(models), nil
}

func modelToInstalled(model *ProvinceBuildingModel) *building.Installed {
	return &building.Installed{
		ID:         model.ID,
		ProvinceID: model.ProvinceID,
		BuildingID: model.BuildingID,
		Tier:       model.Tier,
		Count:      model.Count,
	}
}

func modelsToInstalled(models []ProvinceBuildingModel) []*building.Installed {
	installed := make([]*building.Installed, len(models))
	for i := range models {
		installed[i] = modelToInstalled(&models[i])
	}
	return installed
}
