package persistence

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/world"
)

// GormNationRepository implements world.NationRepository using GORM
type GormNationRepository struct {
	db *gorm.DB
}

// NewGormNationRepository creates a new GORM nation repository
func NewGormNationRepository(db *gorm.DB) *GormNationRepository {
	return &GormNationRepository{db: db}
}

func (r *GormNationRepository) FindByID(ctx context.Context, nationID string) (*world.Nation, error) {
	var model NationModel
	result := r.db.WithContext(ctx).Where("nation_id = ?", nationID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("nation", nationID)
		}
		return nil, shared.NewStoreError("nation lookup", result.Error)
	}
	return &world.Nation{
		ID:           model.NationID,
		Name:         model.Name,
		Cash:         model.Cash,
		Debt:         model.Debt,
		TaxRate:      model.TaxRate,
		ManpowerUsed: model.ManpowerUsed,
		Affiliation:  model.Affiliation,
	}, nil
}

// Credit adds cash to the nation's treasury
func (r *GormNationRepository) Credit(ctx context.Context, nationID string, amount float64) error {
	return r.adjustCash(ctx, nationID, amount)
}

// Debit removes cash; affordability is validated by callers inside the same
// transaction
func (r *GormNationRepository) Debit(ctx context.Context, nationID string, amount float64) error {
	return r.adjustCash(ctx, nationID, -amount)
}

func (r *GormNationRepository) adjustCash(ctx context.Context, nationID string, delta float64) error {
	result := r.db.WithContext(ctx).Model(&NationModel{}).
		Where("nation_id = ?", nationID).
		Update("cash", gorm.Expr("cash + ?", delta))
	if result.Error != nil {
		return shared.NewStoreError("nation cash update", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("nation", nationID)
	}
	return nil
}

// AddDebt increments the nation's debt
func (r *GormNationRepository) AddDebt(ctx context.Context, nationID string, amount float64) error {
	result := r.db.WithContext(ctx).Model(&NationModel{}).
		Where("nation_id = ?", nationID).
		Update("debt", gorm.Expr("debt + ?", amount))
	if result.Error != nil {
		return shared.NewStoreError("nation debt update", result.Error)
	}
	return nil
}

// SetCash overwrites the cash balance (maintenance shortfall path)
func (r *GormNationRepository) SetCash(ctx context.Context, nationID string, cash float64) error {
	result := r.db.WithContext(ctx).Model(&NationModel{}).
		Where("nation_id = ?", nationID).
		Update("cash", cash)
	if result.Error != nil {
		return shared.NewStoreError("nation cash update", result.Error)
	}
	return nil
}

// AdjustManpowerUsed adds delta to manpower_used, floored at zero
func (r *GormNationRepository) AdjustManpowerUsed(ctx context.Context, nationID string, delta int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model NationModel
		result := tx.Where("nation_id = ?", nationID).First(&model)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return shared.NewNotFoundError("nation", nationID)
			}
			return shared.NewStoreError("nation lookup", result.Error)
		}
		used := model.ManpowerUsed + delta
		if used < 0 {
			used = 0
		}
		result = tx.Model(&NationModel{}).
			Where("nation_id = ?", nationID).
			Update("manpower_used", used)
		if result.Error != nil {
			return shared.NewStoreError("nation manpower update", result.Error)
		}
		return nil
	})
}

// ListIDs returns every nation id
func (r *GormNationRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).Model(&NationModel{}).
		Order("nation_id ASC").
		Pluck("nation_id", &ids)
	if result.Error != nil {
		return nil, shared.NewStoreError("nation list", result.Error)
	}
	return ids, nil
}

// currentTurnKey is the config row holding the authoritative turn counter.
const currentTurnKey = "current_turn"

// GormTurnRepository implements world.TurnRepository over the config table
type GormTurnRepository struct {
	db *gorm.DB
}

// NewGormTurnRepository creates a new GORM turn repository
func NewGormTurnRepository(db *gorm.DB) *GormTurnRepository {
	return &GormTurnRepository{db: db}
}

// CurrentTurn reads the turn counter; a missing row reads as turn zero.
func (r *GormTurnRepository) CurrentTurn(ctx context.Context) (int, error) {
	var model ConfigModel
	result := r.db.WithContext(ctx).Where("key = ?", currentTurnKey).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, shared.NewStoreError("turn lookup", result.Error)
	}
	turn, err := strconv.Atoi(model.Value)
	if err != nil {
		return 0, shared.NewStoreError("turn parse", err)
	}
	return turn, nil
}

// SetCurrentTurn upserts the turn counter.
func (r *GormTurnRepository) SetCurrentTurn(ctx context.Context, turn int) error {
	value := strconv.Itoa(turn)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ConfigModel
		result := tx.Where("key = ?", currentTurnKey).First(&model)
		if result.Error != nil {
			if result.Error != gorm.ErrRecordNotFound {
				return result.Error
			}
			return tx.Create(&ConfigModel{Key: currentTurnKey, Value: value}).Error
		}
		return tx.Model(&ConfigModel{}).Where("key = ?", currentTurnKey).Update("value", value).Error
	})
	if err != nil {
		return shared.NewStoreError("turn update", err)
	}
	return nil
}
