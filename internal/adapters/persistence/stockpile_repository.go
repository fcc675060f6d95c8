package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
)

// GormStockpileStore implements stockpile.Store using GORM.
//
// Reserve re-validates availability inside its own transaction; when the
// store handle is already transaction-bound (unit of work), GORM nests via
// savepoints so the re-check still happens under the outer write lock.
type GormStockpileStore struct {
	db *gorm.DB
}

// NewGormStockpileStore creates a new GORM stockpile store
func NewGormStockpileStore(db *gorm.DB) *GormStockpileStore {
	return &GormStockpileStore{db: db}
}

// Available returns stockpile amount minus active reservations. Never
// negative.
func (s *GormStockpileStore) Available(ctx context.Context, provinceID string, resource shared.Resource) (float64, error) {
	return s.availableTx(s.db.WithContext(ctx), provinceID, resource)
}

func (s *GormStockpileStore) availableTx(tx *gorm.DB, provinceID string, resource shared.Resource) (float64, error) {
	var model StockpileModel
	total := 0.0
	result := tx.Where("province_id = ? AND resource = ?", provinceID, resource.String()).First(&model)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return 0, shared.NewStoreError("stockpile lookup", result.Error)
		}
	} else {
		total = model.Amount
	}

	var reserved float64
	result = tx.Model(&ReservationModel{}).
		Where("province_id = ? AND resource = ?", provinceID, resource.String()).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&reserved)
	if result.Error != nil {
		return 0, shared.NewStoreError("reservation sum", result.Error)
	}

	available := total - reserved
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

// NationAvailable sums unreserved stock across every province the nation
// controls.
func (s *GormStockpileStore) NationAvailable(ctx context.Context, nationID string, resource shared.Resource) (float64, error) {
	tx := s.db.WithContext(ctx)

	var total float64
	result := tx.Model(&StockpileModel{}).
		Joins("JOIN provinces ON provinces.province_id = province_stockpiles.province_id").
		Where("provinces.controller_id = ? AND province_stockpiles.resource = ?", nationID, resource.String()).
		Select("COALESCE(SUM(province_stockpiles.amount), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, shared.NewStoreError("nation stockpile sum", result.Error)
	}

	var reserved float64
	result = tx.Model(&ReservationModel{}).
		Joins("JOIN provinces ON provinces.province_id = province_reservations.province_id").
		Where("provinces.controller_id = ? AND province_reservations.resource = ?", nationID, resource.String()).
		Select("COALESCE(SUM(province_reservations.amount), 0)").
		Scan(&reserved)
	if result.Error != nil {
		return 0, shared.NewStoreError("nation reservation sum", result.Error)
	}

	available := total - reserved
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

// Reserve atomically re-checks availability and inserts a reservation row.
// The check runs inside the transaction, not against a value read earlier,
// so two concurrent reservations against the same province/resource cannot
// both succeed past the stockpile amount.
func (s *GormStockpileStore) Reserve(ctx context.Context, buildID int64, provinceID string, resource shared.Resource, amount float64) (bool, error) {
	ok := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		available, err := s.availableTx(tx, provinceID, resource)
		if err != nil {
			return err
		}
		if available+shared.Epsilon < amount {
			return nil // not enough; commit nothing
		}
		model := ReservationModel{
			BuildID:    buildID,
			ProvinceID: provinceID,
			Resource:   resource.String(),
			Amount:     amount,
		}
		if result := tx.Create(&model); result.Error != nil {
			return shared.NewStoreError("reservation insert", result.Error)
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Consume decrements stockpiles by every reservation tied to buildID and
// deletes the reservation rows.
func (s *GormStockpileStore) Consume(ctx context.Context, buildID int64) ([]stockpile.ReservationRecord, error) {
	var consumed []stockpile.ReservationRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []ReservationModel
		if result := tx.Where("build_id = ?", buildID).Find(&rows); result.Error != nil {
			return shared.NewStoreError("reservation fetch", result.Error)
		}
		for _, row := range rows {
			var stock StockpileModel
			result := tx.Where("province_id = ? AND resource = ?", row.ProvinceID, row.Resource).First(&stock)
			if result.Error != nil {
				if result.Error == gorm.ErrRecordNotFound {
					continue
				}
				return shared.NewStoreError("stockpile lookup", result.Error)
			}
			newAmount := stock.Amount - row.Amount
			if newAmount < 0 {
				newAmount = 0
			}
			result = tx.Model(&StockpileModel{}).
				Where("province_id = ? AND resource = ?", row.ProvinceID, row.Resource).
				Update("amount", newAmount)
			if result.Error != nil {
				return shared.NewStoreError("stockpile decrement", result.Error)
			}
			consumed = append(consumed, stockpile.ReservationRecord{
				ProvinceID: row.ProvinceID,
				Resource:   row.Resource,
				Amount:     row.Amount,
			})
		}
		if result := tx.Where("build_id = ?", buildID).Delete(&ReservationModel{}); result.Error != nil {
			return shared.NewStoreError("reservation delete", result.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

// Release deletes all reservations for buildID without touching stockpile
// amounts.
func (s *GormStockpileStore) Release(ctx context.Context, buildID int64) error {
	result := s.db.WithContext(ctx).Where("build_id = ?", buildID).Delete(&ReservationModel{})
	if result.Error != nil {
		return shared.NewStoreError("reservation release", result.Error)
	}
	return nil
}

// Add increases a stockpile, clamped to capacity, creating the row at the
// default capacity when absent.
func (s *GormStockpileStore) Add(ctx context.Context, provinceID string, resource shared.Resource, amount float64) error {
	return s.AddWithCapacity(ctx, provinceID, resource, amount, stockpile.DefaultCapacity)
}

// AddWithCapacity behaves like Add with an explicit creation capacity.
func (s *GormStockpileStore) AddWithCapacity(ctx context.Context, provinceID string, resource shared.Resource, amount, createCapacity float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model StockpileModel
		result := tx.Where("province_id = ? AND resource = ?", provinceID, resource.String()).First(&model)
		if result.Error != nil {
			if result.Error != gorm.ErrRecordNotFound {
				return shared.NewStoreError("stockpile lookup", result.Error)
			}
			model = StockpileModel{
				ProvinceID: provinceID,
				Resource:   resource.String(),
				Capacity:   createCapacity,
			}
			entry := stockpile.Entry{Capacity: createCapacity}
			model.Amount = entry.ClampDeposit(amount)
			if result := tx.Create(&model); result.Error != nil {
				return shared.NewStoreError("stockpile insert", result.Error)
			}
			return nil
		}
		entry := stockpile.Entry{Amount: model.Amount, Capacity: model.Capacity}
		deposit := entry.ClampDeposit(amount)
		if deposit <= 0 {
			return nil
		}
		result = tx.Model(&StockpileModel{}).
			Where("province_id = ? AND resource = ?", provinceID, resource.String()).
			Update("amount", gorm.Expr("amount + ?", deposit))
		if result.Error != nil {
			return shared.NewStoreError("stockpile increment", result.Error)
		}
		return nil
	})
}

// RemoveDirect unconditionally decrements a stockpile; fails with no
// mutation when the stock is short. Reservations are not consulted: this is
// the trade/maintenance path that does not pre-reserve.
func (s *GormStockpileStore) RemoveDirect(ctx context.Context, provinceID string, resource shared.Resource, amount float64) (bool, error) {
	ok := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model StockpileModel
		result := tx.Where("province_id = ? AND resource = ?", provinceID, resource.String()).First(&model)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return nil
			}
			return shared.NewStoreError("stockpile lookup", result.Error)
		}
		if model.Amount+shared.Epsilon < amount {
			return nil
		}
		result = tx.Model(&StockpileModel{}).
			Where("province_id = ? AND resource = ?", provinceID, resource.String()).
			Update("amount", gorm.Expr("amount - ?", amount))
		if result.Error != nil {
			return shared.NewStoreError("stockpile decrement", result.Error)
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Entry returns the row for one province/resource, or nil when absent.
func (s *GormStockpileStore) Entry(ctx context.Context, provinceID string, resource shared.Resource) (*stockpile.Entry, error) {
	var model StockpileModel
	result := s.db.WithContext(ctx).
		Where("province_id = ? AND resource = ?", provinceID, resource.String()).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, shared.NewStoreError("stockpile lookup", result.Error)
	}
	return modelToEntry(&model), nil
}

// ListByProvince returns every stockpile row for a province.
func (s *GormStockpileStore) ListByProvince(ctx context.Context, provinceID string) ([]*stockpile.Entry, error) {
	var models []StockpileModel
	result := s.db.WithContext(ctx).
		Where("province_id = ?", provinceID).
		Order("resource ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("stockpile list", result.Error)
	}
	entries := make([]*stockpile.Entry, len(models))
	for i := range models {
		entries[i] = modelToEntry(&models[i])
	}
	return entries, nil
}

// ListByNation returns every stockpile row across the nation's provinces,
// ordered by province priority.
func (s *GormStockpileStore) ListByNation(ctx context.Context, nationID string) ([]*stockpile.Entry, error) {
	var models []StockpileModel
	result := s.db.WithContext(ctx).
		Joins("JOIN provinces ON provinces.province_id = province_stockpiles.province_id").
		Where("provinces.controller_id = ?", nationID).
		Order("provinces.node_strength DESC, provinces.province_id ASC, province_stockpiles.resource ASC").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStoreError("nation stockpile list", result.Error)
	}
	entries := make([]*stockpile.Entry, len(models))
	for i := range models {
		entries[i] = modelToEntry(&models[i])
	}
	return entries, nil
}

func modelToEntry(model *StockpileModel) *stockpile.Entry {
	return &stockpile.Entry{
		ProvinceID: model.ProvinceID,
		Resource:   shared.Resource(model.Resource),
		Amount:     model.Amount,
		Capacity:   model.Capacity,
	}
}
