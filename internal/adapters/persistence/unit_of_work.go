package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
)

// NewRepositories wires every GORM repository over one database handle.
func NewRepositories(db *gorm.DB) *common.Repos {
	return &common.Repos{
		Provinces:         NewGormProvinceRepository(db),
		Nations:           NewGormNationRepository(db),
		Turns:             NewGormTurnRepository(db),
		Stockpiles:        NewGormStockpileStore(db),
		BuildingTemplates: NewGormBuildingTemplateRepository(db),
		Builds:            NewGormBuildRepository(db),
		Installed:         NewGormInstalledRepository(db),
		UnitTemplates:     NewGormUnitTemplateRepository(db),
		Recruits:          NewGormRecruitRepository(db),
		Armies:            NewGormArmyRepository(db),
		Technologies:      NewGormTechnologyRepository(db),
		MarketPosts:       NewGormMarketRepository(db),
		Offers:            NewGormOfferRepository(db),
		TradeRecords:      NewGormTradeRecordRepository(db),
		Resources:         NewGormResourceCatalog(db),
		Modifiers:         NewGormModifierRepository(db),
	}
}

// GormUnitOfWork implements common.UnitOfWork via a database transaction:
// the callback's repository bundle is bound to the transaction handle, so
// a returned error rolls back every mutation made through it.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a transaction-scoped unit of work
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(r *common.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
