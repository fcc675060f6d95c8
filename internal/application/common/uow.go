package common

import (
	"context"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/building"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/military"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/modifier"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/world"
)

// Repos bundles every repository port over one shared database handle.
// Inside a unit-of-work callback the bundle is bound to the transaction, so
// all mutations performed through it commit or roll back together.
type Repos struct {
	Provinces         world.ProvinceRepository
	Nations           world.NationRepository
	Turns             world.TurnRepository
	Stockpiles        stockpile.Store
	BuildingTemplates building.TemplateRepository
	Builds            building.BuildRepository
	Installed         building.InstalledRepository
	UnitTemplates     military.UnitTemplateRepository
	Recruits          military.RecruitRepository
	Armies            military.ArmyRepository
	Technologies      military.TechnologyRepository
	MarketPosts       trade.MarketRepository
	Offers            trade.OfferRepository
	TradeRecords      trade.RecordRepository
	Resources         trade.ResourceCatalog
	Modifiers         modifier.Repository
}

// UnitOfWork runs a callback with a transaction-bound Repos bundle. A
// returned error rolls back every mutation made through the bundle; nil
// commits them atomically. Domain-rule failures surface through the error
// return, which is how "any failure partway rolls back everything" is
// enforced for multi-row sequences.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r *Repos) error) error
}
