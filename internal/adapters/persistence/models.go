package persistence

import (
	"time"
)

// ProvinceModel represents the provinces table
type ProvinceModel struct {
	ProvinceID   string  `gorm:"column:province_id;primaryKey"`
	StateID      string  `gorm:"column:state_id;not null;index"`
	ControllerID *string `gorm:"column:controller_id;index"`
	Name         string  `gorm:"column:name;not null"`
	Population   int     `gorm:"column:population;not null;default:0"`
	NodeStrength float64 `gorm:"column:node_strength;not null;default:0"`
	X            float64 `gorm:"column:x;not null;default:0"`
	Y            float64 `gorm:"column:y;not null;default:0"`
	ManpowerUsed int     `gorm:"column:manpower_used;not null;default:0"`
}

func (ProvinceModel) TableName() string {
	return "provinces"
}

// StateModel represents the states table
type StateModel struct {
	StateID string `gorm:"column:state_id;primaryKey"`
	Name    string `gorm:"column:name;not null"`
}

func (StateModel) TableName() string {
	return "states"
}

// NationModel represents the nations table
// Cash, debt and manpower_used are the only fields the engine mutates.
type NationModel struct {
	NationID     string  `gorm:"column:nation_id;primaryKey"`
	Name         string  `gorm:"column:name;not null"`
	Cash         float64 `gorm:"column:cash;not null;default:0"`
	Debt         float64 `gorm:"column:debt;not null;default:0"`
	TaxRate      float64 `gorm:"column:tax_rate;not null;default:0"`
	ManpowerUsed int     `gorm:"column:manpower_used;not null;default:0"`
	Affiliation  string  `gorm:"column:affiliation"`
}

func (NationModel) TableName() string {
	return "nations"
}

// StockpileModel represents the province_stockpiles table
// Primary key is composite: (province_id, resource).
type StockpileModel struct {
	ProvinceID string  `gorm:"column:province_id;primaryKey"`
	Resource   string  `gorm:"column:resource;primaryKey"`
	Amount     float64 `gorm:"column:amount;not null;default:0"`
	Capacity   float64 `gorm:"column:capacity;not null;default:0"`
}

func (StockpileModel) TableName() string {
	return "province_stockpiles"
}

// ReservationModel represents the province_reservations table
type ReservationModel struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	BuildID    int64   `gorm:"column:build_id;not null;index"`
	ProvinceID string  `gorm:"column:province_id;not null;index:idx_reservation_stock"`
	Resource   string  `gorm:"column:resource;not null;index:idx_reservation_stock"`
	Amount     float64 `gorm:"column:amount;not null"`
}

func (ReservationModel) TableName() string {
	return "province_reservations"
}

// BuildingTemplateModel represents the building_templates table
// Resource maps are stored as JSON text, decoded into typed maps at load.
type BuildingTemplateModel struct {
	ID                  string  `gorm:"column:id;primaryKey"`
	Name                string  `gorm:"column:name;not null"`
	BuildCostResources  string  `gorm:"column:build_cost_resources;type:text"`
	BuildCashCost       float64 `gorm:"column:build_cash_cost;not null;default:0"`
	BuildTimeTurns      int     `gorm:"column:build_time_turns;not null;default:1"`
	Inputs              string  `gorm:"column:inputs;type:text"`
	Outputs             string  `gorm:"column:outputs;type:text"`
	MaintenanceCash     float64 `gorm:"column:maintenance_cash;not null;default:0"`
	MaintenanceManpower int     `gorm:"column:maintenance_manpower;not null;default:0"`
}

func (BuildingTemplateModel) TableName() string {
	return "building_templates"
}

// StateBuildModel represents the state_builds table (the pending-build queue)
type StateBuildModel struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	NationID     string `gorm:"column:nation_id;not null;index"`
	StateID      string `gorm:"column:state_id;not null"`
	BuildingID   string `gorm:"column:building_id;not null"`
	Tier         int    `gorm:"column:tier;not null;default:1"`
	StartedTurn  int    `gorm:"column:started_turn;not null"`
	CompleteTurn int    `gorm:"column:complete_turn;not null;index"`
	Status       string `gorm:"column:status;not null;default:'pending'"`
	ReservedJSON string `gorm:"column:reserved_json;type:text;not null;default:'[]'"`
}

func (StateBuildModel) TableName() string {
	return "state_builds"
}

// ProvinceBuildingModel represents the province_buildings table
type ProvinceBuildingModel struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProvinceID string `gorm:"column:province_id;not null;uniqueIndex:idx_installed"`
	BuildingID string `gorm:"column:building_id;not null;uniqueIndex:idx_installed"`
	Tier       int    `gorm:"column:tier;not null;default:1;uniqueIndex:idx_installed"`
	Count      int    `gorm:"column:count;not null;default:0"`
}

func (ProvinceBuildingModel) TableName() string {
	return "province_buildings"
}

// MarketPostModel represents the market_posts table
type MarketPostModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PosterNation  string    `gorm:"column:poster_nation;not null;index"`
	Resource      string    `gorm:"column:resource;not null;index"`
	Quantity      float64   `gorm:"column:quantity;not null"`
	PricePerUnit  float64   `gorm:"column:price_per_unit;not null"`
	IsSell        bool      `gorm:"column:is_sell;not null;default:true"`
	TransportMode string    `gorm:"column:transport_mode;not null;default:'auto'"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (MarketPostModel) TableName() string {
	return "market_posts"
}

// TradeOfferModel represents the trade_offers table
type TradeOfferModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FromNation    string    `gorm:"column:from_nation;not null;index"`
	ToNation      string    `gorm:"column:to_nation;not null;index"`
	OfferedJSON   string    `gorm:"column:offered_json;type:text;not null;default:'{}'"`
	RequestedJSON string    `gorm:"column:requested_json;type:text;not null;default:'{}'"`
	OfferedCash   float64   `gorm:"column:offered_cash;not null;default:0"`
	RequestedCash float64   `gorm:"column:requested_cash;not null;default:0"`
	Status        string    `gorm:"column:status;not null;default:'open';index"`
	TransportMode string    `gorm:"column:transport_mode;not null;default:'auto'"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (TradeOfferModel) TableName() string {
	return "trade_offers"
}

// TradeRecordModel represents the trades table (settled-trade ledger)
type TradeRecordModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	FromNation    string    `gorm:"column:from_nation;not null;index"`
	ToNation      string    `gorm:"column:to_nation;not null;index"`
	ResourcesJSON string    `gorm:"column:resources_json;type:text;not null"`
	CashExchanged float64   `gorm:"column:cash_exchanged;not null;default:0"`
	TransportCost float64   `gorm:"column:transport_cost;not null;default:0"`
	Turn          int       `gorm:"column:turn;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (TradeRecordModel) TableName() string {
	return "trades"
}

// ModifierModel represents the modifiers table
type ModifierModel struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Scope       string  `gorm:"column:scope;not null;index"`
	ScopeID     string  `gorm:"column:scope_id;index"`
	Effect      string  `gorm:"column:effect;not null"`
	Kind        string  `gorm:"column:kind;not null"`
	Value       float64 `gorm:"column:value;not null"`
	Source      string  `gorm:"column:source"`
	CreatedTurn int     `gorm:"column:created_turn;not null;default:0"`
	ExpiresTurn *int    `gorm:"column:expires_turn"`
	Active      bool    `gorm:"column:active;not null;default:true"`
}

func (ModifierModel) TableName() string {
	return "modifiers"
}

// UnitTemplateModel represents the unit_templates table
type UnitTemplateModel struct {
	ID             string  `gorm:"column:id;primaryKey"`
	Name           string  `gorm:"column:name;not null"`
	Category       string  `gorm:"column:category"`
	ManpowerCost   int     `gorm:"column:manpower_cost;not null;default:0"`
	BuildCashCost  float64 `gorm:"column:build_cash_cost;not null;default:0"`
	ResourcesJSON  string  `gorm:"column:resources_json;type:text"`
	TechRequired   string  `gorm:"column:tech_required"`
	Classification string  `gorm:"column:classification"`
}

func (UnitTemplateModel) TableName() string {
	return "unit_templates"
}

// RecruitModel represents the recruits table (one row per queued unit)
type RecruitModel struct {
	RecruitID      int64  `gorm:"column:recruit_id;primaryKey;autoIncrement"`
	NationID       string `gorm:"column:nation_id;not null;index"`
	ArmyID         *int64 `gorm:"column:army_id"`
	StateID        string `gorm:"column:state_id;not null;index"`
	ProvinceID     string `gorm:"column:province_id"`
	UnitTemplateID string `gorm:"column:unit_template_id;not null"`
	CreatedTurn    int    `gorm:"column:created_turn;not null"`
	Status         string `gorm:"column:status;not null;default:'queued'"`
}

func (RecruitModel) TableName() string {
	return "recruits"
}

// ArmyModel represents the armies table
type ArmyModel struct {
	ArmyID   int64  `gorm:"column:army_id;primaryKey;autoIncrement"`
	NationID string `gorm:"column:nation_id;not null;index"`
	Name     string `gorm:"column:name;not null"`
	StateID  string `gorm:"column:state_id;not null"`
}

func (ArmyModel) TableName() string {
	return "armies"
}

// NationTechnologyModel represents the nation_technologies table
type NationTechnologyModel struct {
	NationID string `gorm:"column:nation_id;primaryKey"`
	TechID   string `gorm:"column:tech_id;primaryKey"`
}

func (NationTechnologyModel) TableName() string {
	return "nation_technologies"
}

// ResourceModel represents the resources table (per-resource metadata)
type ResourceModel struct {
	Resource string  `gorm:"column:resource;primaryKey"`
	WeightKg float64 `gorm:"column:weight_kg;not null;default:1"`
}

func (ResourceModel) TableName() string {
	return "resources"
}

// ConfigModel represents the config key/value table (holds current_turn)
type ConfigModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (ConfigModel) TableName() string {
	return "config"
}
