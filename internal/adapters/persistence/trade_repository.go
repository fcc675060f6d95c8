package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
)

// GormMarketRepository implements trade.MarketRepository
type GormMarketRepository struct {
	db *gorm.DB
}

// NewGormMarketRepository creates a new GORM market-post repository
func NewGormMarketRepository(db *gorm.DB) *GormMarketRepository {
	return &GormMarketRepository{db: db}
}

func (r *GormMarketRepository) Create(ctx context.Context, post *trade.MarketPost) error {
	model := &MarketPostModel{
		PosterNation:  post.PosterNation,
		Resource:      string(post.Resource),
		Quantity:      post.Quantity,
		PricePerUnit:  post.PricePerUnit,
		IsSell:        post.IsSell,
		TransportMode: string(post.TransportMode),
		CreatedAt:     post.CreatedAt,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("market post insert", result.Error)
	}
	post.ID = model.ID
	return nil
}

func (r *GormMarketRepository) FindByID(ctx context.Context, id int64) (*trade.MarketPost, error) {
	var model MarketPostModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("market post", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("market post lookup", result.Error)
	}
	return modelToMarketPost(&model), nil
}

func (r *GormMarketRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MarketPostModel{})
	if result.Error != nil {
		return shared.NewStoreError("market post delete", result.Error)
	}
	return nil
}

func (r *GormMarketRepository) List(ctx context.Context, resource shared.Resource, limit int) ([]*trade.MarketPost, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if resource != "" {
		query = query.Where("resource = ?", string(resource))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []MarketPostModel
	if result := query.Find(&models); result.Error != nil {
		return nil, shared.NewStoreError("market post list", result.Error)
	}
	posts := make([]*trade.MarketPost, len(models))
	for i := range models {
		posts[i] = modelToMarketPost(&models[i])
	}
	return posts, nil
}

func modelToMarketPost(model *MarketPostModel) *trade.MarketPost {
	return &trade.MarketPost{
		ID:            model.ID,
		PosterNation:  model.PosterNation,
		Resource:      shared.Resource(model.Resource),
		Quantity:      model.Quantity,
		PricePerUnit:  model.PricePerUnit,
		IsSell:        model.IsSell,
		TransportMode: trade.Mode(model.TransportMode),
		CreatedAt:     model.CreatedAt,
	}
}

// GormOfferRepository implements trade.OfferRepository
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GORM offer repository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

func (r *GormOfferRepository) Create(ctx context.Context, offer *trade.Offer) error {
	offered, err := offer.Offered.Encode()
	if err != nil {
		return shared.NewStoreError("offer encode", err)
	}
	requested, err := offer.Requested.Encode()
	if err != nil {
		return shared.NewStoreError("offer encode", err)
	}
	model := &TradeOfferModel{
		FromNation:    offer.FromNation,
		ToNation:      offer.ToNation,
		OfferedJSON:   offered,
		RequestedJSON: requested,
		OfferedCash:   offer.OfferedCash,
		RequestedCash: offer.RequestedCash,
		Status:        string(offer.Status),
		TransportMode: string(offer.TransportMode),
		CreatedAt:     offer.CreatedAt,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("offer insert", result.Error)
	}
	offer.ID = model.ID
	return nil
}

func (r *GormOfferRepository) FindByID(ctx context.Context, id int64) (*trade.Offer, error) {
	var model TradeOfferModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("trade offer", fmt.Sprintf("%d", id))
		}
		return nil, shared.NewStoreError("offer lookup", result.Error)
	}
	return modelToOffer(&model)
}

func (r *GormOfferRepository) UpdateStatus(ctx context.Context, offer *trade.Offer) error {
	result := r.db.WithContext(ctx).Model(&TradeOfferModel{}).
		Where("id = ?", offer.ID).
		Update("status", string(offer.Status))
	if result.Error != nil {
		return shared.NewStoreError("offer update", result.Error)
	}
	return nil
}

func (r *GormOfferRepository) CountOpenByCreator(ctx context.Context, nationID string) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&TradeOfferModel{}).
		Where("from_nation = ? AND status = ?", nationID, string(trade.OfferOpen)).
		Count(&count)
	if result.Error != nil {
		return 0, shared.NewStoreError("offer count", result.Error)
	}
	return int(count), nil
}

func (r *GormOfferRepository) ListByNation(ctx context.Context, nationID string, limit int) ([]*trade.Offer, error) {
	query := r.db.WithContext(ctx).
		Where("from_nation = ? OR to_nation = ?", nationID, nationID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []TradeOfferModel
	if result := query.Find(&models); result.Error != nil {
		return nil, shared.NewStoreError("offer list", result.Error)
	}
	offers := make([]*trade.Offer, len(models))
	for i := range models {
		offer, err := modelToOffer(&models[i])
		if err != nil {
			return nil, err
		}
		offers[i] = offer
	}
	return offers, nil
}

func modelToOffer(model *TradeOfferModel) (*trade.Offer, error) {
	offered, err := shared.ParseResourceSet(model.OfferedJSON)
	if err != nil {
		return nil, shared.NewStoreError("offered_json parse", err)
	}
	requested, err := shared.ParseResourceSet(model.RequestedJSON)
	if err != nil {
		return nil, shared.NewStoreError("requested_json parse", err)
	}
	return &trade.Offer{
		ID:            model.ID,
		FromNation:    model.FromNation,
		ToNation:      model.ToNation,
		Offered:       offered,
		Requested:     requested,
		OfferedCash:   model.OfferedCash,
		RequestedCash: model.RequestedCash,
		Status:        trade.OfferStatus(model.Status),
		TransportMode: trade.Mode(model.TransportMode),
		CreatedAt:     model.CreatedAt,
	}, nil
}

// GormTradeRecordRepository implements trade.RecordRepository
type GormTradeRecordRepository struct {
	db *gorm.DB
}

// NewGormTradeRecordRepository creates a new GORM trade-ledger repository
func NewGormTradeRecordRepository(db *gorm.DB) *GormTradeRecordRepository {
	return &GormTradeRecordRepository{db: db}
}

func (r *GormTradeRecordRepository) Create(ctx context.Context, record *trade.Record) error {
	model := &TradeRecordModel{
		ID:            record.ID,
		FromNation:    record.FromNation,
		ToNation:      record.ToNation,
		ResourcesJSON: record.Resources,
		CashExchanged: record.CashExchanged,
		TransportCost: record.TransportCost,
		Turn:          record.Turn,
		CreatedAt:     record.CreatedAt,
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return shared.NewStoreError("trade record insert", result.Error)
	}
	return nil
}

func (r *GormTradeRecordRepository) ListByNation(ctx context.Context, nationID string, limit int) ([]*trade.Record, error) {
	query := r.db.WithContext(ctx).
		Where("from_nation = ? OR to_nation = ?", nationID, nationID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []TradeRecordModel
	if result := query.Find(&models); result.Error != nil {
		return nil, shared.NewStoreError("trade record list", result.Error)
	}
	records := make([]*trade.Record, len(models))
	for i := range models {
		m := &models[i]
		records[i] = &trade.Record{
			ID:            m.ID,
			FromNation:    m.FromNation,
			ToNation:      m.ToNation,
			Resources:     m.ResourcesJSON,
			CashExchanged: m.CashExchanged,
			TransportCost: m.TransportCost,
			Turn:          m.Turn,
			CreatedAt:     m.CreatedAt,
		}
	}
	return records, nil
}

// GormResourceCatalog implements trade.ResourceCatalog over the resources
// table. Unregistered resources fall back to the default unit weight.
type GormResourceCatalog struct {
	db *gorm.DB
}

// NewGormResourceCatalog creates a new GORM resource catalog
func NewGormResourceCatalog(db *gorm.DB) *GormResourceCatalog {
	return &GormResourceCatalog{db: db}
}

func (r *GormResourceCatalog) Exists(ctx context.Context, resource shared.Resource) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&ResourceModel{}).
		Where("resource = ?", string(resource)).
		Count(&count)
	if result.Error != nil {
		return false, shared.NewStoreError("resource lookup", result.Error)
	}
	return count > 0, nil
}

func (r *GormResourceCatalog) WeightKg(ctx context.Context, resource shared.Resource) (float64, error) {
	var model ResourceModel
	result := r.db.WithContext(ctx).Where("resource = ?", string(resource)).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return trade.DefaultResourceWeightKg, nil
		}
		return 0, shared.NewStoreError("resource lookup", result.Error)
	}
	return model.WeightKg, nil
}
