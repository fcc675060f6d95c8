package trade

import (
	"context"
	"fmt"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
)

// Service is the trade engine: public market posts and direct offers over
// one settlement primitive. OfferedCash moves into escrow the moment an
// offer opens and leaves it exactly once, through completion, cancellation
// or the failure refund.
type Service struct {
	repos   *common.Repos
	uow     common.UnitOfWork
	clock   shared.Clock
	metrics common.Metrics
}

// NewService creates a new trade engine service
func NewService(repos *common.Repos, uow common.UnitOfWork, clock shared.Clock, metrics common.Metrics) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if metrics == nil {
		metrics = common.NoOpMetrics{}
	}
	return &Service{repos: repos, uow: uow, clock: clock, metrics: metrics}
}

func normalizeMode(mode trade.Mode) (trade.Mode, error) {
	if mode == "" {
		return trade.ModeAuto, nil
	}
	if !mode.Valid() {
		return "", shared.NewInvalidStateError(fmt.Sprintf("unknown transport mode %q", mode))
	}
	return mode, nil
}

// PostMarketRequest opens a public standing order.
type PostMarketRequest struct {
	NationID     string
	Resource     shared.Resource
	Quantity     float64
	PricePerUnit float64
	IsSell       bool
	Mode         trade.Mode
}

// PostMarket validates the resource and, for sell posts, checks the
// nation-wide stock net of reservations before inserting the post.
func (s *Service) PostMarket(ctx context.Context, req PostMarketRequest) (*trade.MarketPost, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewInvalidStateError("quantity must be positive")
	}
	if req.PricePerUnit < 0 {
		return nil, shared.NewInvalidStateError("price must not be negative")
	}
	mode, err := normalizeMode(req.Mode)
	if err != nil {
		return nil, err
	}

	var post *trade.MarketPost
	err = s.uow.Do(ctx, func(r *common.Repos) error {
		exists, err := r.Resources.Exists(ctx, req.Resource)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewNotFoundError("resource", req.Resource.String())
		}
		if req.IsSell {
			available, err := r.Stockpiles.NationAvailable(ctx, req.NationID, req.Resource)
			if err != nil {
				return err
			}
			if available+shared.Epsilon < req.Quantity {
				return shared.NewInsufficientResourceError(req.Resource, req.Quantity-available)
			}
		}
		post = &trade.MarketPost{
			PosterNation:  req.NationID,
			Resource:      req.Resource,
			Quantity:      req.Quantity,
			PricePerUnit:  req.PricePerUnit,
			IsSell:        req.IsSell,
			TransportMode: mode,
			CreatedAt:     s.clock.Now(),
		}
		return r.MarketPosts.Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ListMarketPosts returns open posts, newest first, optionally filtered by
// resource.
func (s *Service) ListMarketPosts(ctx context.Context, resource shared.Resource, limit int) ([]*trade.MarketPost, error) {
	return s.repos.MarketPosts.List(ctx, resource, limit)
}

// CancelMarketPost removes a post; only the poster may do so.
func (s *Service) CancelMarketPost(ctx context.Context, nationID string, postID int64) error {
	return s.uow.Do(ctx, func(r *common.Repos) error {
		post, err := r.MarketPosts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.PosterNation != nationID {
			return shared.NewUnauthorizedError("you are not the poster of this market post")
		}
		return r.MarketPosts.Delete(ctx, postID)
	})
}

// AcceptMarketPost escrows price x quantity from the buyer and converts the
// post into an open offer addressed to the poster. The post is consumed;
// the poster settles or the buyer cancels for a refund.
func (s *Service) AcceptMarketPost(ctx context.Context, buyerID string, postID int64) (*trade.Offer, error) {
	var offer *trade.Offer
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		post, err := r.MarketPosts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.PosterNation == buyerID {
			return shared.NewInvalidStateError("cannot accept your own market post")
		}
		buyer, err := r.Nations.FindByID(ctx, buyerID)
		if err != nil {
			return err
		}
		total := post.TotalPrice()
		if !buyer.CanAfford(total) {
			return shared.NewInsufficientCashError(total - buyer.Cash)
		}
		if err := r.Nations.Debit(ctx, buyerID, total); err != nil {
			return err
		}

		offer = &trade.Offer{
			FromNation:    buyerID,
			ToNation:      post.PosterNation,
			Offered:       shared.ResourceSet{},
			Requested:     shared.ResourceSet{post.Resource: post.Quantity},
			OfferedCash:   total,
			Status:        trade.OfferOpen,
			TransportMode: post.TransportMode,
			CreatedAt:     s.clock.Now(),
		}
		if err := r.Offers.Create(ctx, offer); err != nil {
			return err
		}
		return r.MarketPosts.Delete(ctx, postID)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// CreateOfferRequest proposes a direct exchange to another nation.
type CreateOfferRequest struct {
	FromNation    string
	ToNation      string
	Offered       shared.ResourceSet
	Requested     shared.ResourceSet
	OfferedCash   float64
	RequestedCash float64
	Mode          trade.Mode
}

// CreateOffer enforces the open-offer admission cap, escrows the offered
// cash and opens the offer.
func (s *Service) CreateOffer(ctx context.Context, req CreateOfferRequest) (*trade.Offer, error) {
	if req.FromNation == req.ToNation {
		return nil, shared.NewInvalidStateError("cannot open an offer to yourself")
	}
	if req.OfferedCash < 0 || req.RequestedCash < 0 {
		return nil, shared.NewInvalidStateError("cash amounts must not be negative")
	}
	if req.Offered.IsEmpty() && req.Requested.IsEmpty() && req.OfferedCash == 0 && req.RequestedCash == 0 {
		return nil, shared.NewInvalidStateError("offer must exchange something")
	}
	mode, err := normalizeMode(req.Mode)
	if err != nil {
		return nil, err
	}

	var offer *trade.Offer
	err = s.uow.Do(ctx, func(r *common.Repos) error {
		if _, err := r.Nations.FindByID(ctx, req.ToNation); err != nil {
			return err
		}
		creator, err := r.Nations.FindByID(ctx, req.FromNation)
		if err != nil {
			return err
		}

		open, err := r.Offers.CountOpenByCreator(ctx, req.FromNation)
		if err != nil {
			return err
		}
		if open >= trade.MaxOpenOffersPerNation {
			return shared.NewAdmissionLimitError(trade.MaxOpenOffersPerNation, open)
		}

		if req.OfferedCash > 0 {
			if !creator.CanAfford(req.OfferedCash) {
				return shared.NewInsufficientCashError(req.OfferedCash - creator.Cash)
			}
			if err := r.Nations.Debit(ctx, req.FromNation, req.OfferedCash); err != nil {
				return err
			}
		}

		offer = &trade.Offer{
			FromNation:    req.FromNation,
			ToNation:      req.ToNation,
			Offered:       req.Offered,
			Requested:     req.Requested,
			OfferedCash:   req.OfferedCash,
			RequestedCash: req.RequestedCash,
			Status:        trade.OfferOpen,
			TransportMode: mode,
			CreatedAt:     s.clock.Now(),
		}
		return r.Offers.Create(ctx, offer)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// CancelOffer refunds the escrowed cash to the creator and marks the offer
// cancelled. Creator only, open only.
func (s *Service) CancelOffer(ctx context.Context, nationID string, offerID int64) error {
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		offer, err := r.Offers.FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		if err := offer.CancellableBy(nationID); err != nil {
			return err
		}
		if offer.OfferedCash > 0 {
			if err := r.Nations.Credit(ctx, offer.FromNation, offer.OfferedCash); err != nil {
				return err
			}
		}
		offer.Status = trade.OfferCancelled
		return r.Offers.UpdateStatus(ctx, offer)
	})
	if err == nil {
		s.metrics.EscrowRefunded()
	}
	return err
}

// ListOffers returns offers the nation created or received, newest first.
func (s *Service) ListOffers(ctx context.Context, nationID string, limit int) ([]*trade.Offer, error) {
	return s.repos.Offers.ListByNation(ctx, nationID, limit)
}

// ListTrades returns the nation's settled-trade ledger entries, newest
// first.
func (s *Service) ListTrades(ctx context.Context, nationID string, limit int) ([]*trade.Record, error) {
	return s.repos.TradeRecords.ListByNation(ctx, nationID, limit)
}
