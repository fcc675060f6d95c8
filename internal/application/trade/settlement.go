package trade

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
)

// AcceptOffer settles an open offer addressed to the accepter. Validation
// and transfer run in one transaction: the offer is loaded and its open
// status checked inside that transaction, so a cancellation landing just
// before acceptance rolls the settlement back instead of double-spending
// the escrow. If the transfer fails after validation, a separate
// compensating transaction refunds the escrowed cash to the creator and
// marks the offer failed. The refund happens exactly once: the failed
// status is what makes a second settlement attempt impossible.
func (s *Service) AcceptOffer(ctx context.Context, accepterID string, offerID int64) (*trade.Record, error) {
	var offer *trade.Offer
	var record *trade.Record
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		found, err := r.Offers.FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		if err := found.AcceptableBy(accepterID); err != nil {
			return err
		}
		offer = found
		var settleErr error
		record, settleErr = s.settle(ctx, r, found, accepterID)
		return settleErr
	})
	if err != nil {
		// offer is nil when validation itself rejected the accept; the
		// offer stays open and escrowed in that case.
		if offer != nil {
			s.failOffer(ctx, offer, err)
		}
		return nil, err
	}
	s.metrics.TradeSettled()
	return record, nil
}

func (s *Service) settle(ctx context.Context, r *common.Repos, offer *trade.Offer, accepterID string) (*trade.Record, error) {
	cost, err := transportCost(ctx, r, offer.FromNation, offer.ToNation, offer.Offered, offer.Requested, offer.TransportMode)
	if err != nil {
		return nil, err
	}

	// Goods move first; either leg short-falling aborts the transfer.
	if err := deductNationWide(ctx, r, accepterID, offer.Requested); err != nil {
		return nil, err
	}
	if err := deductNationWide(ctx, r, offer.FromNation, offer.Offered); err != nil {
		return nil, err
	}
	if err := depositAtStrongest(ctx, r, offer.FromNation, offer.Requested); err != nil {
		return nil, err
	}
	if err := depositAtStrongest(ctx, r, accepterID, offer.Offered); err != nil {
		return nil, err
	}

	if offer.RequestedCash > 0 {
		accepter, err := r.Nations.FindByID(ctx, accepterID)
		if err != nil {
			return nil, err
		}
		if !accepter.CanAfford(offer.RequestedCash) {
			return nil, shared.NewInsufficientCashError(offer.RequestedCash - accepter.Cash)
		}
		if err := r.Nations.Debit(ctx, accepterID, offer.RequestedCash); err != nil {
			return nil, err
		}
		if err := r.Nations.Credit(ctx, offer.FromNation, offer.RequestedCash); err != nil {
			return nil, err
		}
	}

	// The accepter receives the escrowed cash net of transport; transport
	// can eat the whole payment but never goes below zero.
	payout := offer.OfferedCash - cost.Total
	if payout < 0 {
		payout = 0
	}
	if payout > 0 {
		if err := r.Nations.Credit(ctx, accepterID, payout); err != nil {
			return nil, err
		}
	}

	turn, err := r.Turns.CurrentTurn(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := json.Marshal(map[string]map[string]float64{
		"offered":   resourceSetToMap(offer.Offered),
		"requested": resourceSetToMap(offer.Requested),
	})
	if err != nil {
		return nil, shared.NewStoreError("trade snapshot encode", err)
	}
	record := &trade.Record{
		ID:            uuid.NewString(),
		FromNation:    offer.FromNation,
		ToNation:      offer.ToNation,
		Resources:     string(snapshot),
		CashExchanged: offer.OfferedCash + offer.RequestedCash,
		TransportCost: cost.Total,
		Turn:          turn,
		CreatedAt:     s.clock.Now(),
	}
	if err := r.TradeRecords.Create(ctx, record); err != nil {
		return nil, err
	}

	offer.Status = trade.OfferCompleted
	if err := r.Offers.UpdateStatus(ctx, offer); err != nil {
		return nil, err
	}
	return record, nil
}

// failOffer is the mandatory compensation path: refund the escrow to the
// creator and mark the offer failed, in its own transaction.
func (s *Service) failOffer(ctx context.Context, offer *trade.Offer, cause error) {
	logger := common.LoggerFromContext(ctx)
	err := s.uow.Do(ctx, func(r *common.Repos) error {
		current, err := r.Offers.FindByID(ctx, offer.ID)
		if err != nil {
			return err
		}
		if current.Status != trade.OfferOpen {
			return nil
		}
		if current.OfferedCash > 0 {
			if err := r.Nations.Credit(ctx, current.FromNation, current.OfferedCash); err != nil {
				return err
			}
		}
		current.Status = trade.OfferFailed
		return r.Offers.UpdateStatus(ctx, current)
	})
	if err != nil {
		logger.Log("ERROR", "offer failure compensation did not apply", map[string]interface{}{
			"offer_id": offer.ID,
			"cause":    cause.Error(),
			"error":    err.Error(),
		})
		return
	}
	s.metrics.TradeFailed()
	s.metrics.EscrowRefunded()
}

// deductNationWide removes the set from the nation's stockpiles in province
// priority order, erroring on any shortfall.
func deductNationWide(ctx context.Context, r *common.Repos, nationID string, resources shared.ResourceSet) error {
	if resources.IsEmpty() {
		return nil
	}
	provinces, err := r.Provinces.ListByController(ctx, nationID)
	if err != nil {
		return err
	}
	for _, resource := range resources.Resources() {
		remaining := resources[resource]
		for _, province := range provinces {
			if remaining <= shared.Epsilon {
				break
			}
			available, err := r.Stockpiles.Available(ctx, province.ID, resource)
			if err != nil {
				return err
			}
			take := remaining
			if available < take {
				take = available
			}
			if take <= shared.Epsilon {
				continue
			}
			ok, err := r.Stockpiles.RemoveDirect(ctx, province.ID, resource, take)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			remaining -= take
		}
		if remaining > shared.Epsilon {
			return shared.NewInsufficientResourceError(resource, remaining)
		}
	}
	return nil
}

// depositAtStrongest credits the set to the nation's highest-priority
// province, clamped to capacity. Inbound trade creates missing rows with
// the large receiving capacity. A nation with no provinces forfeits the
// shipment.
func depositAtStrongest(ctx context.Context, r *common.Repos, nationID string, resources shared.ResourceSet) error {
	if resources.IsEmpty() {
		return nil
	}
	strongest, err := r.Provinces.StrongestByController(ctx, nationID)
	if err != nil {
		return err
	}
	if strongest == nil {
		return nil
	}
	for _, resource := range resources.Resources() {
		if err := r.Stockpiles.AddWithCapacity(ctx, strongest.ID, resource, resources[resource], stockpile.DefaultTradeCapacity); err != nil {
			return err
		}
	}
	return nil
}

// CostEstimate breaks a transport quote into its factors.
type CostEstimate struct {
	WeightKg   float64
	DistanceKm float64
	Mode       trade.Mode
	Total      float64
}

func transportCost(ctx context.Context, r *common.Repos, fromNation, toNation string, offered, requested shared.ResourceSet, mode trade.Mode) (CostEstimate, error) {
	weights := map[shared.Resource]float64{}
	for resource := range offered.Merge(requested) {
		w, err := r.Resources.WeightKg(ctx, resource)
		if err != nil {
			return CostEstimate{}, err
		}
		weights[resource] = w
	}
	weight := trade.ShipmentWeight(offered, requested, func(res shared.Resource) float64 {
		if w, ok := weights[res]; ok {
			return w
		}
		return trade.DefaultResourceWeightKg
	})

	distance, err := nationDistance(ctx, r, fromNation, toNation)
	if err != nil {
		return CostEstimate{}, err
	}

	return CostEstimate{
		WeightKg:   weight,
		DistanceKm: distance,
		Mode:       mode,
		Total:      trade.TransportCost(weight, distance, mode),
	}, nil
}

// nationDistance is the straight-line distance between each nation's
// highest-priority province; zero when either nation holds no provinces.
func nationDistance(ctx context.Context, r *common.Repos, fromNation, toNation string) (float64, error) {
	from, err := r.Provinces.StrongestByController(ctx, fromNation)
	if err != nil {
		return 0, err
	}
	to, err := r.Provinces.StrongestByController(ctx, toNation)
	if err != nil {
		return 0, err
	}
	if from == nil || to == nil {
		return 0, nil
	}
	return trade.Distance(from.X, from.Y, to.X, to.Y), nil
}

// EstimateTransportCost quotes a shipment without touching any state.
func (s *Service) EstimateTransportCost(ctx context.Context, fromNation, toNation string, offered, requested shared.ResourceSet, mode trade.Mode) (CostEstimate, error) {
	normalized, err := normalizeMode(mode)
	if err != nil {
		return CostEstimate{}, err
	}
	return transportCost(ctx, s.repos, fromNation, toNation, offered, requested, normalized)
}

func resourceSetToMap(set shared.ResourceSet) map[string]float64 {
	out := make(map[string]float64, len(set))
	for resource, amount := range set {
		out[resource.String()] = amount
	}
	return out
}
