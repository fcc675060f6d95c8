package trade

import (
	"fmt"
	"time"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// OfferStatus is the lifecycle state of a trade offer.
type OfferStatus string

const (
	OfferOpen      OfferStatus = "open"
	OfferCompleted OfferStatus = "completed"
	OfferCancelled OfferStatus = "cancelled"
	OfferFailed    OfferStatus = "failed"
)

// MaxOpenOffersPerNation caps concurrently open offers per originating
// nation (admission control).
const MaxOpenOffersPerNation = 3

// Offer is a direct nation-to-nation exchange proposal. OfferedCash is
// escrowed from the creator at creation time; every terminal transition
// except completed credits it back exactly once.
type Offer struct {
	ID            int64
	FromNation    string
	ToNation      string
	Offered       shared.ResourceSet
	Requested     shared.ResourceSet
	OfferedCash   float64
	RequestedCash float64
	Status        OfferStatus
	TransportMode Mode
	CreatedAt     time.Time
}

// AcceptableBy checks the offer is open and addressed to the accepter.
func (o *Offer) AcceptableBy(nationID string) error {
	if o.ToNation != nationID {
		return shared.NewUnauthorizedError("offer is not addressed to your nation")
	}
	if o.Status != OfferOpen {
		return shared.NewInvalidStateError(fmt.Sprintf("offer status is %s", o.Status))
	}
	return nil
}

// CancellableBy checks the offer is open and owned by the caller.
func (o *Offer) CancellableBy(nationID string) error {
	if o.FromNation != nationID {
		return shared.NewUnauthorizedError("you are not the creator of this offer")
	}
	if o.Status != OfferOpen {
		return shared.NewInvalidStateError(fmt.Sprintf("offer status is %s; only open offers can be cancelled", o.Status))
	}
	return nil
}

// MarketPost is a public standing order. Accepting it consumes the post and
// converts it into an Offer addressed to the poster.
type MarketPost struct {
	ID            int64
	PosterNation  string
	Resource      shared.Resource
	Quantity      float64
	PricePerUnit  float64
	IsSell        bool
	TransportMode Mode
	CreatedAt     time.Time
}

// TotalPrice is quantity x unit price.
func (p *MarketPost) TotalPrice() float64 {
	return p.PricePerUnit * p.Quantity
}

// Record is one settled trade, kept as an append-only ledger entry.
type Record struct {
	ID            string // uuid
	FromNation    string
	ToNation      string
	Resources     string // JSON snapshot of both legs
	CashExchanged float64
	TransportCost float64
	Turn          int
	CreatedAt     time.Time
}
