package stockpile

import (
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
)

// DefaultCapacity is assigned when a stockpile row is created lazily by a
// production or deposit path.
const DefaultCapacity = 1000.0

// DefaultTradeCapacity is assigned when an inbound trade shipment creates
// the receiving row; trade deposits get far more headroom than production.
const DefaultTradeCapacity = 100000.0

// Entry is one (province, resource) ledger row.
//
// Invariant: 0 <= Amount, and Amount <= Capacity whenever the row is capped.
// Capacity <= 0 means the row is uncapped; that convention is applied
// uniformly (legacy data used zero capacity both ways, this codebase picks
// one reading).
type Entry struct {
	ProvinceID string
	Resource   shared.Resource
	Amount     float64
	Capacity   float64
}

// Uncapped reports whether the entry has no storage ceiling.
func (e *Entry) Uncapped() bool {
	return e.Capacity <= 0
}

// Space returns how much more the entry can hold. Uncapped entries report
// the requested amount as available space via ClampDeposit instead.
func (e *Entry) Space() float64 {
	if e.Uncapped() {
		return 0
	}
	space := e.Capacity - e.Amount
	if space < 0 {
		return 0
	}
	return space
}

// ClampDeposit returns how much of amount actually fits.
func (e *Entry) ClampDeposit(amount float64) float64 {
	if e.Uncapped() {
		return amount
	}
	if space := e.Space(); amount > space {
		return space
	}
	return amount
}

// Reservation is a provisional, not-yet-spent claim against a province
// stockpile, owned by exactly one in-flight build/recruit/offer transaction.
// It is not a deduction: stock only moves when the reservation is consumed.
//
// Invariant: for every (province, resource),
// sum(reservations) <= stockpile amount.
type Reservation struct {
	ID         int64
	BuildID    int64
	ProvinceID string
	Resource   shared.Resource
	Amount     float64
}

// ReservationRecord is the compact form persisted on the owning build row
// (reserved_json), kept for turn-time consumption and display.
type ReservationRecord struct {
	ProvinceID string  `json:"province_id"`
	Resource   string  `json:"resource"`
	Amount     float64 `json:"amount"`
}
