package building

import (
	"fmt"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/stockpile"
)

// Status is the lifecycle state of a queued build.
// pending is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// PendingBuild is a queued construction. It transitions to completed/failed
// only inside the turn processor, and to cancelled only via an explicit
// cancel while still pending.
type PendingBuild struct {
	ID           int64
	NationID     string
	StateID      string
	BuildingID   string
	Tier         int
	StartedTurn  int
	CompleteTurn int
	Status       Status
	Reserved     []stockpile.ReservationRecord
}

// DueAt reports whether the build resolves on the given turn.
func (b *PendingBuild) DueAt(turn int) bool {
	return b.Status == StatusPending && b.CompleteTurn <= turn
}

// Complete transitions pending -> completed.
func (b *PendingBuild) Complete() error {
	return b.transition(StatusCompleted)
}

// Fail transitions pending -> failed.
func (b *PendingBuild) Fail() error {
	return b.transition(StatusFailed)
}

// Cancel transitions pending -> cancelled.
func (b *PendingBuild) Cancel() error {
	return b.transition(StatusCancelled)
}

func (b *PendingBuild) transition(to Status) error {
	if b.Status != StatusPending {
		return fmt.Errorf("build %d: cannot transition %s -> %s", b.ID, b.Status, to)
	}
	b.Status = to
	return nil
}

// Installed is one (province, building, tier) -> count row. Created or
// incremented when a pending build completes; removed on demolition with no
// refund.
type Installed struct {
	ID         int64
	ProvinceID string
	BuildingID string
	Tier       int
	Count      int
}
