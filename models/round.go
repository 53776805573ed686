package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Round statuses as reported to clients.
const (
	RoundOpen         = "open"
	RoundClosed       = "closed"
	RoundAwaitingDraw = "awaiting_draw"
	RoundDrawn        = "drawn"
)

// Round is one betting + draw cycle. Once Drawn it is immutable except for
// GiftsDistributed and the claimed flags on its bets.
type Round struct {
	RoundID          uint64          `gorm:"primaryKey" json:"roundId"`
	StartTime        time.Time       `json:"startTime"`
	EndTime          time.Time       `json:"endTime"`
	Drawn            bool            `json:"drawn"`
	WinningNumbers   []int           `gorm:"-" json:"winningNumbers"`
	NumbersJSON      datatypes.JSON  `json:"-"`
	TotalBetAmount   decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"totalBetAmount"`
	TotalPaidOut     decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"totalPaidOut"`
	Participants     []string        `gorm:"-" json:"participants"`
	ParticipantsJSON datatypes.JSON  `json:"-"`
	GiftsDistributed bool            `json:"giftsDistributed"`
	PendingRequestID uint64          `json:"pendingRequestId"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Status derives the lifecycle state from the stored fields.
func (r *Round) Status(now time.Time) string {
	switch {
	case r.Drawn:
		return RoundDrawn
	case r.PendingRequestID != 0:
		return RoundAwaitingDraw
	case now.Before(r.EndTime):
		return RoundOpen
	default:
		return RoundClosed
	}
}

// SyncJSON refreshes the DB JSON columns from the in-memory slices.
func (r *Round) SyncJSON() {
	if b, err := json.Marshal(r.WinningNumbers); err == nil {
		r.NumbersJSON = datatypes.JSON(b)
	}
	if b, err := json.Marshal(r.Participants); err == nil {
		r.ParticipantsJSON = datatypes.JSON(b)
	}
}
