package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Bet is one user's numbers and amount in a specific round. Index is the
// bet's position within its round; bets are never deleted.
type Bet struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	RoundID     uint64          `gorm:"index:idx_round_bet" json:"roundId"`
	Index       int             `gorm:"index:idx_round_bet" json:"index"`
	Bettor      string          `gorm:"index" json:"bettor"`
	Numbers     []int           `gorm:"-" json:"numbers"`
	NumbersJSON datatypes.JSON  `json:"-"`
	Amount      decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"amount"`
	PlacedAt    time.Time       `json:"placedAt"`
	MatchCount  int             `json:"matchCount"`
	Claimed     bool            `json:"claimed"`
}

func (b *Bet) SyncJSON() {
	if raw, err := json.Marshal(b.Numbers); err == nil {
		b.NumbersJSON = datatypes.JSON(raw)
	}
}
