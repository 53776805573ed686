package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one ledger account. Balance is the freely available amount;
// Staked is tracked separately so Balance + Staked is the account's total.
type Account struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	Address               string          `gorm:"uniqueIndex;not null" json:"address"`
	Balance               decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"balance"`
	Staked                decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"staked"`
	StakingStartedAt      time.Time       `json:"stakingStartedAt"`
	TotalBets             int64           `json:"totalBets"`
	TotalWinnings         decimal.Decimal `gorm:"type:numeric(38,18);not null;default:0" json:"totalWinnings"`
	ConsecutiveRounds     int             `json:"consecutiveRounds"`
	LastParticipatedRound uint64          `json:"lastParticipatedRound"`
	LastGiftRound         uint64          `json:"lastGiftRound"`
	GiftEligible          bool            `json:"giftEligible"`
	AuthorizedBurner      bool            `json:"authorizedBurner"`
	AuthorizedTransferor  bool            `json:"authorizedTransferor"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}
