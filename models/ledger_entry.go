package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryMint        EntryType = "mint"
	EntryBurn        EntryType = "burn"
	EntryStake       EntryType = "stake"
	EntryUnstake     EntryType = "unstake"
	EntryTransferIn  EntryType = "transfer_in"
	EntryTransferOut EntryType = "transfer_out"
	EntryBet         EntryType = "bet"
	EntryPayout      EntryType = "payout"
	EntryGift        EntryType = "gift"
	EntryReserveFund EntryType = "reserve_fund"
	EntryWithdraw    EntryType = "withdraw"
)

// LedgerEntry is the audit trail row written for every balance movement.
type LedgerEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Address      string          `gorm:"index" json:"address"`
	Type         EntryType       `json:"type"`
	Amount       decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"balanceAfter"`
	CreatedAt    time.Time       `json:"createdAt"`
}
