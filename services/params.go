package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reserved ledger addresses. The treasury holds bet stakes until they are
// claimed; the reserve backs gift distributions.
const (
	TreasuryAddress    = "treasury"
	GiftReserveAddress = "gift-reserve"
)

// NumWinningNumbers per draw; numbers are picked from [1,MaxNumber].
const (
	NumWinningNumbers = 5
	MaxNumber         = 49
)

// Params holds every engine tunable. Amounts are whole-token decimals
// (tokens carry 18 fractional digits end to end).
type Params struct {
	MinStake         decimal.Decimal
	MaxStakePerUser  decimal.Decimal
	MinStakeDuration time.Duration

	RoundDuration         time.Duration
	MinBet                decimal.Decimal
	MaxBetPerUserPerRound decimal.Decimal
	MinStakeAmount        decimal.Decimal // staking-weight threshold to bet
	HouseEdgeBps          int64
	MaxPayoutPerRound     decimal.Decimal
	EmergencyDrawGrace    time.Duration

	ConsecutivePlayRequirement int
	GiftCooldown               time.Duration
	GiftRecipientsPerRound     int
	GiftCreatorAmount          decimal.Decimal
	GiftUserAmount             decimal.Decimal
	GiftCreator                string

	TimelockDelay time.Duration
}

// Tokens builds a whole-token amount.
func Tokens(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func DefaultParams() Params {
	return Params{
		MinStake:         Tokens(10),
		MaxStakePerUser:  Tokens(1_000_000),
		MinStakeDuration: 24 * time.Hour,

		RoundDuration:         24 * time.Hour,
		MinBet:                Tokens(1),
		MaxBetPerUserPerRound: Tokens(1000),
		MinStakeAmount:        Tokens(10),
		HouseEdgeBps:          500,
		MaxPayoutPerRound:     Tokens(1_000_000),
		EmergencyDrawGrace:    time.Hour,

		ConsecutivePlayRequirement: 3,
		GiftCooldown:               7 * 24 * time.Hour,
		GiftRecipientsPerRound:     10,
		GiftCreatorAmount:          Tokens(100),
		GiftUserAmount:             Tokens(10),
		GiftCreator:                "creator",

		TimelockDelay: 24 * time.Hour,
	}
}

// GiftCooldownRounds converts the gift cooldown into whole rounds.
func (p Params) GiftCooldownRounds() uint64 {
	if p.RoundDuration <= 0 {
		return 0
	}
	return uint64(p.GiftCooldown / p.RoundDuration)
}
