package services

import (
	"math/rand"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bellapacxx/lottery-backend/models"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// GiftDistributor sweeps post-draw rewards to the creator and to
// participants who have played enough consecutive rounds, funded from a
// shared reserve that can never go negative. Recipient selection is
// deterministic given the round's winning numbers and the supplied entropy;
// it is NOT cryptographically unpredictable, since the winning numbers are
// already public at distribution time. Preserved as-is for compatibility.
type GiftDistributor struct {
	guard  *Guard
	db     *gorm.DB
	params Params

	ledger *TokenLedger
	engine *RoundEngine
	access *AccessControl
}

func NewGiftDistributor(guard *Guard, db *gorm.DB, params Params, ledger *TokenLedger, engine *RoundEngine, access *AccessControl) *GiftDistributor {
	return &GiftDistributor{
		guard:  guard,
		db:     db,
		params: params,
		ledger: ledger,
		engine: engine,
		access: access,
	}
}

// FundReserve lets anyone add tokens to the gift reserve.
func (g *GiftDistributor) FundReserve(from string, amount decimal.Decimal) error {
	g.guard.Enter()
	defer g.guard.Exit()

	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	src, err := g.ledger.accountLocked(from)
	if err != nil {
		return err
	}
	if src.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	reserve := g.ledger.getOrCreateLocked(GiftReserveAddress)
	g.ledger.moveLocked(src, reserve, amount, models.EntryReserveFund, models.EntryTransferIn)
	logger.Infof("[Gifts] reserve funded with %s by %s (now %s)", amount, from, reserve.Balance)
	return nil
}

// Reserve is the current reserve balance.
func (g *GiftDistributor) Reserve() decimal.Decimal {
	g.guard.Enter()
	defer g.guard.Exit()
	return g.ledger.balanceLocked(GiftReserveAddress)
}

// DistributionCost is the exact reserve balance one distribution consumes.
func (g *GiftDistributor) DistributionCost() decimal.Decimal {
	perUsers := g.params.GiftUserAmount.Mul(decimal.NewFromInt(int64(g.params.GiftRecipientsPerRound)))
	return g.params.GiftCreatorAmount.Add(perUsers)
}

// DistributeGifts pays the creator and up to RecipientsPerRound eligible
// participants of a drawn round. Distributor role only; runs at most once
// per round.
func (g *GiftDistributor) DistributeGifts(caller string, roundID uint64, entropy uint64) ([]string, error) {
	g.guard.Enter()
	defer g.guard.Exit()

	if err := g.access.Require(caller, RoleDistributor); err != nil {
		return nil, err
	}
	r, ok := g.engine.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	if !r.Drawn {
		return nil, ErrNumbersNotDrawn
	}
	if r.GiftsDistributed {
		return nil, ErrGiftsAlreadyDistributed
	}
	reserve := g.ledger.getOrCreateLocked(GiftReserveAddress)
	if reserve.Balance.LessThan(g.DistributionCost()) {
		return nil, ErrInsufficientReserve
	}

	recipients := g.selectRecipientsLocked(r, entropy)

	// All checks passed; commit atomically under the guard.
	r.GiftsDistributed = true
	g.engine.persistRoundLocked(r)

	creator := g.ledger.getOrCreateLocked(g.params.GiftCreator)
	g.ledger.moveLocked(reserve, creator, g.params.GiftCreatorAmount, models.EntryTransferOut, models.EntryGift)

	for _, addr := range recipients {
		acc := g.ledger.getOrCreateLocked(addr)
		g.ledger.moveLocked(reserve, acc, g.params.GiftUserAmount, models.EntryTransferOut, models.EntryGift)
		g.ledger.recordGiftLocked(addr, roundID)
	}

	logger.Infof("[Gifts] round %d: creator plus %d recipients paid, reserve now %s", roundID, len(recipients), reserve.Balance)
	return recipients, nil
}

// selectRecipientsLocked filters the round's participants (insertion order)
// down to gift-eligible ones, then, if too many, picks a pseudo-random
// subset seeded from the winning numbers and the caller-supplied entropy.
func (g *GiftDistributor) selectRecipientsLocked(r *models.Round, entropy uint64) []string {
	cooldown := g.params.GiftCooldownRounds()
	var eligible []string
	for _, addr := range r.Participants {
		acc, ok := g.ledger.accounts[addr]
		if !ok || !acc.GiftEligible || addr == g.params.GiftCreator {
			continue
		}
		// Rounds may be distributed out of order, so a later gift also
		// blocks earlier rounds (guards the uint64 subtraction too).
		if acc.LastGiftRound != 0 && (acc.LastGiftRound >= r.RoundID || r.RoundID-acc.LastGiftRound <= cooldown) {
			continue
		}
		eligible = append(eligible, addr)
	}
	if len(eligible) <= g.params.GiftRecipientsPerRound {
		return eligible
	}

	seed := int64(entropy)
	for _, n := range r.WinningNumbers {
		seed = seed*int64(MaxNumber) + int64(n)
	}
	rng := rand.New(rand.NewSource(seed))
	shuffled := append([]string(nil), eligible...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:g.params.GiftRecipientsPerRound]
}
