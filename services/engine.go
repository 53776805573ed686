package services

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bellapacxx/lottery-backend/models"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// Payout multipliers by match count. Anything below 2 matches pays nothing
// and is not claimable.
var payoutMultipliers = map[int]int64{
	5: 800,
	4: 80,
	3: 8,
	2: 2,
}

// RoundEngine owns the round lifecycle: open -> closed -> awaiting draw ->
// drawn, with a fresh round opened the moment the current one is drawn. It
// references accounts read-only for eligibility and moves value only through
// the TokenLedger.
type RoundEngine struct {
	guard  *Guard
	db     *gorm.DB
	now    func() time.Time
	params Params

	ledger  *TokenLedger
	gateway *RandomnessGateway
	access  *AccessControl
	hub     *Hub

	rounds         map[uint64]*models.Round
	betsByRound    map[uint64][]*models.Bet
	currentRoundID uint64

	maxPayoutPerRound decimal.Decimal
	paused            bool
}

func NewRoundEngine(guard *Guard, db *gorm.DB, params Params, ledger *TokenLedger, gateway *RandomnessGateway, access *AccessControl, hub *Hub, now func() time.Time) *RoundEngine {
	e := &RoundEngine{
		guard:             guard,
		db:                db,
		now:               now,
		params:            params,
		ledger:            ledger,
		gateway:           gateway,
		access:            access,
		hub:               hub,
		rounds:            make(map[uint64]*models.Round),
		betsByRound:       make(map[uint64][]*models.Bet),
		maxPayoutPerRound: params.MaxPayoutPerRound,
	}
	gateway.SetHandler(e.handleRandomness)

	guard.Enter()
	e.openRoundLocked()
	guard.Exit()
	return e
}

// openRoundLocked starts the next round at the current time.
func (e *RoundEngine) openRoundLocked() {
	now := e.now()
	r := &models.Round{
		RoundID:        e.currentRoundID + 1,
		StartTime:      now,
		EndTime:        now.Add(e.params.RoundDuration),
		TotalBetAmount: decimal.Zero,
		TotalPaidOut:   decimal.Zero,
		CreatedAt:      now,
	}
	e.rounds[r.RoundID] = r
	e.betsByRound[r.RoundID] = nil
	e.currentRoundID = r.RoundID
	e.persistRoundLocked(r)
	logger.Infof("[Engine] round %d opened, ends %s", r.RoundID, r.EndTime.Format(time.RFC3339))
}

func (e *RoundEngine) persistRoundLocked(r *models.Round) {
	r.SyncJSON()
	r.UpdatedAt = e.now()
	if e.db != nil {
		_ = e.db.Save(r).Error
	}
}

func (e *RoundEngine) persistBetLocked(b *models.Bet) {
	b.SyncJSON()
	if e.db != nil {
		_ = e.db.Save(b).Error
	}
}

// validateNumbers enforces the canonical encoding shared by bets, emergency
// draws and draw generation: exactly 5 values in [1,49], strictly ascending.
// Unsorted or duplicate input is rejected, not normalized.
func validateNumbers(numbers []int) error {
	if len(numbers) != NumWinningNumbers {
		return ErrInvalidNumbers
	}
	prev := 0
	for _, n := range numbers {
		if n < 1 || n > MaxNumber || n <= prev {
			return ErrInvalidNumbers
		}
		prev = n
	}
	return nil
}

// -------------------- betting --------------------

// PlaceBet records a bet on the current round. Validation happens before any
// balance moves, so a failed bet leaves every ledger untouched.
func (e *RoundEngine) PlaceBet(bettor string, numbers []int, amount decimal.Decimal) (*models.Bet, error) {
	e.guard.Enter()
	defer e.guard.Exit()

	if e.paused {
		return nil, ErrPaused
	}
	r := e.rounds[e.currentRoundID]
	now := e.now()
	if r.Drawn || r.PendingRequestID != 0 || !now.Before(r.EndTime) {
		return nil, ErrRoundClosed
	}
	if err := validateNumbers(numbers); err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if amount.LessThan(e.params.MinBet) {
		return nil, ErrBelowMinimumBet
	}

	cumulative := amount
	for _, b := range e.betsByRound[r.RoundID] {
		if b.Bettor == bettor {
			cumulative = cumulative.Add(b.Amount)
		}
	}
	if cumulative.GreaterThan(e.params.MaxBetPerUserPerRound) {
		return nil, ErrExceedsMaximumBet
	}

	if e.ledger.stakingWeightLocked(bettor).LessThan(e.params.MinStakeAmount) {
		return nil, ErrNotEligible
	}
	acc, err := e.ledger.accountLocked(bettor)
	if err != nil {
		return nil, err
	}
	if acc.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	// All checks passed; commit.
	treasury := e.ledger.getOrCreateLocked(TreasuryAddress)
	e.ledger.moveLocked(acc, treasury, amount, models.EntryBet, models.EntryTransferIn)

	bet := &models.Bet{
		RoundID:  r.RoundID,
		Index:    len(e.betsByRound[r.RoundID]),
		Bettor:   bettor,
		Numbers:  append([]int(nil), numbers...),
		Amount:   amount,
		PlacedAt: now,
	}
	e.betsByRound[r.RoundID] = append(e.betsByRound[r.RoundID], bet)
	e.persistBetLocked(bet)

	r.TotalBetAmount = r.TotalBetAmount.Add(amount)
	if acc.LastParticipatedRound != r.RoundID {
		r.Participants = append(r.Participants, bettor)
	}
	e.ledger.recordParticipationLocked(bettor, r.RoundID)
	e.persistRoundLocked(r)

	logger.Infof("[Engine] round %d bet #%d by %s: %v for %s", r.RoundID, bet.Index, bettor, numbers, amount)
	e.broadcastLocked()

	// The clock may have crossed the deadline while this call ran.
	if !e.now().Before(r.EndTime) {
		_ = e.endRoundLocked(r)
	}
	return bet, nil
}

// -------------------- round lifecycle --------------------

// EndRound closes the current round and requests randomness for the draw.
// Callable by anyone once the deadline has passed.
func (e *RoundEngine) EndRound() error {
	e.guard.Enter()
	defer e.guard.Exit()
	return e.endRoundLocked(e.rounds[e.currentRoundID])
}

func (e *RoundEngine) endRoundLocked(r *models.Round) error {
	if r.Drawn {
		return ErrAlreadyDrawn
	}
	if r.PendingRequestID != 0 {
		return ErrDrawAlreadyRequested
	}
	if e.now().Before(r.EndTime) {
		return ErrRoundNotEnded
	}
	r.PendingRequestID = e.gateway.requestLocked(r.RoundID, NumWinningNumbers)
	e.persistRoundLocked(r)
	e.broadcastLocked()
	return nil
}

// handleRandomness is the gateway's draw callback, invoked under the shared
// guard with the request already consumed.
func (e *RoundEngine) handleRandomness(requestID, roundID uint64, values []uint64) error {
	r, ok := e.rounds[roundID]
	if !ok {
		return ErrRoundNotFound
	}
	if r.Drawn {
		// An emergency draw won the race; the request stays consumed.
		return ErrAlreadyDrawn
	}
	if r.PendingRequestID != requestID {
		return ErrInvalidRequest
	}
	e.applyDrawLocked(r, winningNumbersFrom(values))
	return nil
}

// EmergencyDraw is the operator escape hatch for a round whose oracle
// callback never arrived, usable once the grace window past round end has
// elapsed.
func (e *RoundEngine) EmergencyDraw(caller string, roundID uint64, numbers []int) error {
	e.guard.Enter()
	defer e.guard.Exit()

	if err := e.access.Require(caller, RoleOperator); err != nil {
		return err
	}
	r, ok := e.rounds[roundID]
	if !ok {
		return ErrRoundNotFound
	}
	if r.Drawn {
		return ErrAlreadyDrawn
	}
	if e.now().Before(r.EndTime.Add(e.params.EmergencyDrawGrace)) {
		return ErrGracePeriodActive
	}
	if err := validateNumbers(numbers); err != nil {
		return err
	}
	logger.Infof("[Engine] emergency draw for round %d by %s", roundID, caller)
	e.applyDrawLocked(r, append([]int(nil), numbers...))
	return nil
}

// applyDrawLocked finalizes a round: stores the winning numbers, fixes every
// bet's match count and opens the next round if the drawn one was current.
func (e *RoundEngine) applyDrawLocked(r *models.Round, numbers []int) {
	r.WinningNumbers = numbers
	r.Drawn = true
	r.PendingRequestID = 0

	for _, b := range e.betsByRound[r.RoundID] {
		b.MatchCount = matchCount(b.Numbers, numbers)
		e.persistBetLocked(b)
	}
	e.persistRoundLocked(r)
	logger.Infof("[Engine] round %d drawn: %v (%d bets)", r.RoundID, numbers, len(e.betsByRound[r.RoundID]))

	if r.RoundID == e.currentRoundID {
		e.openRoundLocked()
	}
	e.broadcastLocked()
}

// winningNumbersFrom reduces the delivered random values to 5 distinct
// numbers in [1,49]: value mod 49 + 1, re-hashed until the collision clears,
// then sorted ascending.
func winningNumbersFrom(values []uint64) []int {
	picked := make(map[int]bool, NumWinningNumbers)
	numbers := make([]int, 0, NumWinningNumbers)
	for _, v := range values {
		n := int(v%MaxNumber) + 1
		for picked[n] {
			v = rehash(v)
			n = int(v%MaxNumber) + 1
		}
		picked[n] = true
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

func rehash(v uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	sum := sha256.Sum256(buf[:])
	return binary.BigEndian.Uint64(sum[:8])
}

func matchCount(bet, winning []int) int {
	set := make(map[int]bool, len(winning))
	for _, n := range winning {
		set[n] = true
	}
	count := 0
	for _, n := range bet {
		if set[n] {
			count++
		}
	}
	return count
}

// -------------------- claiming --------------------

// payoutFor applies the match multiplier and house edge to a bet amount.
func (e *RoundEngine) payoutFor(b *models.Bet) decimal.Decimal {
	mult, ok := payoutMultipliers[b.MatchCount]
	if !ok {
		return decimal.Zero
	}
	return b.Amount.
		Mul(decimal.NewFromInt(mult)).
		Mul(decimal.NewFromInt(10000 - e.params.HouseEdgeBps)).
		Div(decimal.NewFromInt(10000))
}

// ClaimWinnings settles the caller's winning bets in a drawn round. Indices
// not owned by the caller and bets below 2 matches are skipped; a bet can be
// claimed at most once. The per-round payout cap is enforced at claim time
// over everything already paid plus this claim, so early claimants can
// succeed where later ones fail.
func (e *RoundEngine) ClaimWinnings(caller string, roundID uint64, betIndices []int) (decimal.Decimal, error) {
	e.guard.Enter()
	defer e.guard.Exit()

	if e.paused {
		return decimal.Zero, ErrPaused
	}
	r, ok := e.rounds[roundID]
	if !ok {
		return decimal.Zero, ErrRoundNotFound
	}
	if !r.Drawn {
		return decimal.Zero, ErrNumbersNotDrawn
	}

	bets := e.betsByRound[roundID]
	total := decimal.Zero
	var toClaim []*models.Bet
	seen := make(map[int]bool)

	for _, idx := range betIndices {
		if idx < 0 || idx >= len(bets) {
			continue
		}
		b := bets[idx]
		if b.Bettor != caller {
			continue
		}
		if b.Claimed || seen[idx] {
			return decimal.Zero, ErrAlreadyClaimed
		}
		if b.MatchCount < 2 {
			continue
		}
		seen[idx] = true
		toClaim = append(toClaim, b)
		total = total.Add(e.payoutFor(b))
	}
	if total.Sign() == 0 {
		return decimal.Zero, ErrNoWinnings
	}

	// Global per-round cap across everything already claimed plus this call.
	committed := total
	for _, b := range bets {
		if b.Claimed && b.MatchCount >= 2 {
			committed = committed.Add(e.payoutFor(b))
		}
	}
	if committed.GreaterThan(e.maxPayoutPerRound) {
		return decimal.Zero, ErrPayoutExceedsMaximum
	}

	treasury := e.ledger.getOrCreateLocked(TreasuryAddress)
	if treasury.Balance.LessThan(total) {
		return decimal.Zero, ErrInsufficientBalance
	}
	acc, err := e.ledger.accountLocked(caller)
	if err != nil {
		return decimal.Zero, err
	}

	// All checks passed; commit.
	for _, b := range toClaim {
		b.Claimed = true
		e.persistBetLocked(b)
	}
	r.TotalPaidOut = r.TotalPaidOut.Add(total)
	e.persistRoundLocked(r)
	e.ledger.moveLocked(treasury, acc, total, models.EntryTransferOut, models.EntryPayout)
	e.ledger.addWinningsLocked(caller, total)

	logger.Infof("[Engine] round %d: %s claimed %s across %d bets", roundID, caller, total, len(toClaim))
	e.broadcastLocked()
	return total, nil
}

// ClaimableWinnings is the pure computed view of what (round, account) could
// claim right now. Nothing is stored.
func (e *RoundEngine) ClaimableWinnings(roundID uint64, address string) decimal.Decimal {
	e.guard.Enter()
	defer e.guard.Exit()

	r, ok := e.rounds[roundID]
	if !ok || !r.Drawn {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, b := range e.betsByRound[roundID] {
		if b.Bettor == address && !b.Claimed && b.MatchCount >= 2 {
			total = total.Add(e.payoutFor(b))
		}
	}
	return total
}

// -------------------- views --------------------

func (e *RoundEngine) CurrentRoundID() uint64 {
	e.guard.Enter()
	defer e.guard.Exit()
	return e.currentRoundID
}

// Round returns a point-in-time copy of a round.
func (e *RoundEngine) Round(roundID uint64) (*models.Round, error) {
	e.guard.Enter()
	defer e.guard.Exit()
	return e.roundSnapshotLocked(roundID)
}

func (e *RoundEngine) roundSnapshotLocked(roundID uint64) (*models.Round, error) {
	r, ok := e.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *r
	cp.WinningNumbers = append([]int(nil), r.WinningNumbers...)
	cp.Participants = append([]string(nil), r.Participants...)
	return &cp, nil
}

// CurrentRound returns a copy of the round currently accepting bets.
func (e *RoundEngine) CurrentRound() *models.Round {
	e.guard.Enter()
	defer e.guard.Exit()
	cp, _ := e.roundSnapshotLocked(e.currentRoundID)
	return cp
}

// Bets returns point-in-time copies of a round's bets in placement order.
func (e *RoundEngine) Bets(roundID uint64) ([]*models.Bet, error) {
	e.guard.Enter()
	defer e.guard.Exit()

	if _, ok := e.rounds[roundID]; !ok {
		return nil, ErrRoundNotFound
	}
	bets := e.betsByRound[roundID]
	out := make([]*models.Bet, len(bets))
	for i, b := range bets {
		cp := *b
		cp.Numbers = append([]int(nil), b.Numbers...)
		out[i] = &cp
	}
	return out, nil
}

func (e *RoundEngine) Paused() bool {
	e.guard.Enter()
	defer e.guard.Exit()
	return e.paused
}

// setPausedLocked and setMaxPayoutLocked are the admin gateway's hooks.
func (e *RoundEngine) setPausedLocked(on bool) { e.paused = on }

func (e *RoundEngine) setMaxPayoutLocked(v decimal.Decimal) { e.maxPayoutPerRound = v }

func (e *RoundEngine) maxPayoutLocked() decimal.Decimal { return e.maxPayoutPerRound }

// broadcastLocked pushes the live state to websocket clients, if a hub is
// attached. The snapshot is taken under the guard; the send is async.
func (e *RoundEngine) broadcastLocked() {
	if e.hub == nil {
		return
	}
	r := e.rounds[e.currentRoundID]
	state := RoundState{
		RoundID:        r.RoundID,
		Status:         r.Status(e.now()),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		WinningNumbers: append([]int(nil), r.WinningNumbers...),
		TotalBetAmount: r.TotalBetAmount,
		Participants:   len(r.Participants),
		Paused:         e.paused,
	}
	go e.hub.Broadcast(state)
}
