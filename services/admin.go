package services

import (
	"crypto/sha256"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellapacxx/lottery-backend/models"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// Admin-changeable parameters.
const ParamMaxPayoutPerRound = "max_payout_per_round"

// AdminGateway applies timelocked parameter changes and emergency controls.
// A change is first scheduled, then executable only after the delay; the
// schedule is keyed by a hash of the full operation so execute must repeat
// the exact same arguments.
type AdminGateway struct {
	guard *Guard
	now   func() time.Time
	delay time.Duration

	ledger *TokenLedger
	engine *RoundEngine
	access *AccessControl

	scheduled map[[32]byte]time.Time
}

func NewAdminGateway(guard *Guard, params Params, ledger *TokenLedger, engine *RoundEngine, access *AccessControl, now func() time.Time) *AdminGateway {
	return &AdminGateway{
		guard:     guard,
		now:       now,
		delay:     params.TimelockDelay,
		ledger:    ledger,
		engine:    engine,
		access:    access,
		scheduled: make(map[[32]byte]time.Time),
	}
}

func operationKey(param, value string) [32]byte {
	return sha256.Sum256([]byte(param + "\x00" + value))
}

// Schedule records a pending parameter change executable after the delay.
func (a *AdminGateway) Schedule(caller, param, value string) (time.Time, error) {
	a.guard.Enter()
	defer a.guard.Exit()

	if err := a.access.Require(caller, RoleAdmin); err != nil {
		return time.Time{}, err
	}
	if _, err := a.parseParam(param, value); err != nil {
		return time.Time{}, err
	}
	executeAt := a.now().Add(a.delay)
	a.scheduled[operationKey(param, value)] = executeAt
	logger.Infof("[Admin] %s scheduled %s=%s, executable at %s", caller, param, value, executeAt.Format(time.RFC3339))
	return executeAt, nil
}

// Execute applies a previously scheduled change once its delay has elapsed.
func (a *AdminGateway) Execute(caller, param, value string) error {
	a.guard.Enter()
	defer a.guard.Exit()

	if err := a.access.Require(caller, RoleAdmin); err != nil {
		return err
	}
	key := operationKey(param, value)
	executeAt, ok := a.scheduled[key]
	if !ok {
		return ErrOperationNotScheduled
	}
	if a.now().Before(executeAt) {
		return ErrTimelockNotReady
	}
	parsed, err := a.parseParam(param, value)
	if err != nil {
		return err
	}

	switch param {
	case ParamMaxPayoutPerRound:
		a.engine.setMaxPayoutLocked(parsed)
	}
	delete(a.scheduled, key)
	logger.Infof("[Admin] %s executed %s=%s", caller, param, value)
	return nil
}

func (a *AdminGateway) parseParam(param, value string) (decimal.Decimal, error) {
	switch param {
	case ParamMaxPayoutPerRound:
		v, err := decimal.NewFromString(value)
		if err != nil || v.Sign() <= 0 {
			return decimal.Zero, ErrInvalidParameterValue
		}
		return v, nil
	default:
		return decimal.Zero, ErrUnknownParameter
	}
}

// Pause blocks betting and claiming. Views stay available.
func (a *AdminGateway) Pause(caller string) error {
	return a.setPaused(caller, true)
}

func (a *AdminGateway) Unpause(caller string) error {
	return a.setPaused(caller, false)
}

func (a *AdminGateway) setPaused(caller string, on bool) error {
	a.guard.Enter()
	defer a.guard.Exit()

	if err := a.access.Require(caller, RoleAdmin); err != nil {
		return err
	}
	a.engine.setPausedLocked(on)
	logger.Infof("[Admin] paused=%v by %s", on, caller)
	return nil
}

// SetEmergencyMode toggles the ledger's emergency unstaking escape hatch.
func (a *AdminGateway) SetEmergencyMode(caller string, on bool) error {
	return a.ledger.SetEmergencyMode(caller, on)
}

// EmergencyWithdraw moves treasury funds out to a recovery address.
func (a *AdminGateway) EmergencyWithdraw(caller, to string, amount decimal.Decimal) error {
	a.guard.Enter()
	defer a.guard.Exit()

	if err := a.access.Require(caller, RoleAdmin); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	treasury := a.ledger.getOrCreateLocked(TreasuryAddress)
	if treasury.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	dst := a.ledger.getOrCreateLocked(to)
	a.ledger.moveLocked(treasury, dst, amount, models.EntryWithdraw, models.EntryTransferIn)
	logger.Infof("[Admin] emergency withdrawal of %s to %s by %s", amount, to, caller)
	return nil
}

// MaxPayoutPerRound is the currently effective claim cap.
func (a *AdminGateway) MaxPayoutPerRound() decimal.Decimal {
	a.guard.Enter()
	defer a.guard.Exit()
	return a.engine.maxPayoutLocked()
}
