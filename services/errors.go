package services

import "errors"

// Validation errors: malformed input, rejected before any state change.
var (
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInvalidNumbers        = errors.New("numbers must be 5 distinct values in [1,49], strictly ascending")
	ErrAccountExists         = errors.New("account already exists")
	ErrInvalidParameterValue = errors.New("invalid parameter value")
)

// Eligibility errors: recoverable once the caller meets the prerequisite.
var (
	ErrBelowMinimumStake        = errors.New("amount below minimum stake")
	ErrBelowMinimumBet          = errors.New("amount below minimum bet")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInsufficientStaked       = errors.New("insufficient staked amount")
	ErrInsufficientTransferable = errors.New("transfer would dip into staked funds")
	ErrInsufficientAllowance    = errors.New("insufficient allowance")
	ErrDurationNotMet           = errors.New("minimum staking duration not met")
	ErrNotEligible              = errors.New("staking weight below betting threshold")
)

// State errors: protocol ordering violations, never silently ignored.
var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrRoundNotFound            = errors.New("round not found")
	ErrRoundClosed              = errors.New("round is not accepting bets")
	ErrRoundNotEnded            = errors.New("round has not ended yet")
	ErrAlreadyDrawn             = errors.New("round already drawn")
	ErrDrawAlreadyRequested     = errors.New("draw already requested for round")
	ErrNumbersNotDrawn          = errors.New("winning numbers not drawn yet")
	ErrInvalidRequest           = errors.New("randomness request not outstanding")
	ErrAlreadyClaimed           = errors.New("bet already claimed")
	ErrNoWinnings               = errors.New("no claimable winnings")
	ErrGiftsAlreadyDistributed  = errors.New("gifts already distributed for round")
	ErrGracePeriodActive        = errors.New("emergency draw grace period still active")
	ErrEmergencyModeOnly        = errors.New("emergency mode is not enabled")
	ErrOperationNotScheduled    = errors.New("operation not scheduled")
	ErrTimelockNotReady         = errors.New("timelock delay has not elapsed")
	ErrUnknownParameter         = errors.New("unknown admin parameter")
	ErrPaused                   = errors.New("engine is paused")
)

// Capacity errors: protect shared invariants; no partial effect.
var (
	ErrExceedsMaximumStake  = errors.New("stake would exceed per-user maximum")
	ErrExceedsMaximumBet    = errors.New("cumulative bets would exceed per-round maximum")
	ErrPayoutExceedsMaximum = errors.New("round payout cap exceeded")
	ErrInsufficientReserve  = errors.New("gift reserve cannot cover distribution cost")
)

// ErrNotAuthorized is returned uniformly for any role failure, regardless of
// argument validity.
var ErrNotAuthorized = errors.New("caller not authorized")
