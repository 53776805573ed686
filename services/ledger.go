package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bellapacxx/lottery-backend/models"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// TokenLedger owns every account balance. The in-memory maps are
// authoritative (the engine pattern used for live round state); when a DB is
// attached every mutation is written through, together with a LedgerEntry
// audit row. All public entry points hold the shared guard; unexported
// methods assume it is already held.
type TokenLedger struct {
	guard  *Guard
	db     *gorm.DB
	now    func() time.Time
	params Params
	access *AccessControl

	accounts   map[string]*models.Account
	allowances map[string]map[string]decimal.Decimal // owner -> spender

	totalSupply decimal.Decimal
	totalStaked decimal.Decimal
	totalBurned decimal.Decimal

	emergencyMode bool
}

func NewTokenLedger(guard *Guard, db *gorm.DB, params Params, access *AccessControl, now func() time.Time) *TokenLedger {
	l := &TokenLedger{
		guard:      guard,
		db:         db,
		now:        now,
		params:     params,
		access:     access,
		accounts:   make(map[string]*models.Account),
		allowances: make(map[string]map[string]decimal.Decimal),
	}
	// System accounts exist from the start.
	l.getOrCreateLocked(TreasuryAddress)
	l.getOrCreateLocked(GiftReserveAddress)
	return l
}

// -------------------- account management --------------------

func (l *TokenLedger) CreateAccount(address string) (*models.Account, error) {
	l.guard.Enter()
	defer l.guard.Exit()

	if _, ok := l.accounts[address]; ok {
		return nil, ErrAccountExists
	}
	acc := l.getOrCreateLocked(address)
	logger.Infof("[Ledger] account %s created", address)
	return snapshot(acc), nil
}

func (l *TokenLedger) getOrCreateLocked(address string) *models.Account {
	if acc, ok := l.accounts[address]; ok {
		return acc
	}
	acc := &models.Account{
		Address:       address,
		Balance:       decimal.Zero,
		Staked:        decimal.Zero,
		TotalWinnings: decimal.Zero,
		CreatedAt:     l.now(),
	}
	l.accounts[address] = acc
	if l.db != nil {
		_ = l.db.Create(acc).Error
	}
	return acc
}

func (l *TokenLedger) accountLocked(address string) (*models.Account, error) {
	acc, ok := l.accounts[address]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

func (l *TokenLedger) persistLocked(acc *models.Account) {
	acc.UpdatedAt = l.now()
	if l.db != nil {
		_ = l.db.Save(acc).Error
	}
}

func (l *TokenLedger) recordLocked(acc *models.Account, typ models.EntryType, amount decimal.Decimal) {
	if l.db == nil {
		return
	}
	entry := models.LedgerEntry{
		Address:      acc.Address,
		Type:         typ,
		Amount:       amount,
		BalanceAfter: acc.Balance,
		CreatedAt:    l.now(),
	}
	_ = l.db.Create(&entry).Error
}

// -------------------- supply --------------------

// Mint issues new tokens. Owner only.
func (l *TokenLedger) Mint(caller, to string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if err := l.access.Require(caller, RoleOwner); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	acc := l.getOrCreateLocked(to)
	acc.Balance = acc.Balance.Add(amount)
	l.totalSupply = l.totalSupply.Add(amount)
	l.persistLocked(acc)
	l.recordLocked(acc, models.EntryMint, amount)
	logger.Infof("[Ledger] minted %s to %s", amount, to)
	return nil
}

// Burn destroys the caller's own available tokens.
func (l *TokenLedger) Burn(address string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.burnLocked(address, amount)
}

// BurnFrom lets an authorized burner destroy another account's tokens,
// spending an allowance unless the burner is also an authorized transferor.
func (l *TokenLedger) BurnFrom(caller, address string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	callerAcc, err := l.accountLocked(caller)
	if err != nil {
		return err
	}
	if !callerAcc.AuthorizedBurner {
		return ErrNotAuthorized
	}
	if !callerAcc.AuthorizedTransferor {
		if err := l.consumeAllowanceLocked(address, caller, amount); err != nil {
			return err
		}
	}
	return l.burnLocked(address, amount)
}

func (l *TokenLedger) burnLocked(address string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	acc, err := l.accountLocked(address)
	if err != nil {
		return err
	}
	if acc.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	acc.Balance = acc.Balance.Sub(amount)
	l.totalSupply = l.totalSupply.Sub(amount)
	l.totalBurned = l.totalBurned.Add(amount)
	l.persistLocked(acc)
	l.recordLocked(acc, models.EntryBurn, amount)
	return nil
}

// -------------------- staking --------------------

func (l *TokenLedger) Stake(address string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if amount.Sign() == 0 {
		return ErrZeroAmount
	}
	if amount.LessThan(l.params.MinStake) {
		return ErrBelowMinimumStake
	}
	acc, err := l.accountLocked(address)
	if err != nil {
		return err
	}
	if acc.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	if acc.Staked.Add(amount).GreaterThan(l.params.MaxStakePerUser) {
		return ErrExceedsMaximumStake
	}

	acc.Balance = acc.Balance.Sub(amount)
	acc.Staked = acc.Staked.Add(amount)
	acc.StakingStartedAt = l.now()
	l.totalStaked = l.totalStaked.Add(amount)
	l.persistLocked(acc)
	l.recordLocked(acc, models.EntryStake, amount)
	logger.Infof("[Ledger] %s staked %s (total staked %s)", address, amount, acc.Staked)
	return nil
}

func (l *TokenLedger) Unstake(address string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	acc, err := l.accountLocked(address)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if amount.GreaterThan(acc.Staked) {
		return ErrInsufficientStaked
	}
	if !l.emergencyMode && l.now().Before(acc.StakingStartedAt.Add(l.params.MinStakeDuration)) {
		return ErrDurationNotMet
	}
	l.unstakeLocked(acc, amount)
	return nil
}

// EmergencyUnstake returns the entire staked balance, bypassing the duration
// check. Only valid while emergency mode is enabled.
func (l *TokenLedger) EmergencyUnstake(address string) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if !l.emergencyMode {
		return ErrEmergencyModeOnly
	}
	acc, err := l.accountLocked(address)
	if err != nil {
		return err
	}
	if acc.Staked.Sign() == 0 {
		return ErrInsufficientStaked
	}
	l.unstakeLocked(acc, acc.Staked)
	return nil
}

func (l *TokenLedger) unstakeLocked(acc *models.Account, amount decimal.Decimal) {
	acc.Staked = acc.Staked.Sub(amount)
	acc.Balance = acc.Balance.Add(amount)
	l.totalStaked = l.totalStaked.Sub(amount)
	l.persistLocked(acc)
	l.recordLocked(acc, models.EntryUnstake, amount)
	logger.Infof("[Ledger] %s unstaked %s", acc.Address, amount)
}

// SetEmergencyMode toggles the emergency escape hatch. Admin only.
func (l *TokenLedger) SetEmergencyMode(caller string, on bool) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if err := l.access.Require(caller, RoleAdmin); err != nil {
		return err
	}
	l.emergencyMode = on
	logger.Infof("[Ledger] emergency mode set to %v by %s", on, caller)
	return nil
}

func (l *TokenLedger) EmergencyMode() bool {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.emergencyMode
}

// -------------------- transfers --------------------

// Transfer moves available tokens between accounts. A regular sender must
// keep its available balance at or above its staked amount; addresses flagged
// as authorized transferors are exempt.
func (l *TokenLedger) Transfer(from, to string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.transferLocked(from, from, to, amount)
}

// TransferFrom moves tokens on behalf of another account, consuming an
// allowance unless the caller is an authorized transferor.
func (l *TokenLedger) TransferFrom(caller, from, to string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	callerAcc, err := l.accountLocked(caller)
	if err != nil {
		return err
	}
	if !callerAcc.AuthorizedTransferor {
		if err := l.consumeAllowanceLocked(from, caller, amount); err != nil {
			return err
		}
	}
	return l.transferLocked(caller, from, to, amount)
}

func (l *TokenLedger) transferLocked(initiator, from, to string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	src, err := l.accountLocked(from)
	if err != nil {
		return err
	}
	if src.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	initAcc, ok := l.accounts[initiator]
	authorized := ok && initAcc.AuthorizedTransferor
	if !authorized && src.Balance.Sub(amount).LessThan(src.Staked) {
		return ErrInsufficientTransferable
	}
	l.moveLocked(src, l.getOrCreateLocked(to), amount, models.EntryTransferOut, models.EntryTransferIn)
	return nil
}

// moveLocked is the ledger-initiated value move used by the engine and the
// gift distributor. It bypasses the staked-funds transfer lock but never the
// balance check; callers validate before calling.
func (l *TokenLedger) moveLocked(src, dst *models.Account, amount decimal.Decimal, outType, inType models.EntryType) {
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	l.persistLocked(src)
	l.persistLocked(dst)
	l.recordLocked(src, outType, amount)
	l.recordLocked(dst, inType, amount)
}

func (l *TokenLedger) Approve(owner, spender string, amount decimal.Decimal) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if _, err := l.accountLocked(owner); err != nil {
		return err
	}
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[string]decimal.Decimal)
	}
	l.allowances[owner][spender] = amount
	return nil
}

func (l *TokenLedger) Allowance(owner, spender string) decimal.Decimal {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.allowances[owner][spender]
}

func (l *TokenLedger) consumeAllowanceLocked(owner, spender string, amount decimal.Decimal) error {
	cur := l.allowances[owner][spender]
	if cur.LessThan(amount) {
		return ErrInsufficientAllowance
	}
	l.allowances[owner][spender] = cur.Sub(amount)
	return nil
}

// SetAuthorizedBurner flags an account as a burner. Owner only.
func (l *TokenLedger) SetAuthorizedBurner(caller, address string, ok bool) error {
	return l.setFlag(caller, address, func(acc *models.Account) { acc.AuthorizedBurner = ok })
}

// SetAuthorizedTransferor flags an account as able to move staked capital.
func (l *TokenLedger) SetAuthorizedTransferor(caller, address string, ok bool) error {
	return l.setFlag(caller, address, func(acc *models.Account) { acc.AuthorizedTransferor = ok })
}

func (l *TokenLedger) setFlag(caller, address string, apply func(*models.Account)) error {
	l.guard.Enter()
	defer l.guard.Exit()

	if err := l.access.Require(caller, RoleOwner); err != nil {
		return err
	}
	acc, err := l.accountLocked(address)
	if err != nil {
		return err
	}
	apply(acc)
	l.persistLocked(acc)
	return nil
}

// -------------------- views --------------------

// StakingWeight is the time-boosted staked amount: unchanged up to 7 days,
// scaled linearly to 2x between 7 and 30 days, capped at 2x after that.
func (l *TokenLedger) StakingWeight(address string) decimal.Decimal {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.stakingWeightLocked(address)
}

func (l *TokenLedger) stakingWeightLocked(address string) decimal.Decimal {
	acc, ok := l.accounts[address]
	if !ok || acc.Staked.Sign() == 0 {
		return decimal.Zero
	}
	const day = 24 * time.Hour
	d := l.now().Sub(acc.StakingStartedAt)
	switch {
	case d >= 30*day:
		return acc.Staked.Mul(decimal.NewFromInt(2))
	case d > 7*day:
		extra := decimal.NewFromInt(int64((d - 7*day).Seconds()))
		span := decimal.NewFromInt(int64((23 * day).Seconds()))
		boost := decimal.NewFromInt(1).Add(extra.Div(span))
		return acc.Staked.Mul(boost)
	default:
		return acc.Staked
	}
}

// IsEligibleForBenefits reports whether the account meets the minimum stake
// and duration requirements (duration is waived in emergency mode).
func (l *TokenLedger) IsEligibleForBenefits(address string) bool {
	l.guard.Enter()
	defer l.guard.Exit()

	acc, ok := l.accounts[address]
	if !ok || acc.Staked.LessThan(l.params.MinStake) {
		return false
	}
	if l.emergencyMode {
		return true
	}
	return !l.now().Before(acc.StakingStartedAt.Add(l.params.MinStakeDuration))
}

// Account returns a point-in-time copy of the account record.
func (l *TokenLedger) Account(address string) (*models.Account, error) {
	l.guard.Enter()
	defer l.guard.Exit()

	acc, err := l.accountLocked(address)
	if err != nil {
		return nil, err
	}
	return snapshot(acc), nil
}

func (l *TokenLedger) TotalSupply() decimal.Decimal {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.totalSupply
}

func (l *TokenLedger) TotalStaked() decimal.Decimal {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.totalStaked
}

func (l *TokenLedger) TotalBurned() decimal.Decimal {
	l.guard.Enter()
	defer l.guard.Exit()
	return l.totalBurned
}

func (l *TokenLedger) balanceLocked(address string) decimal.Decimal {
	if acc, ok := l.accounts[address]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

// recordParticipationLocked updates the bettor's round-participation stats.
// Called by the engine, which owns round records but writes account state
// only through the ledger.
func (l *TokenLedger) recordParticipationLocked(address string, roundID uint64) {
	acc, ok := l.accounts[address]
	if !ok {
		return
	}
	acc.TotalBets++
	if acc.LastParticipatedRound != roundID {
		if roundID == acc.LastParticipatedRound+1 {
			acc.ConsecutiveRounds++
		} else {
			acc.ConsecutiveRounds = 1
		}
		acc.LastParticipatedRound = roundID
		acc.GiftEligible = acc.ConsecutiveRounds >= l.params.ConsecutivePlayRequirement
	}
	l.persistLocked(acc)
}

func (l *TokenLedger) addWinningsLocked(address string, amount decimal.Decimal) {
	if acc, ok := l.accounts[address]; ok {
		acc.TotalWinnings = acc.TotalWinnings.Add(amount)
		l.persistLocked(acc)
	}
}

func (l *TokenLedger) recordGiftLocked(address string, roundID uint64) {
	if acc, ok := l.accounts[address]; ok {
		acc.LastGiftRound = roundID
		l.persistLocked(acc)
	}
}

func snapshot(acc *models.Account) *models.Account {
	cp := *acc
	return &cp
}
