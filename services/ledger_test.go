package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountDuplicate(t *testing.T) {
	c, _ := newTestCore(t, nil)

	acc, err := c.Ledger.CreateAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Address)
	assert.True(t, acc.Balance.IsZero())

	_, err = c.Ledger.CreateAccount("alice")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestMintOwnerOnly(t *testing.T) {
	c, _ := newTestCore(t, nil)
	_, err := c.Ledger.CreateAccount("alice")
	require.NoError(t, err)

	err = c.Ledger.Mint("mallory", "alice", Tokens(100))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = c.Ledger.Mint(testOwner, "alice", Tokens(100))
	require.NoError(t, err)

	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(100)))
	assert.True(t, c.Ledger.TotalSupply().Equal(Tokens(100)))

	err = c.Ledger.Mint(testOwner, "alice", Tokens(0))
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestStakeValidation(t *testing.T) {
	c, _ := newTestCore(t, func(p *Params) { p.MaxStakePerUser = Tokens(50) })
	fundedBettor(t, c, "alice", 100, 0)

	assert.ErrorIs(t, c.Ledger.Stake("alice", Tokens(0)), ErrZeroAmount)
	assert.ErrorIs(t, c.Ledger.Stake("alice", Tokens(5)), ErrBelowMinimumStake)
	assert.ErrorIs(t, c.Ledger.Stake("alice", Tokens(200)), ErrInsufficientBalance)
	assert.ErrorIs(t, c.Ledger.Stake("ghost", Tokens(10)), ErrAccountNotFound)

	require.NoError(t, c.Ledger.Stake("alice", Tokens(40)))
	assert.ErrorIs(t, c.Ledger.Stake("alice", Tokens(20)), ErrExceedsMaximumStake)

	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(60)))
	assert.True(t, acc.Staked.Equal(Tokens(40)))
	assert.True(t, c.Ledger.TotalStaked().Equal(Tokens(40)))
}

func TestUnstakeDurationGate(t *testing.T) {
	c, clock := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 50)

	assert.ErrorIs(t, c.Ledger.Unstake("alice", Tokens(50)), ErrDurationNotMet)

	clock.Advance(23 * time.Hour)
	assert.ErrorIs(t, c.Ledger.Unstake("alice", Tokens(50)), ErrDurationNotMet)

	clock.Advance(time.Hour)
	assert.ErrorIs(t, c.Ledger.Unstake("alice", Tokens(60)), ErrInsufficientStaked)
	require.NoError(t, c.Ledger.Unstake("alice", Tokens(50)))

	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(100)))
	assert.True(t, acc.Staked.IsZero())
	assert.True(t, c.Ledger.TotalStaked().IsZero())
}

func TestEmergencyUnstake(t *testing.T) {
	c, _ := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 50)

	// Only valid while emergency mode is on.
	assert.ErrorIs(t, c.Ledger.EmergencyUnstake("alice"), ErrEmergencyModeOnly)

	assert.ErrorIs(t, c.Ledger.SetEmergencyMode("mallory", true), ErrNotAuthorized)
	require.NoError(t, c.Ledger.SetEmergencyMode(testOwner, true))
	assert.True(t, c.Ledger.EmergencyMode())

	// Emergency mode also waives the duration gate on a plain unstake.
	require.NoError(t, c.Ledger.Unstake("alice", Tokens(10)))

	require.NoError(t, c.Ledger.EmergencyUnstake("alice"))
	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Staked.IsZero())
	assert.True(t, acc.Balance.Equal(Tokens(100)))

	assert.ErrorIs(t, c.Ledger.EmergencyUnstake("alice"), ErrInsufficientStaked)
}

func TestStakingWeightSchedule(t *testing.T) {
	c, clock := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 200, 100)

	// Flat for the first 7 days.
	assert.True(t, c.Ledger.StakingWeight("alice").Equal(Tokens(100)))
	clock.Advance(7 * 24 * time.Hour)
	assert.True(t, c.Ledger.StakingWeight("alice").Equal(Tokens(100)))

	// Midpoint of the linear ramp: 7d + 11.5d of the 23-day span is 1.5x.
	clock.Advance(11*24*time.Hour + 12*time.Hour)
	assert.True(t, c.Ledger.StakingWeight("alice").Equal(Tokens(150)),
		c.Ledger.StakingWeight("alice").String())

	// Capped at 2x from 30 days on.
	clock.Advance(11*24*time.Hour + 12*time.Hour)
	assert.True(t, c.Ledger.StakingWeight("alice").Equal(Tokens(200)))
	clock.Advance(100 * 24 * time.Hour)
	assert.True(t, c.Ledger.StakingWeight("alice").Equal(Tokens(200)))

	assert.True(t, c.Ledger.StakingWeight("nobody").IsZero())
}

func TestStakingWeightMonotonic(t *testing.T) {
	c, clock := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 200, 100)

	prev := c.Ledger.StakingWeight("alice")
	for i := 0; i < 35; i++ {
		clock.Advance(24 * time.Hour)
		w := c.Ledger.StakingWeight("alice")
		assert.False(t, w.LessThan(prev), "day %d: %s < %s", i+1, w, prev)
		prev = w
	}
}

func TestIsEligibleForBenefits(t *testing.T) {
	c, clock := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 10)

	assert.False(t, c.Ledger.IsEligibleForBenefits("alice"))
	clock.Advance(24 * time.Hour)
	assert.True(t, c.Ledger.IsEligibleForBenefits("alice"))
	assert.False(t, c.Ledger.IsEligibleForBenefits("nobody"))
}

func TestTransferStakedFundsLocked(t *testing.T) {
	c, _ := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 50)
	fundedBettor(t, c, "bob", 0, 0)

	// Available is 50 and staked is 50: any regular outbound transfer would
	// drop available below the staked amount.
	assert.ErrorIs(t, c.Ledger.Transfer("alice", "bob", Tokens(10)), ErrInsufficientTransferable)
	assert.ErrorIs(t, c.Ledger.Transfer("alice", "bob", Tokens(60)), ErrInsufficientBalance)
	assert.ErrorIs(t, c.Ledger.Transfer("alice", "bob", Tokens(0)), ErrZeroAmount)

	// An authorized transferor bypasses the staked-funds lock.
	require.NoError(t, c.Ledger.SetAuthorizedTransferor(testOwner, "alice", true))
	require.NoError(t, c.Ledger.Transfer("alice", "bob", Tokens(10)))

	bob, err := c.Ledger.Account("bob")
	require.NoError(t, err)
	assert.True(t, bob.Balance.Equal(Tokens(10)))
}

func TestTransferFromAllowance(t *testing.T) {
	c, _ := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 0)
	fundedBettor(t, c, "spender", 0, 0)

	err := c.Ledger.TransferFrom("spender", "alice", "spender", Tokens(20))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, c.Ledger.Approve("alice", "spender", Tokens(30)))
	require.NoError(t, c.Ledger.TransferFrom("spender", "alice", "spender", Tokens(20)))
	assert.True(t, c.Ledger.Allowance("alice", "spender").Equal(Tokens(10)))

	err = c.Ledger.TransferFrom("spender", "alice", "spender", Tokens(20))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	acc, err := c.Ledger.Account("spender")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(20)))
}

func TestBurn(t *testing.T) {
	c, _ := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 0)

	require.NoError(t, c.Ledger.Burn("alice", Tokens(30)))
	assert.ErrorIs(t, c.Ledger.Burn("alice", Tokens(1000)), ErrInsufficientBalance)

	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(70)))
	assert.True(t, c.Ledger.TotalSupply().Equal(Tokens(70)))
	assert.True(t, c.Ledger.TotalBurned().Equal(Tokens(30)))
}

func TestBurnFrom(t *testing.T) {
	c, _ := newTestCore(t, nil)
	fundedBettor(t, c, "alice", 100, 0)
	fundedBettor(t, c, "burner", 0, 0)

	// Needs the burner flag first.
	err := c.Ledger.BurnFrom("burner", "alice", Tokens(20))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, c.Ledger.SetAuthorizedBurner(testOwner, "burner", true))

	// Flagged but without allowance.
	err = c.Ledger.BurnFrom("burner", "alice", Tokens(20))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, c.Ledger.Approve("alice", "burner", Tokens(25)))
	require.NoError(t, c.Ledger.BurnFrom("burner", "alice", Tokens(20)))
	assert.True(t, c.Ledger.Allowance("alice", "burner").Equal(Tokens(5)))
	assert.True(t, c.Ledger.TotalBurned().Equal(Tokens(20)))

	// A burner that is also an authorized transferor skips the allowance.
	require.NoError(t, c.Ledger.SetAuthorizedTransferor(testOwner, "burner", true))
	require.NoError(t, c.Ledger.BurnFrom("burner", "alice", Tokens(50)))
	assert.True(t, c.Ledger.Allowance("alice", "burner").Equal(Tokens(5)))

	acc, err := c.Ledger.Account("alice")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(Tokens(30)))
}
