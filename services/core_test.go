package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testOwner = "owner"

// fakeClock is the injectable time source shared by the tests. Advancing it
// moves every component's view of now.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCore(t *testing.T, mutate func(*Params)) (*Core, *fakeClock) {
	t.Helper()
	params := DefaultParams()
	if mutate != nil {
		mutate(&params)
	}
	clock := newFakeClock()
	return NewCore(params, testOwner, nil, nil, clock.Now), clock
}

// fundedBettor creates an account with a minted balance and an active stake,
// which makes it eligible to bet immediately.
func fundedBettor(t *testing.T, c *Core, address string, balance, stake int64) {
	t.Helper()
	_, err := c.Ledger.CreateAccount(address)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, c.Ledger.Mint(testOwner, address, Tokens(balance)))
	}
	if stake > 0 {
		require.NoError(t, c.Ledger.Stake(address, Tokens(stake)))
	}
}

// drawCurrentRound advances the clock to the current round's deadline, closes
// it and delivers the given oracle values. Returns the drawn round's id.
func drawCurrentRound(t *testing.T, c *Core, clock *fakeClock, values []uint64) uint64 {
	t.Helper()
	id := c.Engine.CurrentRoundID()
	r, err := c.Engine.Round(id)
	require.NoError(t, err)
	if wait := r.EndTime.Sub(clock.Now()); wait > 0 {
		clock.Advance(wait)
	}
	require.NoError(t, c.Engine.EndRound())

	r, err = c.Engine.Round(id)
	require.NoError(t, err)
	require.NotZero(t, r.PendingRequestID)
	require.NoError(t, c.Gateway.Deliver(r.PendingRequestID, values))
	return id
}
