package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerClosesDueRounds(t *testing.T) {
	c, clock := newTestCore(t, nil)
	clock.Advance(c.Params.RoundDuration)

	s := NewScheduler(c.Engine, 5*time.Millisecond)
	go s.Run()
	defer s.Stop()

	require.Eventually(t, func() bool {
		r, err := c.Engine.Round(1)
		return err == nil && r.PendingRequestID != 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSchedulerIdlesWhileRoundOpen(t *testing.T) {
	c, _ := newTestCore(t, nil)

	s := NewScheduler(c.Engine, time.Millisecond)
	go s.Run()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	r, err := c.Engine.Round(1)
	require.NoError(t, err)
	require.Zero(t, r.PendingRequestID)
	require.False(t, r.Drawn)
}
