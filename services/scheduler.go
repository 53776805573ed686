package services

import (
	"errors"
	"time"

	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// Scheduler drives the round lifecycle on a timer: once the current round's
// deadline passes it calls EndRound so the draw request goes out without
// waiting for a caller. Anyone may still call EndRound manually; the
// scheduler just makes sure somebody does.
type Scheduler struct {
	engine   *RoundEngine
	interval time.Duration
	stop     chan struct{}
}

func NewScheduler(engine *RoundEngine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run loops until Stop. Expected to run as a goroutine from main.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			err := s.engine.EndRound()
			switch {
			case err == nil:
				logger.Infof("[Scheduler] round %d closed, draw requested", s.engine.CurrentRoundID())
			case errors.Is(err, ErrRoundNotEnded), errors.Is(err, ErrDrawAlreadyRequested):
				// Not due yet, or already awaiting the oracle.
			default:
				logger.Errorf("[Scheduler] end round failed: %v", err)
			}
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stop)
}
