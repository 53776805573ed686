package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/bellapacxx/lottery-backend/models"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// RandomnessGateway brokers the external verifiable-randomness oracle.
// A request is outstanding until its callback is consumed; a request id can
// be delivered against at most once, and delivery for an unknown or already
// fulfilled id fails with ErrInvalidRequest. Non-delivery is a permanent
// possibility; the engine's emergency draw is the only fallback.
type RandomnessGateway struct {
	guard *Guard
	db    *gorm.DB
	now   func() time.Time

	nextID      uint64
	outstanding map[uint64]*models.RandomnessRequest

	// handler consumes delivered values under the caller's guard.
	handler func(requestID, roundID uint64, values []uint64) error

	notifier *OracleNotifier
}

func NewRandomnessGateway(guard *Guard, db *gorm.DB, notifier *OracleNotifier, now func() time.Time) *RandomnessGateway {
	return &RandomnessGateway{
		guard:       guard,
		db:          db,
		now:         now,
		notifier:    notifier,
		outstanding: make(map[uint64]*models.RandomnessRequest),
	}
}

// SetHandler wires the draw consumer. Must be called before any delivery.
func (g *RandomnessGateway) SetHandler(h func(requestID, roundID uint64, values []uint64) error) {
	g.handler = h
}

// requestLocked issues a fresh request id for numValues random values tied to
// roundID. Called by the engine under the shared guard. The oracle notify is
// fire-and-forget; a lost request simply never delivers.
func (g *RandomnessGateway) requestLocked(roundID uint64, numValues int) uint64 {
	g.nextID++
	req := &models.RandomnessRequest{
		RequestID:   g.nextID,
		RoundID:     roundID,
		NumValues:   numValues,
		Outstanding: true,
		CreatedAt:   g.now(),
	}
	g.outstanding[req.RequestID] = req
	if g.db != nil {
		_ = g.db.Create(req).Error
	}
	if g.notifier != nil {
		go g.notifier.NotifyRequest(req.RequestID, numValues)
	}
	logger.Infof("[Randomness] request %d issued for round %d (%d values)", req.RequestID, roundID, numValues)
	return req.RequestID
}

// Deliver consumes the oracle callback for requestID. The outstanding flag is
// cleared before the handler runs, so a replay of the same id fails even if
// the handler itself errors.
func (g *RandomnessGateway) Deliver(requestID uint64, values []uint64) error {
	g.guard.Enter()
	defer g.guard.Exit()

	req, ok := g.outstanding[requestID]
	if !ok {
		return ErrInvalidRequest
	}
	if len(values) != req.NumValues {
		return ErrInvalidRequest
	}

	delete(g.outstanding, requestID)
	req.Outstanding = false
	req.UpdatedAt = g.now()
	if g.db != nil {
		_ = g.db.Save(req).Error
	}

	logger.Infof("[Randomness] request %d fulfilled for round %d", requestID, req.RoundID)
	return g.handler(requestID, req.RoundID, values)
}

// Outstanding reports whether requestID still awaits delivery.
func (g *RandomnessGateway) Outstanding(requestID uint64) bool {
	g.guard.Enter()
	defer g.guard.Exit()
	_, ok := g.outstanding[requestID]
	return ok
}
