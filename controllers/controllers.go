package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bellapacxx/lottery-backend/services"
)

var core *services.Core

// Init wires the handlers to the running core. Must be called before any
// route is served.
func Init(c *services.Core) {
	core = c
}

// principal is the caller identity for role-gated operations. Key management
// is out of scope; the header is trusted at this layer.
func principal(c *gin.Context) string {
	return c.GetHeader("X-Principal")
}

func parseAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return decimal.Zero, false
	}
	return amount, true
}

// fail maps the service error taxonomy onto HTTP statuses.
func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAccountExists),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrAlreadyDrawn),
		errors.Is(err, services.ErrDrawAlreadyRequested),
		errors.Is(err, services.ErrGiftsAlreadyDistributed),
		errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrNumbersNotDrawn),
		errors.Is(err, services.ErrRoundClosed),
		errors.Is(err, services.ErrRoundNotEnded),
		errors.Is(err, services.ErrGracePeriodActive),
		errors.Is(err, services.ErrOperationNotScheduled),
		errors.Is(err, services.ErrTimelockNotReady),
		errors.Is(err, services.ErrEmergencyModeOnly),
		errors.Is(err, services.ErrPaused):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
