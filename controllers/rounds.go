package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func parseRoundID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round id"})
		return 0, false
	}
	return id, true
}

// CurrentRound returns the round currently accepting bets
func CurrentRound(c *gin.Context) {
	r := core.Engine.CurrentRound()
	c.JSON(http.StatusOK, gin.H{"round": r, "status": r.Status(time.Now())})
}

// GetRound returns a single round snapshot
func GetRound(c *gin.Context) {
	id, ok := parseRoundID(c)
	if !ok {
		return
	}
	r, err := core.Engine.Round(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": r, "status": r.Status(time.Now())})
}

// GetRoundBets lists a round's bets in placement order
func GetRoundBets(c *gin.Context) {
	id, ok := parseRoundID(c)
	if !ok {
		return
	}
	bets, err := core.Engine.Bets(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bets)
}

// PlaceBet records a bet on the current round
func PlaceBet(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Numbers []int  `json:"numbers" binding:"required"`
		Amount  string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	bet, err := core.Engine.PlaceBet(req.Address, req.Numbers, amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bet)
}

// EndRound closes the current round and requests the draw
func EndRound(c *gin.Context) {
	if err := core.Engine.EndRound(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roundId": core.Engine.CurrentRoundID(), "status": "awaiting_draw"})
}

// EmergencyDraw lets an operator finish a round whose oracle never answered
func EmergencyDraw(c *gin.Context) {
	id, ok := parseRoundID(c)
	if !ok {
		return
	}
	var req struct {
		Numbers []int `json:"numbers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Engine.EmergencyDraw(principal(c), id, req.Numbers); err != nil {
		fail(c, err)
		return
	}
	r, _ := core.Engine.Round(id)
	c.JSON(http.StatusOK, r)
}

// RandomnessCallback is the oracle's inbound delivery endpoint
func RandomnessCallback(c *gin.Context) {
	var req struct {
		RequestID uint64   `json:"request_id" binding:"required"`
		Values    []uint64 `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Gateway.Deliver(req.RequestID, req.Values); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": req.RequestID, "fulfilled": true})
}
