package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Claim settles winning bets for the caller
func Claim(c *gin.Context) {
	var req struct {
		Address    string `json:"address" binding:"required"`
		RoundID    uint64 `json:"round_id" binding:"required"`
		BetIndices []int  `json:"bet_indices" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paid, err := core.Engine.ClaimWinnings(req.Address, req.RoundID, req.BetIndices)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roundId": req.RoundID, "paid": paid})
}

// Claimable returns the computed winnings still claimable by an address
func Claimable(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Query("round"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round"})
		return
	}
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roundId":   roundID,
		"address":   address,
		"claimable": core.Engine.ClaimableWinnings(roundID, address),
	})
}
