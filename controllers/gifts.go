package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FundReserve adds tokens to the shared gift reserve
func FundReserve(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
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

	if err := core.Gifts.FundReserve(req.Address, amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reserve": core.Gifts.Reserve()})
}

// DistributeGifts sweeps post-draw rewards for a round (distributor only)
func DistributeGifts(c *gin.Context) {
	var req struct {
		RoundID uint64 `json:"round_id" binding:"required"`
		Entropy uint64 `json:"entropy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipients, err := core.Gifts.DistributeGifts(principal(c), req.RoundID, req.Entropy)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roundId":    req.RoundID,
		"recipients": recipients,
		"reserve":    core.Gifts.Reserve(),
	})
}

// GiftReserve reports the reserve balance and per-round cost
func GiftReserve(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"reserve":          core.Gifts.Reserve(),
		"distributionCost": core.Gifts.DistributionCost(),
	})
}
