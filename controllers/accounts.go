package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateAccount registers a new ledger account
func CreateAccount(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := core.Ledger.CreateAccount(req.Address)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

// GetAccount fetches an account snapshot by address
func GetAccount(c *gin.Context) {
	acc, err := core.Ledger.Account(c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account":       acc,
		"stakingWeight": core.Ledger.StakingWeight(acc.Address),
		"eligible":      core.Ledger.IsEligibleForBenefits(acc.Address),
	})
}

// Mint issues tokens to an account (owner only)
func Mint(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := core.Ledger.Mint(principal(c), c.Param("address"), amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minted": amount, "address": c.Param("address")})
}
