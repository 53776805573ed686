package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type amountRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// Stake locks available tokens into the staking balance
func Stake(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := core.Ledger.Stake(req.Address, amount); err != nil {
		fail(c, err)
		return
	}
	acc, _ := core.Ledger.Account(req.Address)
	c.JSON(http.StatusOK, acc)
}

// Unstake releases staked tokens once the minimum duration has passed
func Unstake(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := core.Ledger.Unstake(req.Address, amount); err != nil {
		fail(c, err)
		return
	}
	acc, _ := core.Ledger.Account(req.Address)
	c.JSON(http.StatusOK, acc)
}

// EmergencyUnstake returns the entire staked balance while emergency mode is on
func EmergencyUnstake(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Ledger.EmergencyUnstake(req.Address); err != nil {
		fail(c, err)
		return
	}
	acc, _ := core.Ledger.Account(req.Address)
	c.JSON(http.StatusOK, acc)
}

// Transfer moves available tokens between accounts
func Transfer(c *gin.Context) {
	var req struct {
		From   string `json:"from" binding:"required"`
		To     string `json:"to" binding:"required"`
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

	if err := core.Ledger.Transfer(req.From, req.To, amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": req.From, "to": req.To, "amount": amount})
}

// Approve sets a spender allowance for transferFrom / burnFrom
func Approve(c *gin.Context) {
	var req struct {
		Owner   string `json:"owner" binding:"required"`
		Spender string `json:"spender" binding:"required"`
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

	if err := core.Ledger.Approve(req.Owner, req.Spender, amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": req.Owner, "spender": req.Spender, "allowance": amount})
}

// Burn destroys the caller's own tokens
func Burn(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := core.Ledger.Burn(req.Address, amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"burned": amount, "address": req.Address})
}
