package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/lottery-backend/services"
)

type paramRequest struct {
	Param string `json:"param" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// ScheduleChange records a timelocked parameter change
func ScheduleChange(c *gin.Context) {
	var req paramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	executeAt, err := core.Admin.Schedule(principal(c), req.Param, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"param": req.Param, "value": req.Value, "executeAt": executeAt})
}

// ExecuteChange applies a scheduled change after its delay
func ExecuteChange(c *gin.Context) {
	var req paramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Admin.Execute(principal(c), req.Param, req.Value); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"param": req.Param, "value": req.Value, "executed": true})
}

// Pause blocks betting and claiming
func Pause(c *gin.Context) {
	if err := core.Admin.Pause(principal(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paused": true})
}

// Unpause re-enables betting and claiming
func Unpause(c *gin.Context) {
	if err := core.Admin.Unpause(principal(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paused": false})
}

// EmergencyMode toggles the ledger's emergency unstaking escape hatch
func EmergencyMode(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Admin.SetEmergencyMode(principal(c), *req.Enabled); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emergencyMode": *req.Enabled})
}

// EmergencyWithdraw moves treasury funds to a recovery address
func EmergencyWithdraw(c *gin.Context) {
	var req struct {
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

	if err := core.Admin.EmergencyWithdraw(principal(c), req.To, amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"to": req.To, "amount": amount})
}

// GrantRole assigns a role to a principal (owner only)
func GrantRole(c *gin.Context) {
	var req struct {
		Principal string `json:"principal" binding:"required"`
		Role      string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.Access.Grant(principal(c), req.Principal, services.Role(req.Role)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"principal": req.Principal, "role": req.Role})
}
