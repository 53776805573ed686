package routes

import (
	"github.com/bellapacxx/lottery-backend/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// Account routes
	// ----------------------
	api.POST("/accounts", controllers.CreateAccount)
	api.GET("/accounts/:address", controllers.GetAccount)
	api.POST("/accounts/:address/mint", controllers.Mint)

	// ----------------------
	// Staking / token routes
	// ----------------------
	api.POST("/stake", controllers.Stake)
	api.POST("/unstake", controllers.Unstake)
	api.POST("/unstake/emergency", controllers.EmergencyUnstake)
	api.POST("/transfer", controllers.Transfer)
	api.POST("/approve", controllers.Approve)
	api.POST("/burn", controllers.Burn)

	// ----------------------
	// Round routes
	// ----------------------
	api.GET("/rounds/current", controllers.CurrentRound)
	api.GET("/rounds/:id", controllers.GetRound)
	api.GET("/rounds/:id/bets", controllers.GetRoundBets)
	api.POST("/rounds/end", controllers.EndRound)
	api.POST("/rounds/:id/emergency-draw", controllers.EmergencyDraw)

	// ----------------------
	// Betting + claiming
	// ----------------------
	api.POST("/bets", controllers.PlaceBet)
	api.POST("/claims", controllers.Claim)
	api.GET("/claims/claimable", controllers.Claimable)

	// ----------------------
	// Randomness oracle callback
	// ----------------------
	api.POST("/randomness/callback", controllers.RandomnessCallback)

	// ----------------------
	// Gift routes
	// ----------------------
	api.POST("/gifts/fund", controllers.FundReserve)
	api.POST("/gifts/distribute", controllers.DistributeGifts)
	api.GET("/gifts/reserve", controllers.GiftReserve)

	// ----------------------
	// Admin routes
	// ----------------------
	api.POST("/admin/schedule", controllers.ScheduleChange)
	api.POST("/admin/execute", controllers.ExecuteChange)
	api.POST("/admin/pause", controllers.Pause)
	api.POST("/admin/unpause", controllers.Unpause)
	api.POST("/admin/emergency-mode", controllers.EmergencyMode)
	api.POST("/admin/withdraw", controllers.EmergencyWithdraw)
	api.POST("/admin/roles", controllers.GrantRole)
}
