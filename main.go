package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/bellapacxx/lottery-backend/config"
	"github.com/bellapacxx/lottery-backend/controllers"
	"github.com/bellapacxx/lottery-backend/routes"
	"github.com/bellapacxx/lottery-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// initEnv loads .env file and validates required vars
func initEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
}

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Principal"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket round-state feed
	r.GET("/ws", controllers.RoundFeed)

	return r
}

func main() {
	// Load env variables
	initEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] Failed to load config: %v", err)
	}

	// Connect to database
	db := config.SetupDatabase()

	// Assemble the lottery core
	var notifier *services.OracleNotifier
	if cfg.OracleURL != "" {
		notifier = services.NewOracleNotifier(cfg.OracleURL)
	}
	core := services.NewCore(cfg.Params(), cfg.OwnerAddress, db, notifier, nil)
	controllers.Init(core)

	// Close rounds on schedule once their deadline passes
	scheduler := services.NewScheduler(core.Engine, time.Minute)
	go scheduler.Run()

	router := setupRouter(cfg)

	port := cfg.Port
	if port == "" {
		port = "4000" // default from config
	}

	log.Printf("🎰 Lottery backend starting on port %s (round %d open)", port, core.Engine.CurrentRoundID())
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
