package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/bellapacxx/lottery-backend/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	db := config.SetupDatabase() // connects + migrates
	_ = db
	log.Println("✅ Database migration completed successfully")
}
