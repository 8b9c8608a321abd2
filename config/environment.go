package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file unless APP_ENV says we are in production.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
	}
}
