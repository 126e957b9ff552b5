package config

import (
	"log"
	"os"

	"github.com/pcrpg2df4s-blip/dietweb/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// LoadEnv pulls in .env when present; real deployments just set the
// variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// BotToken returns the bot credential. The whole process is useless
// without it, so absence is fatal at startup.
func BotToken() string {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("BOT_TOKEN is not set")
	}
	return token
}

// InitDB connects to Postgres when DATABASE_URL is set, otherwise falls
// back to a local sqlite file.
func InitDB() {
	var err error
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "diet.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(&models.FoodLog{}, &models.User{}); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
