package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pcrpg2df4s-blip/dietweb/bot"
	"github.com/pcrpg2df4s-blip/dietweb/config"
	"github.com/pcrpg2df4s-blip/dietweb/routes"
	"github.com/pcrpg2df4s-blip/dietweb/services"
)

func main() {
	config.LoadEnv()
	token := config.BotToken()
	config.InitDB()

	users := services.NewUserService(config.DB)
	foodLogs := services.NewFoodLogService(config.DB)
	gemini := services.NewGeminiService(os.Getenv("GOOGLE_API_KEY"))

	webAppURL := os.Getenv("WEB_APP_URL")
	if webAppURL == "" {
		webAppURL = "https://pcrpg2df4s-blip.github.io/dietweb/"
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		webAppURL += "?api_key=" + key
	}

	b, err := bot.New(token, users, gemini, adminPredicate(), webAppURL)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	broadcast := services.NewBroadcastService(users, b, 50*time.Millisecond)
	b.SetBroadcast(broadcast)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	reminders := services.NewReminderService(broadcast, rng)
	reminders.Start(context.Background())

	go b.Run()

	r := routes.SetupRouter(token, foodLogs, users)
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("HTTP server stopped: %v", err)
	}
}

// adminPredicate builds the admin check from ADMIN_IDS ("123,456") so the
// allow-list stays out of the handlers.
func adminPredicate() func(int64) bool {
	allowed := map[int64]bool{}
	for _, part := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Ignoring bad ADMIN_IDS entry %q", part)
			continue
		}
		allowed[id] = true
	}
	return func(id int64) bool { return allowed[id] }
}
