package bot

import (
	"fmt"
	"log"

	"github.com/pcrpg2df4s-blip/dietweb/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	users     *services.UserService
	gemini    *services.GeminiService
	broadcast *services.BroadcastService
	isAdmin   func(int64) bool
	webAppURL string
}

func New(token string, users *services.UserService, gemini *services.GeminiService, isAdmin func(int64) bool, webAppURL string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return &Bot{
		api:       api,
		users:     users,
		gemini:    gemini,
		isAdmin:   isAdmin,
		webAppURL: webAppURL,
	}, nil
}

// SetBroadcast wires the dispatcher in after construction; the dispatcher
// itself needs the bot as its sender, so neither can be built first.
func (b *Bot) SetBroadcast(bc *services.BroadcastService) {
	b.broadcast = bc
}

// Send implements services.MessageSender.
func (b *Bot) Send(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Run polls Telegram for updates until the process exits.
func (b *Bot) Run() {
	log.Printf("bot: authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for update := range b.api.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}
