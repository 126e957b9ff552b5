package bot

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if err := b.users.Register(msg.From.ID); err != nil {
		log.Printf("bot: failed to register user %d: %v", msg.From.ID, err)
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case msg.WebAppData != nil:
		b.handleWebAppData(msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(msg)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Привет! Нажми кнопку ниже, чтобы начать расчет 👇")
		reply.ReplyMarkup = b.mainKeyboard()
		if _, err := b.api.Send(reply); err != nil {
			log.Printf("bot: failed to send /start reply: %v", err)
		}

	case "stats":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		n, err := b.users.Count()
		if err != nil {
			b.reply(msg.Chat.ID, "Не удалось получить статистику.")
			return
		}
		b.reply(msg.Chat.ID, fmt.Sprintf("👥 Пользователей в боте: %d", n))

	case "broadcast":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		text := strings.TrimSpace(msg.CommandArguments())
		if text == "" {
			b.reply(msg.Chat.ID, "Использование: /broadcast <текст>")
			return
		}
		res, err := b.broadcast.SendToAll(text)
		if err != nil {
			b.reply(msg.Chat.ID, "Рассылка не запустилась: "+err.Error())
			return
		}
		b.reply(msg.Chat.ID, fmt.Sprintf("📣 Рассылка завершена: доставлено %d, ошибок %d", res.Sent, res.Failed))

	case "models":
		if !b.isAdmin(msg.From.ID) {
			return
		}
		names, err := b.gemini.ListModels()
		if err != nil {
			b.reply(msg.Chat.ID, "Не удалось получить список моделей: "+err.Error())
			return
		}
		b.reply(msg.Chat.ID, "Доступные модели:\n"+strings.Join(names, "\n"))
	}
}

// handleWebAppData answers the calorie calculation the mini app sends
// back through Telegram.
func (b *Bot) handleWebAppData(msg *tgbotapi.Message) {
	var data struct {
		Calories int `json:"calories"`
	}
	if err := json.Unmarshal([]byte(msg.WebAppData.Data), &data); err != nil {
		log.Printf("bot: bad web app payload from %d: %v", msg.From.ID, err)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("✅ Расчет готов!\n\nТвоя норма: <b>%d ккал</b> в день.", data.Calories))
	reply.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("bot: failed to send calc reply: %v", err)
	}
}

// handlePhoto runs a food photo through the vision model and replies with
// the estimated macros.
func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	photo := msg.Photo[len(msg.Photo)-1] // sizes come smallest first

	fileURL, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		log.Printf("bot: failed to resolve photo %s: %v", photo.FileID, err)
		b.reply(msg.Chat.ID, "Ошибка при анализе фото. Попробуйте еще раз.")
		return
	}

	resp, err := http.Get(fileURL)
	if err != nil {
		log.Printf("bot: failed to download photo: %v", err)
		b.reply(msg.Chat.ID, "Ошибка при анализе фото. Попробуйте еще раз.")
		return
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("bot: failed to read photo: %v", err)
		b.reply(msg.Chat.ID, "Ошибка при анализе фото. Попробуйте еще раз.")
		return
	}

	analysis, err := b.gemini.AnalyzeFoodPhoto(data)
	if err != nil {
		log.Printf("bot: photo analysis failed: %v", err)
		b.reply(msg.Chat.ID, "Ошибка при анализе фото. Попробуйте еще раз.")
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"🍽 <b>%s</b>\n\n🔥 %.0f ккал\nБ: %.0fг · Ж: %.0fг · У: %.0fг",
		analysis.Name, analysis.Calories, analysis.Protein, analysis.Fats, analysis.Carbs))
	reply.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("bot: failed to send analysis reply: %v", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("bot: failed to send reply: %v", err)
	}
}
