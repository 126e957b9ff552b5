package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

func (b *Bot) mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.KeyboardButton{
				Text:   "🔥 Рассчитать калории",
				WebApp: &tgbotapi.WebAppInfo{URL: b.webAppURL},
			},
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
