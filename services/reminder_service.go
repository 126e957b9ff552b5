package services

import (
	"context"
	"log"
	"math/rand"
	"time"
)

type reminderSlot struct {
	hour, minute int
	category     string
}

// Three fixed daily reminder slots, bot-local time.
var reminderSlots = []reminderSlot{
	{9, 0, "morning"},
	{13, 0, "midday"},
	{19, 0, "evening"},
}

var reminderMessages = map[string][]string{
	"morning": {
		"☀️ Доброе утро! Не забудь записать завтрак 🍳",
		"☀️ Новый день — новый дневник питания. Начни с завтрака!",
		"🥣 Позавтракал? Загляни в приложение и запиши!",
	},
	"midday": {
		"🍲 Время обеда! Сфотографируй тарелку, я посчитаю калории.",
		"⏰ Середина дня — самое время записать обед.",
		"🥗 Не забудь добавить обед в дневник!",
	},
	"evening": {
		"🌙 Как прошёл день? Запиши ужин, чтобы ничего не потерялось.",
		"🍽 Ужин тоже считается! Добавь его в дневник.",
		"📊 Запиши ужин — и день закрыт. Отличная работа!",
	},
}

// pickMessage is pure given the rng, so tests can pin the choice.
func pickMessage(category string, rng *rand.Rand) string {
	variants := reminderMessages[category]
	if len(variants) == 0 {
		return ""
	}
	return variants[rng.Intn(len(variants))]
}

// nextSlot returns the first slot strictly after t.
func nextSlot(t time.Time) (time.Time, string) {
	for _, s := range reminderSlots {
		at := time.Date(t.Year(), t.Month(), t.Day(), s.hour, s.minute, 0, 0, t.Location())
		if at.After(t) {
			return at, s.category
		}
	}
	s := reminderSlots[0]
	d := t.AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), s.hour, s.minute, 0, 0, t.Location()), s.category
}

type ReminderService struct {
	broadcast *BroadcastService
	rng       *rand.Rand
	now       func() time.Time
}

func NewReminderService(broadcast *BroadcastService, rng *rand.Rand) *ReminderService {
	return &ReminderService{broadcast: broadcast, rng: rng, now: time.Now}
}

// Start runs the daily reminder loop until ctx is cancelled. A failed run
// is logged and the loop moves on to the next slot.
func (s *ReminderService) Start(ctx context.Context) {
	go func() {
		for {
			at, category := nextSlot(s.now())
			timer := time.NewTimer(at.Sub(s.now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			msg := pickMessage(category, s.rng)
			if msg == "" {
				continue
			}
			res, err := s.broadcast.SendToAll(msg)
			if err != nil {
				log.Printf("reminder: %s run failed: %v", category, err)
				continue
			}
			log.Printf("reminder: %s run done, sent=%d failed=%d", category, res.Sent, res.Failed)
		}
	}()
}
