package services

import (
	"fmt"
	"log"
	"time"
)

// MessageSender is the one capability the dispatcher needs from the bot.
type MessageSender interface {
	Send(chatID int64, text string) error
}

type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type BroadcastService struct {
	users  *UserService
	sender MessageSender
	delay  time.Duration // pause between sends, respects Telegram rate limits
}

func NewBroadcastService(users *UserService, sender MessageSender, delay time.Duration) *BroadcastService {
	return &BroadcastService{users: users, sender: sender, delay: delay}
}

// SendToAll delivers text to every registered user. The recipient list is
// snapshotted once per run; one recipient failing (blocked bot, deleted
// account) never stops delivery to the rest.
func (s *BroadcastService) SendToAll(text string) (BroadcastResult, error) {
	ids, err := s.users.ListAll()
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("failed to load recipients: %w", err)
	}

	var res BroadcastResult
	for _, id := range ids {
		if err := s.sender.Send(id, text); err != nil {
			log.Printf("broadcast: send to %d failed: %v", id, err)
			res.Failed++
		} else {
			res.Sent++
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	return res, nil
}
