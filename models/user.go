package models

import "time"

// User is a Telegram identity known to the bot. Rows are append-only;
// registering an already-known user is a no-op.
type User struct {
	UserID   int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
