package models

import "time"

// FoodLog is one day of logged food for one Telegram user.
// The (user_id, date) pair is the primary key: saving again for the same
// day replaces the document and refreshes updated_at.
type FoodLog struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Date      string    `gorm:"primaryKey;size:10" json:"date"` // YYYY-MM-DD
	FoodJSON  string    `gorm:"type:text;not null" json:"food_json"`
	UpdatedAt time.Time `json:"updated_at"`
}
