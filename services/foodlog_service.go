package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pcrpg2df4s-blip/dietweb/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FoodLogService struct {
	db *gorm.DB
}

func NewFoodLogService(db *gorm.DB) *FoodLogService {
	return &FoodLogService{db: db}
}

// Save inserts the day's document or replaces it if the user already
// logged that date. Last completed write wins.
func (s *FoodLogService) Save(userID int64, date string, food json.RawMessage) error {
	entry := models.FoodLog{
		UserID:    userID,
		Date:      date,
		FoodJSON:  string(food),
		UpdatedAt: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"food_json", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save food log: %w", err)
	}
	return nil
}

// Get returns the document for one day. found=false with a nil error means
// the user simply has not logged anything for that date.
func (s *FoodLogService) Get(userID int64, date string) (json.RawMessage, bool, error) {
	var entry models.FoodLog
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get food log: %w", err)
	}
	return json.RawMessage(entry.FoodJSON), true, nil
}

// GetAll returns the user's whole history, most recent date first.
func (s *FoodLogService) GetAll(userID int64) ([]models.FoodLog, error) {
	var entries []models.FoodLog
	err := s.db.
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	return entries, nil
}
