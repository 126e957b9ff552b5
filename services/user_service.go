package services

import (
	"fmt"
	"time"

	"github.com/pcrpg2df4s-blip/dietweb/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register adds the user on first contact. Registering an existing user
// is a no-op, never an error.
func (s *UserService) Register(userID int64) error {
	u := models.User{UserID: userID, JoinedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// ListAll returns every known user id, used to drive broadcast fan-out.
func (s *UserService) ListAll() ([]int64, error) {
	var ids []int64
	err := s.db.Model(&models.User{}).Order("user_id").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

func (s *UserService) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
