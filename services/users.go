// services/users.go
package services

import (
	"context"
	"errors"
	"fmt"

	"deck-tracker-bot/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Register creates a User for discordID. Registering twice returns the
// existing record together with ErrAlreadyRegistered.
func (s *UserService) Register(ctx context.Context, discordID, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoNothing: true,
		}).Create(&models.User{DiscordID: discordID, Username: username})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("discord_id = ?", discordID).First(&user).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyRegistered
		}
		return nil
	})
	if errors.Is(err, ErrAlreadyRegistered) {
		return &user, err
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", discordID, err)
	}
	return &user, nil
}

// GetByDiscordID returns ErrNotRegistered when the account has no record.
func (s *UserService) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	return findUser(s.DB.WithContext(ctx), discordID)
}

func findUser(tx *gorm.DB, discordID string) (*models.User, error) {
	var user models.User
	if err := tx.Where("discord_id = ?", discordID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("lookup user %s: %w", discordID, err)
	}
	return &user, nil
}
