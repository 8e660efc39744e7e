package models

// User links a Discord account to an internal record.
// Created by `register`, never mutated afterwards.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	DiscordID string `gorm:"size:255;uniqueIndex;not null" json:"discord_id"`
	Username  string `gorm:"size:255;not null" json:"username"`

	Timestamps
}
