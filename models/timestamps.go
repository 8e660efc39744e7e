package models

import "time"

// Timestamps adds GORM auto-times. Records are never deleted, so no soft-delete column.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
