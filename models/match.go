package models

import "time"

const (
	ResultWin  = "Win"
	ResultLoss = "Loss"
)

// Match records one game outcome for a deck.
type Match struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	DeckID            uint       `gorm:"index;not null" json:"deck_id"`
	Result            string     `gorm:"size:16;not null" json:"result"` // Win | Loss
	OpponentArchetype string     `gorm:"size:255;not null" json:"opponent_archetype"`
	Player            string     `gorm:"size:255;not null" json:"player"`
	Date              *time.Time `gorm:"type:date" json:"date,omitempty"`

	Deck Deck `gorm:"foreignKey:DeckID;constraint:OnDelete:RESTRICT" json:"-"`

	Timestamps
}
