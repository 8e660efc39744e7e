package models

import "strings"

// OthersArchetype is the catch-all archetype. It has no key cards and is
// always evaluated last by the classifier.
const OthersArchetype = "Others"

// DeckArchetype is a named deck category defined by its key cards.
type DeckArchetype struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	KeyCards string `gorm:"size:2000;not null;default:''" json:"key_cards"` // comma separated

	Timestamps
}

// KeyCardList returns the trimmed, non-empty key cards.
func (a DeckArchetype) KeyCardList() []string {
	return SplitKeyCards(a.KeyCards)
}

// SplitKeyCards splits a comma separated key-card list, dropping blanks.
func SplitKeyCards(raw string) []string {
	var cards []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cards = append(cards, c)
		}
	}
	return cards
}
