package models

// Deck is a named deck list owned by one user and tagged with one archetype.
type Deck struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	ArchetypeID uint   `gorm:"index;not null" json:"archetype_id"`
	FilePath    string `gorm:"size:1024" json:"file_path,omitempty"` // local deck-list copy

	// 🔗 Resolved by Preload, never written through
	User      User          `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Archetype DeckArchetype `gorm:"foreignKey:ArchetypeID;constraint:OnDelete:RESTRICT" json:"archetype"`

	Timestamps
}
