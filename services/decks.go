package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deck-tracker-bot/models"
	"deck-tracker-bot/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeckService struct {
	DB    *gorm.DB
	Files *utils.DeckListStore
	Log   *zap.SugaredLogger
}

func NewDeckService(db *gorm.DB, files *utils.DeckListStore, log *zap.SugaredLogger) *DeckService {
	return &DeckService{DB: db, Files: files, Log: log}
}

// AddDeck stores the deck list, classifies it against the current archetypes
// and persists the Deck. The returned deck has its Archetype loaded.
func (s *DeckService) AddDeck(ctx context.Context, discordID, deckName string, deckList []byte) (*models.Deck, error) {
	deckName = strings.TrimSpace(deckName)
	if deckName == "" {
		return nil, ErrEmptyName
	}

	db := s.DB.WithContext(ctx)
	user, err := findUser(db, discordID)
	if err != nil {
		return nil, err
	}
	if err := checkDeckNameFree(db, user.ID, deckName); err != nil {
		return nil, err
	}

	path, err := s.Files.Save(discordID, deckName, deckList)
	if err != nil {
		return nil, fmt.Errorf("save deck list: %w", err)
	}

	deck := &models.Deck{UserID: user.ID, Name: deckName, FilePath: path}
	err = db.Transaction(func(tx *gorm.DB) error {
		others, err := ensureOthers(tx)
		if err != nil {
			return err
		}
		var archetypes []models.DeckArchetype
		if err := tx.Order("id ASC").Find(&archetypes).Error; err != nil {
			return err
		}

		name := ClassifyDeck(string(deckList), archetypes)
		deck.Archetype = *others
		for _, a := range archetypes {
			if a.Name == name {
				deck.Archetype = a
				break
			}
		}
		deck.ArchetypeID = deck.Archetype.ID
		return tx.Omit(clause.Associations).Create(deck).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add deck %q: %w", deckName, err)
	}

	// the local copy is authoritative; a failed archive upload is only logged
	if url, err := s.Files.ArchiveCopy(ctx, path, deckList); err != nil {
		s.Log.Warnw("⚠️ deck list archive failed", "deck", deckName, "user", discordID, "error", err)
	} else if url != "" {
		s.Log.Debugw("deck list archived", "deck", deckName, "url", url)
	}
	return deck, nil
}

// ListDecks returns the caller's decks with their archetypes.
func (s *DeckService) ListDecks(ctx context.Context, discordID string) ([]models.Deck, error) {
	db := s.DB.WithContext(ctx)
	user, err := findUser(db, discordID)
	if err != nil {
		return nil, err
	}
	var decks []models.Deck
	if err := db.Preload("Archetype").Where("user_id = ?", user.ID).Order("id ASC").Find(&decks).Error; err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// checkDeckNameFree returns ErrDeckExists when the user already owns a deck
// with the same name or one that shares its deck-list file.
func checkDeckNameFree(tx *gorm.DB, userID uint, name string) error {
	var names []string
	if err := tx.Model(&models.Deck{}).Where("user_id = ?", userID).Pluck("name", &names).Error; err != nil {
		return fmt.Errorf("list deck names: %w", err)
	}
	file := utils.SanitizeDeckName(name)
	for _, existing := range names {
		if existing == name || utils.SanitizeDeckName(existing) == file {
			return ErrDeckExists
		}
	}
	return nil
}

func findDeck(tx *gorm.DB, userID uint, name string) (*models.Deck, error) {
	var deck models.Deck
	err := tx.Where("user_id = ? AND name = ?", userID, strings.TrimSpace(name)).First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup deck %q: %w", name, err)
	}
	return &deck, nil
}
