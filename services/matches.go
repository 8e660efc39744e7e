package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deck-tracker-bot/models"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var resultTokens = map[string]string{
	"won":  models.ResultWin,
	"win":  models.ResultWin,
	"1":    models.ResultWin,
	"lost": models.ResultLoss,
	"lose": models.ResultLoss,
	"2":    models.ResultLoss,
}

// NormalizeResult maps a user-typed result to Win or Loss, case-insensitively.
func NormalizeResult(token string) (string, error) {
	if r, ok := resultTokens[cases.Fold().String(strings.TrimSpace(token))]; ok {
		return r, nil
	}
	return "", ErrInvalidResult
}

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

// PendingMatch is a validated log_match request still waiting for the
// opponent archetype.
type PendingMatch struct {
	UserID   uint
	Player   string
	DeckID   uint
	DeckName string
	Result   string
}

// Prepare validates registration, deck ownership and the result token.
// Nothing is written.
func (s *MatchService) Prepare(ctx context.Context, discordID, deckName, resultToken string) (*PendingMatch, error) {
	db := s.DB.WithContext(ctx)
	user, err := findUser(db, discordID)
	if err != nil {
		return nil, err
	}
	deck, err := findDeck(db, user.ID, deckName)
	if err != nil {
		return nil, err
	}
	result, err := NormalizeResult(resultToken)
	if err != nil {
		return nil, err
	}
	return &PendingMatch{
		UserID:   user.ID,
		Player:   user.Username,
		DeckID:   deck.ID,
		DeckName: deck.Name,
		Result:   result,
	}, nil
}

// Record persists the match against a known opponent archetype, dated on.
func (s *MatchService) Record(ctx context.Context, p *PendingMatch, opponentArchetype string, on time.Time) (*models.Match, error) {
	var match *models.Match
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		opponent, err := findArchetype(tx, opponentArchetype)
		if err != nil {
			return err
		}
		day := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
		match = &models.Match{
			DeckID:            p.DeckID,
			Result:            p.Result,
			OpponentArchetype: opponent.Name,
			Player:            p.Player,
			Date:              &day,
		}
		return tx.Omit(clause.Associations).Create(match).Error
	})
	if err != nil {
		if errors.Is(err, ErrArchetypeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("record match for deck %q: %w", p.DeckName, err)
	}
	return match, nil
}
