package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deck-tracker-bot/models"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

type ArchetypeService struct {
	DB *gorm.DB
}

func NewArchetypeService(db *gorm.DB) *ArchetypeService {
	return &ArchetypeService{DB: db}
}

// ParseKeyCards splits a comma separated reply into trimmed key cards.
func ParseKeyCards(raw string) []string {
	return models.SplitKeyCards(raw)
}

// FoldName is the comparison key for archetype names typed by users:
// accents transliterated, case folded, surrounding space trimmed.
func FoldName(name string) string {
	return cases.Fold().String(unidecode.Unidecode(strings.TrimSpace(name)))
}

// List returns every archetype by ascending ID.
func (s *ArchetypeService) List(ctx context.Context) ([]models.DeckArchetype, error) {
	var archetypes []models.DeckArchetype
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&archetypes).Error; err != nil {
		return nil, fmt.Errorf("list archetypes: %w", err)
	}
	return archetypes, nil
}

// EnsureOthers returns the catch-all archetype, creating it if absent.
func (s *ArchetypeService) EnsureOthers(ctx context.Context) (*models.DeckArchetype, error) {
	return ensureOthers(s.DB.WithContext(ctx))
}

func ensureOthers(tx *gorm.DB) (*models.DeckArchetype, error) {
	var others models.DeckArchetype
	err := tx.Where(models.DeckArchetype{Name: models.OthersArchetype}).FirstOrCreate(&others).Error
	if err != nil {
		return nil, fmt.Errorf("ensure %s archetype: %w", models.OthersArchetype, err)
	}
	return &others, nil
}

// Create persists a new archetype. Names are unique regardless of case and
// accents, and the catch-all name is reserved.
func (s *ArchetypeService) Create(ctx context.Context, name string, keyCards []string) (*models.DeckArchetype, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if FoldName(name) == FoldName(models.OthersArchetype) {
		return nil, ErrArchetypeExists
	}
	if len(keyCards) == 0 {
		return nil, ErrNoKeyCards
	}

	archetype := &models.DeckArchetype{
		Name:     name,
		KeyCards: strings.Join(keyCards, ", "),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findArchetype(tx, name); err == nil {
			return ErrArchetypeExists
		} else if !errors.Is(err, ErrArchetypeNotFound) {
			return err
		}
		return tx.Create(archetype).Error
	})
	if err != nil {
		if errors.Is(err, ErrArchetypeExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create archetype %q: %w", name, err)
	}
	return archetype, nil
}

// FindByName resolves a user-typed archetype name.
func (s *ArchetypeService) FindByName(ctx context.Context, name string) (*models.DeckArchetype, error) {
	return findArchetype(s.DB.WithContext(ctx), name)
}

func findArchetype(tx *gorm.DB, name string) (*models.DeckArchetype, error) {
	var exact models.DeckArchetype
	err := tx.Where("name = ?", strings.TrimSpace(name)).First(&exact).Error
	if err == nil {
		return &exact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var all []models.DeckArchetype
	if err := tx.Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	want := FoldName(name)
	for i := range all {
		if FoldName(all[i].Name) == want {
			return &all[i], nil
		}
	}
	return nil, ErrArchetypeNotFound
}
