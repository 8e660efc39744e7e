package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// MatchupEntry is one stored match as shown by matchup_history.
type MatchupEntry struct {
	MatchID           uint
	OwnerID           string // Discord ID of the deck owner
	Player            string
	DeckName          string
	Result            string
	OpponentArchetype string
	Date              *time.Time
}

// OpponentSpread is the record against one opponent archetype.
type OpponentSpread struct {
	Opponent string
	Wins     int
	Losses   int
}

// MatchupReport summarizes every match played with decks of one archetype.
type MatchupReport struct {
	Archetype string
	Wins      int
	Losses    int
	Entries   []MatchupEntry
	Spread    []OpponentSpread
}

// Summary is the "<wins> wins and <losses> losses" line.
func (r *MatchupReport) Summary() string {
	return fmt.Sprintf("%d wins and %d losses", r.Wins, r.Losses)
}

type MatchupService struct {
	DB *gorm.DB
}

func NewMatchupService(db *gorm.DB) *MatchupService {
	return &MatchupService{DB: db}
}

func isWin(result string) bool {
	switch cases.Fold().String(strings.TrimSpace(result)) {
	case "win", "won":
		return true
	}
	return false
}

func isLoss(result string) bool {
	switch cases.Fold().String(strings.TrimSpace(result)) {
	case "loss", "lose", "lost":
		return true
	}
	return false
}

// Report collects the matches of decks tagged archetypeName whose owners are
// in memberIDs (Discord IDs of the current guild members). A nil memberIDs
// means no member filter. Membership is checked in memory, so the guild size
// does not bound the query.
func (s *MatchupService) Report(ctx context.Context, archetypeName string, memberIDs []string) (*MatchupReport, error) {
	db := s.DB.WithContext(ctx)
	archetype, err := findArchetype(db, archetypeName)
	if err != nil {
		return nil, err
	}

	report := &MatchupReport{Archetype: archetype.Name}
	if memberIDs != nil && len(memberIDs) == 0 {
		return report, nil
	}

	var entries []MatchupEntry
	err = db.Table("matches").
		Select("matches.id AS match_id, users.discord_id AS owner_id, matches.player, decks.name AS deck_name, matches.result, matches.opponent_archetype, matches.date").
		Joins("JOIN decks ON decks.id = matches.deck_id").
		Joins("JOIN users ON users.id = decks.user_id").
		Where("decks.archetype_id = ?", archetype.ID).
		Order("matches.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("matchups for %q: %w", archetype.Name, err)
	}

	if memberIDs == nil {
		report.Entries = entries
	} else {
		members := make(map[string]struct{}, len(memberIDs))
		for _, id := range memberIDs {
			members[id] = struct{}{}
		}
		for _, e := range entries {
			if _, ok := members[e.OwnerID]; ok {
				report.Entries = append(report.Entries, e)
			}
		}
	}

	spread := map[string]*OpponentSpread{}
	for _, e := range report.Entries {
		o, ok := spread[e.OpponentArchetype]
		if !ok {
			o = &OpponentSpread{Opponent: e.OpponentArchetype}
			spread[e.OpponentArchetype] = o
		}
		switch {
		case isWin(e.Result):
			report.Wins++
			o.Wins++
		case isLoss(e.Result):
			report.Losses++
			o.Losses++
		}
	}
	for _, o := range spread {
		report.Spread = append(report.Spread, *o)
	}
	sort.Slice(report.Spread, func(i, j int) bool {
		return report.Spread[i].Opponent < report.Spread[j].Opponent
	})
	return report, nil
}
