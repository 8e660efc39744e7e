package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"deck-tracker-bot/models"
)

// deckLinePattern matches "<quantity> <card name>" lines, e.g. "3 Ash Blossom & Joyous Spring".
// An "x" after the quantity ("3x Ash Blossom") is tolerated.
var deckLinePattern = regexp.MustCompile(`(?m)^[ \t]*(\d+)[xX]?[ \t]+(\S.*?)[ \t]*\r?$`)

// ExtractCardNames returns every card name found in a deck list, in file order.
// Lines that do not start with a quantity (section headers, comments) are skipped.
// A leading UTF-8 byte order mark is ignored.
func ExtractCardNames(deckText string) []string {
	deckText = strings.TrimPrefix(deckText, "\ufeff")
	matches := deckLinePattern.FindAllStringSubmatch(deckText, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[2])
	}
	return names
}

// NormalizeCardName drops whitespace and dashes and lower-cases the rest,
// so "Blue-Eyes White Dragon" becomes "blueeyeswhitedragon".
func NormalizeCardName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.Is(unicode.Pd, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// OrderForMatching returns archetypes in classifier order: archetypes with key
// cards by ascending ID, then every archetype without key cards. An archetype
// with no key cards matches any deck, so it can only ever be the fallback.
func OrderForMatching(archetypes []models.DeckArchetype) []models.DeckArchetype {
	ordered := make([]models.DeckArchetype, len(archetypes))
	copy(ordered, archetypes)
	sort.SliceStable(ordered, func(i, j int) bool {
		ei := len(ordered[i].KeyCardList()) == 0
		ej := len(ordered[j].KeyCardList()) == 0
		if ei != ej {
			return !ei
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// ClassifyDeck returns the name of the first archetype whose key cards all
// appear (as substrings, after normalization) in some card of the deck list.
// It returns models.OthersArchetype when nothing matches.
func ClassifyDeck(deckText string, archetypes []models.DeckArchetype) string {
	cards := ExtractCardNames(deckText)
	normalized := make([]string, len(cards))
	for i, c := range cards {
		normalized[i] = NormalizeCardName(c)
	}

	for _, a := range OrderForMatching(archetypes) {
		if matchesAllKeyCards(normalized, a.KeyCardList()) {
			return a.Name
		}
	}
	return models.OthersArchetype
}

func matchesAllKeyCards(cards, keyCards []string) bool {
	for _, k := range keyCards {
		key := NormalizeCardName(k)
		found := false
		for _, c := range cards {
			if strings.Contains(c, key) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
