package services

import (
	"testing"

	"deck-tracker-bot/models"

	"github.com/stretchr/testify/assert"
)

const blueEyesList = `Main deck
1 Blue-Eyes White Dragon
1 Polymerization
3 Ash Blossom & Joyous Spring
`

func TestExtractCardNames(t *testing.T) {
	text := "Monsters\n3 Ash Blossom & Joyous Spring\r\n2x Maxx \"C\"\n  1   Dark Magician  \n# sideboard\nnot a card\n"
	assert.Equal(t, []string{"Ash Blossom & Joyous Spring", `Maxx "C"`, "Dark Magician"}, ExtractCardNames(text))
}

func TestExtractCardNamesSkipsByteOrderMark(t *testing.T) {
	text := "\ufeff1 Blue-Eyes White Dragon\n1 Polymerization\n"
	assert.Equal(t, []string{"Blue-Eyes White Dragon", "Polymerization"}, ExtractCardNames(text))

	archetypes := []models.DeckArchetype{{ID: 1, Name: "Blue-Eyes", KeyCards: "Blue-Eyes White Dragon"}}
	assert.Equal(t, "Blue-Eyes", ClassifyDeck(text, archetypes))
}

func TestExtractCardNamesEmpty(t *testing.T) {
	assert.Empty(t, ExtractCardNames(""))
	assert.Empty(t, ExtractCardNames("no quantities here\njust words"))
}

func TestNormalizeCardName(t *testing.T) {
	assert.Equal(t, "blueeyeswhitedragon", NormalizeCardName("Blue-Eyes White Dragon"))
	assert.Equal(t, "polymerization", NormalizeCardName(" Polymerization\t"))
}

func TestClassifyDeckMatchesAllKeyCards(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 1, Name: "Blue-Eyes", KeyCards: "Blue-Eyes White Dragon, Polymerization"},
	}
	assert.Equal(t, "Blue-Eyes", ClassifyDeck(blueEyesList, archetypes))
}

func TestClassifyDeckKeyCardIsSubstringOfCard(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 1, Name: "Ash", KeyCards: "ash blossom"},
	}
	assert.Equal(t, "Ash", ClassifyDeck(blueEyesList, archetypes))
}

func TestClassifyDeckRequiresEveryKeyCard(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 1, Name: "Dark Magician", KeyCards: "Dark Magician, Polymerization"},
	}
	assert.Equal(t, models.OthersArchetype, ClassifyDeck(blueEyesList, archetypes))
}

func TestClassifyDeckFirstMatchWins(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 2, Name: "Fusion", KeyCards: "Polymerization"},
		{ID: 1, Name: "Blue-Eyes", KeyCards: "Blue-Eyes White Dragon"},
	}
	assert.Equal(t, "Blue-Eyes", ClassifyDeck(blueEyesList, archetypes))
}

func TestClassifyDeckEmptyKeyCardArchetypeIsLast(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 1, Name: models.OthersArchetype, KeyCards: ""},
		{ID: 5, Name: "Blue-Eyes", KeyCards: "Blue-Eyes White Dragon"},
	}
	assert.Equal(t, "Blue-Eyes", ClassifyDeck(blueEyesList, archetypes))
	assert.Equal(t, models.OthersArchetype, ClassifyDeck("1 Dark Magician", archetypes))
}

func TestClassifyDeckMalformedTextFallsBack(t *testing.T) {
	archetypes := []models.DeckArchetype{
		{ID: 1, Name: "Blue-Eyes", KeyCards: "Blue-Eyes White Dragon"},
	}
	assert.Equal(t, models.OthersArchetype, ClassifyDeck("", archetypes))
	assert.Equal(t, models.OthersArchetype, ClassifyDeck("Blue-Eyes White Dragon", archetypes))
	assert.Equal(t, models.OthersArchetype, ClassifyDeck(blueEyesList, nil))
}

func TestOrderForMatching(t *testing.T) {
	ordered := OrderForMatching([]models.DeckArchetype{
		{ID: 3, Name: "C", KeyCards: "c"},
		{ID: 1, Name: models.OthersArchetype},
		{ID: 2, Name: "B", KeyCards: "b"},
		{ID: 4, Name: "Blank", KeyCards: " , "},
	})
	var names []string
	for _, a := range ordered {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"B", "C", models.OthersArchetype, "Blank"}, names)
}
