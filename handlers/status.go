package handlers

import (
	"errors"
	"net/url"

	"deck-tracker-bot/middleware"
	"deck-tracker-bot/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusHandlers serves a read-only view of archetypes and matchups.
type StatusHandlers struct {
	Archetypes *services.ArchetypeService
	Matchups   *services.MatchupService
	Log        *zap.SugaredLogger
}

func SetupStatusRoutes(app *fiber.App, h *StatusHandlers, serviceToken string) {
	// 🔓 Public
	app.Get("/health", h.Health)

	// 🔐 Bearer service token
	secured := app.Group("/", middleware.ServiceTokenMiddleware(serviceToken, h.Log))
	secured.Get("/archetypes", h.GetArchetypes)
	secured.Get("/archetypes/:name/matchups", h.GetMatchups)
}

func (h *StatusHandlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *StatusHandlers) GetArchetypes(c *fiber.Ctx) error {
	archetypes, err := h.Archetypes.List(c.UserContext())
	if err != nil {
		h.Log.Errorw("❌ [STATUS] list archetypes failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch archetypes"})
	}

	type archetypeSummary struct {
		ID       uint     `json:"id"`
		Name     string   `json:"name"`
		KeyCards []string `json:"key_cards"`
	}
	res := make([]archetypeSummary, 0, len(archetypes))
	for _, a := range services.OrderForMatching(archetypes) {
		cards := a.KeyCardList()
		if cards == nil {
			cards = []string{}
		}
		res = append(res, archetypeSummary{ID: a.ID, Name: a.Name, KeyCards: cards})
	}
	return c.JSON(res)
}

// GetMatchups reports on every recorded match of an archetype, across all servers.
func (h *StatusHandlers) GetMatchups(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid archetype name"})
	}

	report, err := h.Matchups.Report(c.UserContext(), name, nil)
	if errors.Is(err, services.ErrArchetypeNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archetype not found"})
	}
	if err != nil {
		h.Log.Errorw("❌ [STATUS] matchup report failed", "archetype", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build matchup report"})
	}

	type entry struct {
		Player            string `json:"player"`
		Deck              string `json:"deck"`
		Result            string `json:"result"`
		OpponentArchetype string `json:"opponent_archetype"`
		Date              string `json:"date,omitempty"`
	}
	type spread struct {
		Opponent string `json:"opponent"`
		Wins     int    `json:"wins"`
		Losses   int    `json:"losses"`
	}

	entries := make([]entry, 0, len(report.Entries))
	for _, e := range report.Entries {
		out := entry{Player: e.Player, Deck: e.DeckName, Result: e.Result, OpponentArchetype: e.OpponentArchetype}
		if e.Date != nil {
			out.Date = e.Date.Format("2006-01-02")
		}
		entries = append(entries, out)
	}
	spreads := make([]spread, 0, len(report.Spread))
	for _, s := range report.Spread {
		spreads = append(spreads, spread{Opponent: s.Opponent, Wins: s.Wins, Losses: s.Losses})
	}

	return c.JSON(fiber.Map{
		"archetype": report.Archetype,
		"wins":      report.Wins,
		"losses":    report.Losses,
		"spread":    spreads,
		"matches":   entries,
	})
}
