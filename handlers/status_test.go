package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"


	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStatusApp(t *testing.T, token string) (*fiber.App, *harness) {
	t.Helper()
	h := newHarness(t)
	app := fiber.New()
	SetupStatusRoutes(app, &StatusHandlers{
		Archetypes: h.handlers.Archetypes,
		Matchups:   h.handlers.Matchups,
		Log:        zap.NewNop().Sugar(),
	}, token)
	return app, h
}

func TestStatusHealthIsPublic(t *testing.T) {
	app, _ := newStatusApp(t, "secret")
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStatusRequiresServiceToken(t *testing.T) {
	app, _ := newStatusApp(t, "secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/archetypes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/archetypes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStatusArchetypesAndMatchups(t *testing.T) {
	app, h := newStatusApp(t, "secret")
	ctx := context.Background()
	_, err := h.handlers.Archetypes.Create(ctx, "Blue-Eyes", []string{"Blue-Eyes White Dragon"})
	require.NoError(t, err)
	_, err = h.handlers.Archetypes.EnsureOthers(ctx)
	require.NoError(t, err)

	h.send("u1", "dm", "", "!register")
	h.addDeck(t, "u1", "Dragons", "3 Blue-Eyes White Dragon\n")
	h.send("u1", "dm", "", "!log_match Dragons won")
	h.send("u1", "dm", "", "2")

	req := httptest.NewRequest("GET", "/archetypes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var archetypes []struct {
		Name     string   `json:"name"`
		KeyCards []string `json:"key_cards"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &archetypes))
	require.Len(t, archetypes, 2)
	assert.Equal(t, "Blue-Eyes", archetypes[0].Name)
	assert.Equal(t, []string{"Blue-Eyes White Dragon"}, archetypes[0].KeyCards)
	assert.Equal(t, "Others", archetypes[1].Name)
	assert.Empty(t, archetypes[1].KeyCards)

	req = httptest.NewRequest("GET", "/archetypes/blue-eyes/matchups", nil)
	req.Header.Set("Authorization", "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report struct {
		Archetype string `json:"archetype"`
		Wins      int    `json:"wins"`
		Losses    int    `json:"losses"`
		Matches   []struct {
			Deck              string `json:"deck"`
			OpponentArchetype string `json:"opponent_archetype"`
			Date              string `json:"date"`
		} `json:"matches"`
	}
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "Blue-Eyes", report.Archetype)
	assert.Equal(t, 1, report.Wins)
	assert.Zero(t, report.Losses)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "Others", report.Matches[0].OpponentArchetype)
	assert.Equal(t, "2026-10-17", report.Matches[0].Date)

	req = httptest.NewRequest("GET", "/archetypes/Burn/matchups", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

