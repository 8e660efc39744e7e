package services

import (
	"context"
	"testing"

	"deck-tracker-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.Register(ctx, "1001", "alice")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := env.users.Register(ctx, "1001", "alice-renamed")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice", second.Username)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("discord_id = ?", "1001").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetByDiscordIDUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.GetByDiscordID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotRegistered)
}
