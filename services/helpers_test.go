package services

import (
	"context"
	"fmt"
	"testing"

	"deck-tracker-bot/db"
	"deck-tracker-bot/models"
	"deck-tracker-bot/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type testEnv struct {
	db         *gorm.DB
	users      *UserService
	archetypes *ArchetypeService
	decks      *DeckService
	matches    *MatchService
	matchups   *MatchupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	files := utils.NewDeckListStore(t.TempDir(), nil)
	return &testEnv{
		db:         gdb,
		users:      NewUserService(gdb),
		archetypes: NewArchetypeService(gdb),
		decks:      NewDeckService(gdb, files, zap.NewNop().Sugar()),
		matches:    NewMatchService(gdb),
		matchups:   NewMatchupService(gdb),
	}
}

func (e *testEnv) mustRegister(t *testing.T, discordID, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), discordID, name)
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustArchetype(t *testing.T, name string, keyCards ...string) *models.DeckArchetype {
	t.Helper()
	a, err := e.archetypes.Create(context.Background(), name, keyCards)
	require.NoError(t, err)
	return a
}
