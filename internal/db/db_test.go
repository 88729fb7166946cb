package db

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/db/migrations"
	"github.com/geocoder89/recipehub/internal/repo/memory"
	"github.com/geocoder89/recipehub/internal/security"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_create_users.sql", "00002_create_recipes.sql"}, files)

	for _, name := range files {
		b, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up", name)
		assert.Contains(t, string(b), "-- +goose Down", name)
	}
}

func TestRunGoose_Dispatch(t *testing.T) {
	origUp, origDown, origStatus := gooseUp, gooseDown, gooseStatus
	t.Cleanup(func() { gooseUp, gooseDown, gooseStatus = origUp, origDown, origStatus })

	var called []string
	record := func(name string) func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			called = append(called, name+":"+dir)
			return nil
		}
	}
	gooseUp, gooseDown, gooseStatus = record("up"), record("down"), record("status")

	ctx := context.Background()
	require.NoError(t, runGoose(ctx, nil, "up"))
	require.NoError(t, runGoose(ctx, nil, "down"))
	require.NoError(t, runGoose(ctx, nil, "status"))
	assert.Error(t, runGoose(ctx, nil, "sideways"))

	assert.Equal(t, []string{"up:.", "down:.", "status:."}, called)
}

func TestEnsureSeedUser(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	created, err := EnsureSeedUser(ctx, users, config.Config{})
	require.NoError(t, err)
	assert.False(t, created, "no seed configured")

	cfg := config.Config{SeedEmail: " Chef@Example.com ", SeedPassword: "kitchen1"}

	created, err = EnsureSeedUser(ctx, users, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.GetByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.Equal(t, "RecipeHub Admin", u.FullName)
	assert.True(t, security.VerifyPassword("kitchen1", u.PasswordHash))

	created, err = EnsureSeedUser(ctx, users, cfg)
	require.NoError(t, err)
	assert.False(t, created, "second run is a no-op")
}

func TestEnsureSeedUser_PasswordByteLimit(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	cfg := config.Config{SeedEmail: "chef@example.com", SeedPassword: strings.Repeat("é", 40)}

	created, err := EnsureSeedUser(ctx, users, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_USER_PASSWORD")
	assert.False(t, created)

	_, err = users.GetByEmail(ctx, "chef@example.com")
	assert.Error(t, err, "nothing is created")
}
