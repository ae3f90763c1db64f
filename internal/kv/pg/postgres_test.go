package pg

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"devotional/internal/kv"
	"devotional/migrations"
)

var _ kv.Store = (*PostgresStore)(nil)

// runMigrations applies the embedded goose migrations
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrations.Up(db, "postgres")
}

// setupTestDB creates a test PostgreSQL instance using testcontainers
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("devotional"),
		postgres.WithUsername("devotional"),
		postgres.WithPassword("devotional"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, runMigrations(dsn), "Failed to run migrations")

	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err, "Failed to connect to PostgreSQL")

	cleanup := func() {
		store.Close()
		pgContainer.Terminate(ctx)
	}
	return store, cleanup
}

func TestPostgresStore_SetGetRemove(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, ok, err := store.Get(ctx, kv.KeyHighlightedVerses)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, kv.KeyHighlightedVerses, `[{"book":"João"}]`))
	v, ok, err := store.Get(ctx, kv.KeyHighlightedVerses)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"book":"João"}]`, v)

	require.NoError(t, store.Set(ctx, kv.KeyHighlightedVerses, `[]`))
	v, _, err = store.Get(ctx, kv.KeyHighlightedVerses)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, store.Remove(ctx, kv.KeyHighlightedVerses))
	_, ok, err = store.Get(ctx, kv.KeyHighlightedVerses)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStore_Document(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	doc := kv.NewDocument[map[string]string](store, kv.KeySavedVerseNotes, zap.NewNop())

	_, err := doc.Update(ctx, func(m map[string]string) (map[string]string, error) {
		if m == nil {
			m = make(map[string]string)
		}
		m["Salmos 23:1"] = "nada me faltará"
		return m, nil
	})
	require.NoError(t, err)

	v, err := kv.NewDocument[map[string]string](store, kv.KeySavedVerseNotes, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Salmos 23:1": "nada me faltará"}, v)
}
