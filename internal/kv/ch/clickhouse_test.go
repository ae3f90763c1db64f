package ch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"go.uber.org/zap"

	"devotional/internal/kv"
)

var _ kv.Store = (*ClickHouseStore)(nil)

// runMigrations manually creates the kv table
func runMigrations(ctx context.Context, s *ClickHouseStore) error {
	_ = s.conn.Exec(ctx, "DROP TABLE IF EXISTS kv")

	return s.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key String,
			value String,
			version UInt64,
			deleted UInt8
		) ENGINE = ReplacingMergeTree(version)
		ORDER BY key
	`)
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseStore, func()) {
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	store, err := NewClickHouseStore(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	// goose doesn't work well with ClickHouse in tests
	err = runMigrations(ctx, store)
	require.NoError(t, err, "Failed to run migrations")

	cleanup := func() {
		store.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return store, cleanup
}

// TestClickHouseStore_SetGetRemove tests the basic key lifecycle
func TestClickHouseStore_SetGetRemove(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Initially missing
	_, ok, err := store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, kv.KeyAlarms, `[{"id":"1"}]`))
	v, ok, err := store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	// Latest version wins before and after merges
	require.NoError(t, store.Set(ctx, kv.KeyAlarms, `[]`))
	v, _, err = store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, store.conn.Exec(ctx, "OPTIMIZE TABLE kv FINAL"))
	v, _, err = store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	// Tombstone hides the key
	require.NoError(t, store.Remove(ctx, kv.KeyAlarms))
	_, ok, err = store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.False(t, ok)

	// Re-setting after removal resurrects it
	require.NoError(t, store.Set(ctx, kv.KeyAlarms, `[{"id":"2"}]`))
	v, ok, err = store.Get(ctx, kv.KeyAlarms)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"2"}]`, v)
}

// TestClickHouseStore_Document tests whole-collection writes through a document
func TestClickHouseStore_Document(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	doc := kv.NewDocument[[]string](store, kv.KeyHymnRecents, zap.NewNop())

	for _, n := range []string{"1", "2", "3"} {
		_, err := doc.Update(ctx, func(v []string) ([]string, error) { return append(v, n), nil })
		require.NoError(t, err)
	}

	v, err := kv.NewDocument[[]string](store, kv.KeyHymnRecents, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, v)
}

func TestClickHouseStore_NextVersionIsMonotonic(t *testing.T) {
	s := &ClickHouseStore{}
	prev := s.nextVersion()
	for i := 0; i < 1000; i++ {
		v := s.nextVersion()
		assert.Greater(t, v, prev)
		prev = v
	}
}
