package migrations

import (
	"database/sql"
	"io/fs"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForBackend(t *testing.T) {
	testCases := []struct {
		backend string
		dialect string
		wantErr bool
	}{
		{backend: "clickhouse", dialect: "clickhouse"},
		{backend: "postgres", dialect: "postgres"},
		{backend: "sqlite", dialect: "sqlite3"},
		{backend: "memory", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			d, err := ForBackend(tc.backend)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.dialect, d.Name)

			files, err := fs.Glob(FS, d.Dir+"/*.sql")
			require.NoError(t, err)
			assert.NotEmpty(t, files)
		})
	}
}

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:"+t.TempDir()+"/migrate.db")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Up(db, "sqlite"))

	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES ('userName', '"Ana"')`)
	require.NoError(t, err)

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM kv WHERE key = 'userName'`).Scan(&value))
	assert.Equal(t, `"Ana"`, value)

	// Re-running is a no-op
	require.NoError(t, Up(db, "sqlite"))
}
