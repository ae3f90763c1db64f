// Package migrations bundles the goose migrations of every SQL backend.
package migrations

import "embed"

// FS holds one directory per goose dialect
//
//go:embed clickhouse/*.sql postgres/*.sql sqlite/*.sql
var FS embed.FS
