package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseStore keeps the key-value pairs in a ReplacingMergeTree table.
// Every write appends a row with a higher version; removals append a
// tombstone. Reads take the latest version per key.
type ClickHouseStore struct {
	conn clickhouse.Conn

	mu          sync.Mutex
	lastVersion uint64
}

// NewClickHouseStore creates a new ClickHouse connection
func NewClickHouseStore(host string, port int, database, user, password string, useTLS bool) (*ClickHouseStore, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseStore{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (s *ClickHouseStore) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/clickhouse)
	return nil
}

// Get returns the latest value stored under key
func (s *ClickHouseStore) Get(ctx context.Context, key string) (string, bool, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT argMax(value, version), argMax(deleted, version)
		FROM kv
		WHERE key = ?
		GROUP BY key`, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}

	var (
		value   string
		deleted uint8
	)
	if err := rows.Scan(&value, &deleted); err != nil {
		return "", false, fmt.Errorf("failed to scan %s: %w", key, err)
	}
	if deleted != 0 {
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under key
func (s *ClickHouseStore) Set(ctx context.Context, key, value string) error {
	err := s.conn.Exec(ctx, `INSERT INTO kv (key, value, version, deleted) VALUES (?, ?, ?, ?)`,
		key, value, s.nextVersion(), uint8(0))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove writes a tombstone for key
func (s *ClickHouseStore) Remove(ctx context.Context, key string) error {
	err := s.conn.Exec(ctx, `INSERT INTO kv (key, value, version, deleted) VALUES (?, ?, ?, ?)`,
		key, "", s.nextVersion(), uint8(1))
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// nextVersion returns a nanosecond timestamp strictly greater than the previous one
func (s *ClickHouseStore) nextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint64(time.Now().UnixNano())
	if v <= s.lastVersion {
		v = s.lastVersion + 1
	}
	s.lastVersion = v
	return v
}

// Close closes the database connection
func (s *ClickHouseStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
