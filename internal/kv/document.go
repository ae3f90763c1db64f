package kv

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"devotional/internal/errs"
)

// Document is a whole collection persisted as one JSON blob under a fixed key.
// Mutations are serialized: each Update reads the stored blob, applies the
// change and writes the blob back before the next one starts. The cached
// snapshot only advances after a successful write.
type Document[T any] struct {
	mu     sync.Mutex
	store  Store
	key    string
	logger *zap.Logger
	cached T
}

// NewDocument creates a document bound to key
func NewDocument[T any](store Store, key string, logger *zap.Logger) *Document[T] {
	return &Document[T]{
		store:  store,
		key:    key,
		logger: logger.With(zap.String("key", key)),
	}
}

// Key returns the store key of the document
func (d *Document[T]) Key() string {
	return d.key
}

// Load reads the stored collection and refreshes the snapshot.
// A missing key yields the zero value.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.read(ctx)
	if err != nil {
		return d.cached, err
	}
	d.cached = v
	return v, nil
}

// Snapshot returns the last value successfully loaded or written.
// Callers must not modify the returned value.
func (d *Document[T]) Snapshot() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cached
}

// Update applies fn to the stored collection and writes the result back.
// If fn fails nothing is written. Store failures are logged and returned as
// *errs.StorageError; the snapshot then keeps its previous value.
func (d *Document[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.read(ctx)
	if err != nil {
		return d.cached, err
	}

	next, err := fn(current)
	if err != nil {
		return d.cached, err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		d.logger.Error("Failed to encode collection", zap.Error(err))
		return d.cached, &errs.StorageError{Op: "encode", Key: d.key, Err: err}
	}
	if err := d.store.Set(ctx, d.key, string(raw)); err != nil {
		d.logger.Error("Failed to write collection", zap.Error(err))
		return d.cached, &errs.StorageError{Op: "write", Key: d.key, Err: err}
	}

	d.cached = next
	return next, nil
}

func (d *Document[T]) read(ctx context.Context) (T, error) {
	var v T
	raw, ok, err := d.store.Get(ctx, d.key)
	if err != nil {
		d.logger.Error("Failed to read collection", zap.Error(err))
		return v, &errs.StorageError{Op: "read", Key: d.key, Err: err}
	}
	if !ok || raw == "" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		d.logger.Error("Failed to decode collection", zap.Error(err))
		return v, &errs.StorageError{Op: "decode", Key: d.key, Err: err}
	}
	return v, nil
}
