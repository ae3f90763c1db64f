// Package annotations keeps the user's notes, highlights, favourites, hymn
// history and saved per-verse notes.
package annotations

import (
	"go.uber.org/zap"

	"devotional/internal/clock"
	"devotional/internal/ids"
	"devotional/internal/kv"
	"devotional/internal/models"
)

// timestampLayout renders creation times as UTC ISO-8601 with milliseconds
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Store owns the annotation collections. Each collection is a separate
// document so that unrelated updates never overwrite each other.
type Store struct {
	notes         *kv.Document[[]models.Note]
	favorites     *kv.Document[[]models.FavoriteVerse]
	hymnFavorites *kv.Document[[]int]
	hymnRecents   *kv.Document[[]int]
	highlights    *kv.Document[[]models.Highlight]
	verseNotes    *kv.Document[map[string]string]

	cal    *clock.Calendar
	ids    *ids.Generator
	logger *zap.Logger
}

// New creates an annotation store
func New(store kv.Store, cal *clock.Calendar, gen *ids.Generator, logger *zap.Logger) *Store {
	return &Store{
		notes:         kv.NewDocument[[]models.Note](store, kv.KeyNotes, logger),
		favorites:     kv.NewDocument[[]models.FavoriteVerse](store, kv.KeyFavoriteVerses, logger),
		hymnFavorites: kv.NewDocument[[]int](store, kv.KeyHymnFavorites, logger),
		hymnRecents:   kv.NewDocument[[]int](store, kv.KeyHymnRecents, logger),
		highlights:    kv.NewDocument[[]models.Highlight](store, kv.KeyHighlightedVerses, logger),
		verseNotes:    kv.NewDocument[map[string]string](store, kv.KeySavedVerseNotes, logger),
		cal:           cal,
		ids:           gen,
		logger:        logger,
	}
}

func (s *Store) timestamp() string {
	return s.cal.Now().UTC().Format(timestampLayout)
}
