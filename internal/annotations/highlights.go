package annotations

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"devotional/internal/errs"
	"devotional/internal/models"
)

func validateRef(ref models.VerseRef) error {
	if strings.TrimSpace(ref.Book) == "" {
		return errs.Invalid("book", "must not be empty")
	}
	if strings.TrimSpace(ref.Chapter) == "" {
		return errs.Invalid("chapter", "must not be empty")
	}
	if ref.Verse <= 0 {
		return errs.Invalid("verse", "must be positive")
	}
	return nil
}

// SetHighlight creates or replaces the highlight of a verse
func (s *Store) SetHighlight(ctx context.Context, h models.Highlight) (models.Highlight, error) {
	if err := validateRef(h.Ref()); err != nil {
		return models.Highlight{}, err
	}
	h.Color = strings.TrimSpace(h.Color)
	if h.Color == "" {
		return models.Highlight{}, errs.Invalid("color", "must not be empty")
	}

	_, err := s.highlights.Update(ctx, func(hs []models.Highlight) ([]models.Highlight, error) {
		i := slices.IndexFunc(hs, func(x models.Highlight) bool { return x.Ref() == h.Ref() })
		if i >= 0 {
			hs[i] = h
			return hs, nil
		}
		return append(hs, h), nil
	})
	if err != nil {
		return models.Highlight{}, fmt.Errorf("failed to set highlight: %w", err)
	}
	return h, nil
}

// ClearHighlight removes the highlight of a verse. Clearing a verse without a
// highlight is not an error.
func (s *Store) ClearHighlight(ctx context.Context, ref models.VerseRef) error {
	if err := validateRef(ref); err != nil {
		return err
	}
	_, err := s.highlights.Update(ctx, func(hs []models.Highlight) ([]models.Highlight, error) {
		return slices.DeleteFunc(hs, func(x models.Highlight) bool { return x.Ref() == ref }), nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear highlight: %w", err)
	}
	return nil
}

// Highlights returns the highlights, optionally only those of one chapter
// when book and chapter are given
func (s *Store) Highlights(ctx context.Context, book, chapter string) ([]models.Highlight, error) {
	hs, err := s.highlights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load highlights: %w", err)
	}
	out := make([]models.Highlight, 0, len(hs))
	for _, h := range hs {
		if book != "" && h.Book != book {
			continue
		}
		if chapter != "" && h.Chapter != chapter {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// SetVerseNote saves a short note for a verse reference. Blank text removes it.
func (s *Store) SetVerseNote(ctx context.Context, reference, text string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.Invalid("reference", "must not be empty")
	}
	text = strings.TrimSpace(text)

	_, err := s.verseNotes.Update(ctx, func(m map[string]string) (map[string]string, error) {
		if m == nil {
			m = make(map[string]string)
		}
		if text == "" {
			delete(m, reference)
		} else {
			m[reference] = text
		}
		return m, nil
	})
	if err != nil {
		return fmt.Errorf("failed to save verse note: %w", err)
	}
	return nil
}

// ClearVerseNote removes the note of a verse reference
func (s *Store) ClearVerseNote(ctx context.Context, reference string) error {
	return s.SetVerseNote(ctx, reference, "")
}

// VerseNote returns the note saved for a verse reference
func (s *Store) VerseNote(ctx context.Context, reference string) (string, bool, error) {
	m, err := s.verseNotes.Load(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to load verse notes: %w", err)
	}
	text, ok := m[reference]
	return text, ok, nil
}

// VerseNotes returns every saved verse note keyed by reference
func (s *Store) VerseNotes(ctx context.Context) (map[string]string, error) {
	m, err := s.verseNotes.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load verse notes: %w", err)
	}
	out := maps.Clone(m)
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}
