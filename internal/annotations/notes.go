package annotations

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"devotional/internal/errs"
	"devotional/internal/models"
	"devotional/internal/textmatch"
)

// NoteInput holds the editable fields of a note
type NoteInput struct {
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Category  models.NoteCategory `json:"category"`
	Reference string              `json:"reference,omitempty"`
}

// NoteFilter narrows ListNotes. Empty fields match everything.
type NoteFilter struct {
	Category models.NoteCategory
	Query    string
}

func (in NoteInput) normalize() (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Title == "" {
		return in, errs.Invalid("title", "must not be empty")
	}
	if in.Content == "" {
		return in, errs.Invalid("content", "must not be empty")
	}
	if in.Category == "" {
		in.Category = models.NotePersonal
	}
	if !in.Category.Valid() {
		return in, errs.Invalid("category", fmt.Sprintf("unknown category %q", in.Category))
	}
	return in, nil
}

// CreateNote stores a new note
func (s *Store) CreateNote(ctx context.Context, in NoteInput) (models.Note, error) {
	in, err := in.normalize()
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        s.ids.Next(),
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Reference: in.Reference,
		CreatedAt: s.timestamp(),
	}
	_, err = s.notes.Update(ctx, func(notes []models.Note) ([]models.Note, error) {
		return append([]models.Note{note}, notes...), nil
	})
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("Note created", zap.String("note_id", note.ID), zap.String("category", string(note.Category)))
	return note, nil
}

// UpdateNote replaces the editable fields of a note, keeping its id and
// creation time
func (s *Store) UpdateNote(ctx context.Context, id string, in NoteInput) (models.Note, error) {
	in, err := in.normalize()
	if err != nil {
		return models.Note{}, err
	}

	var updated models.Note
	_, err = s.notes.Update(ctx, func(notes []models.Note) ([]models.Note, error) {
		i := slices.IndexFunc(notes, func(n models.Note) bool { return n.ID == id })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		notes[i].Title = in.Title
		notes[i].Content = in.Content
		notes[i].Category = in.Category
		notes[i].Reference = in.Reference
		updated = notes[i]
		return notes, nil
	})
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to update note %s: %w", id, err)
	}
	return updated, nil
}

// DeleteNote removes a note
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	_, err := s.notes.Update(ctx, func(notes []models.Note) ([]models.Note, error) {
		i := slices.IndexFunc(notes, func(n models.Note) bool { return n.ID == id })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		return slices.Delete(notes, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

// Note returns one note by id
func (s *Store) Note(ctx context.Context, id string) (models.Note, error) {
	notes, err := s.notes.Load(ctx)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to load notes: %w", err)
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, errs.ErrNotFound
}

// ListNotes returns the notes matching filter, newest first. The category
// must match exactly; the query is a case-insensitive substring of the title,
// the content or the reference.
func (s *Store) ListNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	matcher, err := textmatch.New(filter.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query: %w", err)
	}

	notes, err := s.notes.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if filter.Category != "" && n.Category != filter.Category {
			continue
		}
		if !matcher.Match(n.Title, n.Content, n.Reference) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
