package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devotional/internal/annotations"
	"devotional/internal/errs"
	"devotional/internal/models"
)

func (s *Server) loadAnnotationRoutes(r chi.Router) {
	r.Route("/notes", func(r chi.Router) {
		r.Get("/", s.handleListNotes)
		r.Post("/", s.handleCreateNote)
		r.Get("/{id}", s.handleGetNote)
		r.Put("/{id}", s.handleUpdateNote)
		r.Delete("/{id}", s.handleDeleteNote)
	})

	r.Get("/favorites/verses", s.handleFavoriteVerses)
	r.Post("/favorites/verses/toggle", s.handleToggleFavoriteVerse)

	r.Get("/highlights", s.handleHighlights)
	r.Put("/highlights", s.handleSetHighlight)
	r.Delete("/highlights", s.handleClearHighlight)

	r.Get("/verse-notes", s.handleVerseNotes)
	r.Put("/verse-notes", s.handleSetVerseNote)
	r.Delete("/verse-notes", s.handleClearVerseNote)

	r.Route("/hymns", func(r chi.Router) {
		r.Get("/favorites", s.handleHymnFavorites)
		r.Post("/favorites/{number}/toggle", s.handleToggleHymnFavorite)
		r.Get("/recent", s.handleRecentHymns)
		r.Post("/recent/{number}", s.handleRecordHymnPlayed)
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	filter := annotations.NoteFilter{
		Category: models.NoteCategory(r.URL.Query().Get("category")),
		Query:    r.URL.Query().Get("q"),
	}
	notes, err := s.annotations.ListNotes(r.Context(), filter)
	if err != nil {
		s.fail(w, err, "Failed to list notes")
		return
	}
	Success(w, notes, "Notes")
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var in annotations.NoteInput
	if err := decode(r, &in); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	note, err := s.annotations.CreateNote(r.Context(), in)
	if err != nil {
		s.fail(w, err, "Failed to create note")
		return
	}
	Created(w, note, "Note created")
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.annotations.Note(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "Failed to load note")
		return
	}
	Success(w, note, "Note")
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var in annotations.NoteInput
	if err := decode(r, &in); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	note, err := s.annotations.UpdateNote(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, err, "Failed to update note")
		return
	}
	Success(w, note, "Note updated")
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.annotations.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "Failed to delete note")
		return
	}
	Success(w, nil, "Note deleted")
}

func (s *Server) handleFavoriteVerses(w http.ResponseWriter, r *http.Request) {
	favs, err := s.annotations.FavoriteVerses(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load favourite verses")
		return
	}
	if favs == nil {
		favs = []models.FavoriteVerse{}
	}
	Success(w, favs, "Favourite verses")
}

// handleToggleFavoriteVerse accepts either a full verse or {"id": n} for a
// verse of the corpus
func (s *Server) handleToggleFavoriteVerse(w http.ResponseWriter, r *http.Request) {
	var v models.Verse
	if err := decode(r, &v); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	if v.Reference == "" && v.ID != 0 {
		known, ok := s.verses.ByID(v.ID)
		if !ok {
			Error(w, http.StatusNotFound, "Verse not found", nil)
			return
		}
		v = known
	}

	favorite, err := s.annotations.ToggleFavoriteVerse(r.Context(), v)
	if err != nil {
		s.fail(w, err, "Failed to toggle favourite verse")
		return
	}
	Success(w, map[string]bool{"favorite": favorite}, "Favourite toggled")
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hs, err := s.annotations.Highlights(r.Context(), q.Get("book"), q.Get("chapter"))
	if err != nil {
		s.fail(w, err, "Failed to load highlights")
		return
	}
	Success(w, hs, "Highlights")
}

func (s *Server) handleSetHighlight(w http.ResponseWriter, r *http.Request) {
	var h models.Highlight
	if err := decode(r, &h); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	saved, err := s.annotations.SetHighlight(r.Context(), h)
	if err != nil {
		s.fail(w, err, "Failed to set highlight")
		return
	}
	Success(w, saved, "Highlight saved")
}

// handleClearHighlight reads the verse from ?book=&chapter=&verse=
func (s *Server) handleClearHighlight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	verse, err := strconv.Atoi(q.Get("verse"))
	if err != nil {
		s.fail(w, errs.Invalid("verse", "must be a number"), "Invalid verse")
		return
	}
	ref := models.VerseRef{Book: q.Get("book"), Chapter: q.Get("chapter"), Verse: verse}
	if err := s.annotations.ClearHighlight(r.Context(), ref); err != nil {
		s.fail(w, err, "Failed to clear highlight")
		return
	}
	Success(w, nil, "Highlight cleared")
}

// VerseNoteRequest is the body of PUT /verse-notes
type VerseNoteRequest struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

func (s *Server) handleVerseNotes(w http.ResponseWriter, r *http.Request) {
	if ref := r.URL.Query().Get("reference"); ref != "" {
		text, ok, err := s.annotations.VerseNote(r.Context(), ref)
		if err != nil {
			s.fail(w, err, "Failed to load verse note")
			return
		}
		if !ok {
			Error(w, http.StatusNotFound, "Verse note not found", nil)
			return
		}
		Success(w, VerseNoteRequest{Reference: ref, Text: text}, "Verse note")
		return
	}

	notes, err := s.annotations.VerseNotes(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load verse notes")
		return
	}
	Success(w, notes, "Verse notes")
}

func (s *Server) handleSetVerseNote(w http.ResponseWriter, r *http.Request) {
	var req VerseNoteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	if err := s.annotations.SetVerseNote(r.Context(), req.Reference, req.Text); err != nil {
		s.fail(w, err, "Failed to save verse note")
		return
	}
	Success(w, req, "Verse note saved")
}

func (s *Server) handleClearVerseNote(w http.ResponseWriter, r *http.Request) {
	if err := s.annotations.ClearVerseNote(r.Context(), r.URL.Query().Get("reference")); err != nil {
		s.fail(w, err, "Failed to clear verse note")
		return
	}
	Success(w, nil, "Verse note cleared")
}

func hymnNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		return 0, errs.Invalid("number", "must be a number")
	}
	return n, nil
}

func (s *Server) handleHymnFavorites(w http.ResponseWriter, r *http.Request) {
	numbers, err := s.annotations.HymnFavorites(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load favourite hymns")
		return
	}
	if numbers == nil {
		numbers = []int{}
	}
	Success(w, numbers, "Favourite hymns")
}

func (s *Server) handleToggleHymnFavorite(w http.ResponseWriter, r *http.Request) {
	n, err := hymnNumber(r)
	if err != nil {
		s.fail(w, err, "Invalid hymn")
		return
	}
	favorite, err := s.annotations.ToggleHymnFavorite(r.Context(), n)
	if err != nil {
		s.fail(w, err, "Failed to toggle favourite hymn")
		return
	}
	Success(w, map[string]bool{"favorite": favorite}, "Favourite toggled")
}

func (s *Server) handleRecentHymns(w http.ResponseWriter, r *http.Request) {
	numbers, err := s.annotations.RecentHymns(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load recent hymns")
		return
	}
	if numbers == nil {
		numbers = []int{}
	}
	Success(w, numbers, "Recent hymns")
}

func (s *Server) handleRecordHymnPlayed(w http.ResponseWriter, r *http.Request) {
	n, err := hymnNumber(r)
	if err != nil {
		s.fail(w, err, "Invalid hymn")
		return
	}
	numbers, err := s.annotations.RecordHymnPlayed(r.Context(), n)
	if err != nil {
		s.fail(w, err, "Failed to record hymn")
		return
	}
	Success(w, numbers, "Hymn recorded")
}
