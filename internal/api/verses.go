package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devotional/internal/models"
)

func (s *Server) loadVerseRoutes(r chi.Router) {
	r.Get("/verses/today", s.handleTodayVerse)
	r.Get("/verses/categories", s.handleVerseCategories)
	r.Get("/verses/{id}", s.handleVerse)
	r.Get("/verses", s.handleVerses)
}

func (s *Server) handleTodayVerse(w http.ResponseWriter, r *http.Request) {
	Success(w, s.verses.Today(), "Verse of the day")
}

func (s *Server) handleVerseCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.verses.Categories()
	if categories == nil {
		categories = []string{}
	}
	Success(w, categories, "Verse categories")
}

func (s *Server) handleVerse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Invalid verse id", map[string]string{"id": "must be a number"})
		return
	}
	v, ok := s.verses.ByID(id)
	if !ok {
		Error(w, http.StatusNotFound, "Verse not found", nil)
		return
	}
	Success(w, v, "Verse")
}

// handleVerses lists the corpus, narrowed by ?category= and searched by ?q=
func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	verses, err := s.verses.Search(r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, err, "Failed to search verses")
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filtered := verses[:0:0]
		for _, v := range verses {
			if v.Category == category {
				filtered = append(filtered, v)
			}
		}
		verses = filtered
	}
	if verses == nil {
		verses = []models.Verse{}
	}
	Success(w, verses, "Verses")
}
