package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"devotional/internal/errs"
	"devotional/internal/ledger"
	"devotional/internal/models"
)

func (s *Server) loadLedgerRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/records", s.handleRecords)
		r.Get("/records/{date}", s.handleRecord)
		r.Post("/toggle", s.handleToggleActivity)
		r.Get("/progress", s.handleProgress)
		r.Get("/month/{year}/{month}", s.handleMonth)
		r.Get("/events", s.handleEvents)
		r.Post("/events", s.handleAddEvent)
		r.Delete("/events/{id}", s.handleDeleteEvent)
	})
}

// ToggleRequest is the body of POST /ledger/toggle
type ToggleRequest struct {
	Date     string              `json:"date"`
	Activity models.ActivityKind `json:"activity"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Records(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load records")
		return
	}
	if records == nil {
		records = []models.DayRecord{}
	}
	Success(w, records, "Records")
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	record, ok, err := s.ledger.Record(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		s.fail(w, err, "Failed to load record")
		return
	}
	if !ok {
		Error(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	Success(w, record, "Record")
}

func (s *Server) handleToggleActivity(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	if req.Date == "" {
		req.Date = s.ledger.Today()
	}

	record, err := s.ledger.ToggleActivity(r.Context(), req.Date, req.Activity)
	if err != nil {
		s.fail(w, err, "Failed to toggle activity")
		return
	}
	Success(w, record, "Activity toggled")
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.ledger.Progress(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to compute progress")
		return
	}
	Success(w, progress, "Progress")
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.fail(w, errs.Invalid("year", "must be a number"), "Invalid month")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		s.fail(w, errs.Invalid("month", "must be a number"), "Invalid month")
		return
	}

	days, err := s.ledger.Month(r.Context(), year, time.Month(month))
	if err != nil {
		s.fail(w, err, "Failed to build month")
		return
	}
	Success(w, days, "Month")
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.ledger.Events(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.fail(w, err, "Failed to load events")
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	Success(w, events, "Events")
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var in ledger.EventInput
	if err := decode(r, &in); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	event, err := s.ledger.AddEvent(r.Context(), in)
	s.reply(w, http.StatusCreated, event, err, "Event created", "Failed to create event")
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "Failed to delete event")
		return
	}
	Success(w, nil, "Event deleted")
}
