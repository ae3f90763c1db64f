package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devotional/internal/models"
)

func (s *Server) loadProfileRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", s.handleProfile)
		r.Put("/name", s.handleSetUserName)
		r.Put("/image", s.handleSetProfileImage)
		r.Post("/onboarding", s.handleCompleteOnboarding)
		r.Put("/theme", s.handleSetTheme)
		r.Put("/auto-theme", s.handleSetAutoTheme)
	})
}

// ProfileRequest carries the profile fields a request may change
type ProfileRequest struct {
	UserName     string           `json:"userName"`
	ProfileImage string           `json:"profileImage"`
	ThemeName    models.ThemeName `json:"themeName"`
	AutoTheme    bool             `json:"autoTheme"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profile.Get(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load profile")
		return
	}
	Success(w, p, "Profile")
}

func (s *Server) handleSetUserName(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	p, err := s.profile.SetUserName(r.Context(), req.UserName)
	if err != nil {
		s.fail(w, err, "Failed to save user name")
		return
	}
	Success(w, p, "User name saved")
}

// respondProfile replies with the profile after a successful change
func (s *Server) respondProfile(w http.ResponseWriter, r *http.Request, err error, message, failure string) {
	if err != nil {
		s.fail(w, err, failure)
		return
	}
	p, err := s.profile.Get(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load profile")
		return
	}
	Success(w, p, message)
}

func (s *Server) handleSetProfileImage(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	err := s.profile.SetProfileImage(r.Context(), req.ProfileImage)
	s.respondProfile(w, r, err, "Profile image saved", "Failed to save profile image")
}

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	err := s.profile.CompleteOnboarding(r.Context())
	s.respondProfile(w, r, err, "Onboarding completed", "Failed to complete onboarding")
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	err := s.profile.SetTheme(r.Context(), req.ThemeName)
	s.respondProfile(w, r, err, "Theme saved", "Failed to save theme")
}

func (s *Server) handleSetAutoTheme(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	err := s.profile.SetAutoTheme(r.Context(), req.AutoTheme)
	s.respondProfile(w, r, err, "Theme preference saved", "Failed to save theme preference")
}
