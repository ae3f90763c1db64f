package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devotional/internal/models"
	"devotional/internal/reminder"
)

func (s *Server) loadReminderRoutes(r chi.Router) {
	r.Route("/alarms", func(r chi.Router) {
		r.Get("/", s.handleListAlarms)
		r.Post("/", s.handleCreateAlarm)
		r.Post("/reconcile", s.handleReconcile)
		r.Get("/{id}", s.handleGetAlarm)
		r.Put("/{id}", s.handleUpdateAlarm)
		r.Delete("/{id}", s.handleDeleteAlarm)
		r.Post("/{id}/toggle", s.handleToggleAlarm)
	})

	r.Route("/presets", func(r chi.Router) {
		r.Get("/", s.handlePresets)
		r.Post("/{kind}/toggle", s.handleTogglePreset)
		r.Put("/{kind}/time", s.handleSetPresetTime)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", s.handleNotificationSettings)
		r.Put("/", s.handleSetNotificationsEnabled)
		r.Post("/daily", s.handleScheduleDaily)
		r.Post("/permission", s.handleRequestPermission)
	})
}

func (s *Server) handleListAlarms(w http.ResponseWriter, r *http.Request) {
	alarms, err := s.reminders.ListAlarms(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to list alarms")
		return
	}
	if alarms == nil {
		alarms = []models.Alarm{}
	}
	Success(w, alarms, "Alarms")
}

func (s *Server) handleGetAlarm(w http.ResponseWriter, r *http.Request) {
	alarm, err := s.reminders.Alarm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "Failed to load alarm")
		return
	}
	Success(w, alarm, "Alarm")
}

func (s *Server) handleCreateAlarm(w http.ResponseWriter, r *http.Request) {
	var in reminder.AlarmInput
	if err := decode(r, &in); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	in.ID = ""
	alarm, err := s.reminders.SaveAlarm(r.Context(), in)
	s.reply(w, http.StatusCreated, alarm, err, "Alarm created", "Failed to save alarm")
}

func (s *Server) handleUpdateAlarm(w http.ResponseWriter, r *http.Request) {
	var in reminder.AlarmInput
	if err := decode(r, &in); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	in.ID = chi.URLParam(r, "id")
	alarm, err := s.reminders.SaveAlarm(r.Context(), in)
	s.reply(w, http.StatusOK, alarm, err, "Alarm updated", "Failed to save alarm")
}

func (s *Server) handleDeleteAlarm(w http.ResponseWriter, r *http.Request) {
	err := s.reminders.DeleteAlarm(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, http.StatusOK, nil, err, "Alarm deleted", "Failed to delete alarm")
}

func (s *Server) handleToggleAlarm(w http.ResponseWriter, r *http.Request) {
	alarm, err := s.reminders.ToggleAlarm(r.Context(), chi.URLParam(r, "id"))
	s.reply(w, http.StatusOK, alarm, err, "Alarm toggled", "Failed to toggle alarm")
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	err := s.reminders.Reconcile(r.Context())
	s.reply(w, http.StatusOK, nil, err, "Notifications rescheduled", "Failed to reschedule notifications")
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.reminders.Presets(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load presets")
		return
	}
	Success(w, presets, "Presets")
}

func (s *Server) handleTogglePreset(w http.ResponseWriter, r *http.Request) {
	kind := models.PresetKind(chi.URLParam(r, "kind"))
	preset, err := s.reminders.TogglePreset(r.Context(), kind)
	s.reply(w, http.StatusOK, preset, err, "Preset toggled", "Failed to toggle preset")
}

// PresetTimeRequest is the body of PUT /presets/{kind}/time
type PresetTimeRequest struct {
	Time string `json:"time"`
}

func (s *Server) handleSetPresetTime(w http.ResponseWriter, r *http.Request) {
	var req PresetTimeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	kind := models.PresetKind(chi.URLParam(r, "kind"))
	preset, err := s.reminders.SetPresetTime(r.Context(), kind, req.Time)
	s.reply(w, http.StatusOK, preset, err, "Preset updated", "Failed to update preset")
}

// NotificationSettings is the body of GET and PUT /notifications
type NotificationSettings struct {
	Enabled    bool   `json:"enabled"`
	Permission string `json:"permission,omitempty"`
}

func (s *Server) handleNotificationSettings(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.reminders.NotificationsEnabled(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to load notification settings")
		return
	}
	perm, err := s.reminders.Permission(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to read notification permission")
		return
	}
	Success(w, NotificationSettings{Enabled: enabled, Permission: string(perm)}, "Notification settings")
}

func (s *Server) handleSetNotificationsEnabled(w http.ResponseWriter, r *http.Request) {
	var req NotificationSettings
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	if err := s.reminders.SetNotificationsEnabled(r.Context(), req.Enabled); err != nil {
		s.fail(w, err, "Failed to save notification settings")
		return
	}
	Success(w, NotificationSettings{Enabled: req.Enabled}, "Notification settings saved")
}

// DailyRequest is the body of POST /notifications/daily
type DailyRequest struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (s *Server) handleScheduleDaily(w http.ResponseWriter, r *http.Request) {
	var req DailyRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err, "Invalid request body")
		return
	}
	reg, err := s.reminders.ScheduleDaily(r.Context(), req.Hour, req.Minute)
	s.reply(w, http.StatusCreated, reg, err, "Daily notification scheduled", "Failed to schedule daily notification")
}

func (s *Server) handleRequestPermission(w http.ResponseWriter, r *http.Request) {
	perm, err := s.reminders.RequestPermission(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to request permission")
		return
	}
	Success(w, map[string]string{"permission": string(perm)}, "Permission")
}
