// Package api exposes the devotional components over a JSON HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"devotional/internal/annotations"
	"devotional/internal/ledger"
	"devotional/internal/profile"
	"devotional/internal/reminder"
	"devotional/internal/verse"
)

// Server handles the API requests
type Server struct {
	verses      *verse.Selector
	ledger      *ledger.Ledger
	annotations *annotations.Store
	reminders   *reminder.Manager
	profile     *profile.Service

	allowedOrigins []string
	logger         *zap.Logger
}

// Components groups the services served by the API
type Components struct {
	Verses      *verse.Selector
	Ledger      *ledger.Ledger
	Annotations *annotations.Store
	Reminders   *reminder.Manager
	Profile     *profile.Service
}

// NewServer creates the API server. allowedOrigins configures CORS; when
// empty any http or https origin is allowed.
func NewServer(c Components, allowedOrigins []string, logger *zap.Logger) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://*"}
	}
	return &Server{
		verses:         c.Verses,
		ledger:         c.Ledger,
		annotations:    c.Annotations,
		reminders:      c.Reminders,
		profile:        c.Profile,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		s.loadVerseRoutes(r)
		s.loadLedgerRoutes(r)
		s.loadAnnotationRoutes(r)
		s.loadReminderRoutes(r)
		s.loadProfileRoutes(r)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	Success(w, map[string]string{"status": "ok"}, "Devotional API is running")
}

// requestLogger logs every request once it is served
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("Request served",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
