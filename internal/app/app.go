package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"devotional/internal/annotations"
	"devotional/internal/api"
	"devotional/internal/clock"
	"devotional/internal/config"
	"devotional/internal/ids"
	"devotional/internal/kv"
	"devotional/internal/kv/ch"
	"devotional/internal/kv/pg"
	"devotional/internal/kv/sqlite"
	"devotional/internal/kv/stubs"
	"devotional/internal/ledger"
	"devotional/internal/notify"
	"devotional/internal/notify/local"
	"devotional/internal/notify/telegram"
	"devotional/internal/profile"
	"devotional/internal/reminder"
	"devotional/internal/verse"
)

// App represents the application
type App struct {
	config    *config.Config
	logger    *zap.Logger
	cal       *clock.Calendar
	store     kv.Store
	scheduler *local.Scheduler
	reminders *reminder.Manager
	server    *http.Server
	cancel    context.CancelFunc
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger, cal: clock.System(cfg.Location)}

	logger.Info("Starting devotional service...",
		zap.String("storage", cfg.StorageBackend),
		zap.String("notifications", cfg.NotifyChannel),
		zap.String("timezone", cfg.Location.String()),
	)

	// Initialize storage
	if err := app.initStorage(); err != nil {
		return nil, err
	}

	// Initialize notification scheduler
	if err := app.initNotifications(); err != nil {
		return nil, err
	}

	// Initialize components and HTTP server
	app.initHTTPServer()

	return app, nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initStorage opens the configured key-value backend
func (a *App) initStorage() error {
	var store kv.Store
	switch a.config.StorageBackend {
	case config.BackendSQLite:
		a.logger.Info("Opening SQLite database", zap.String("path", a.config.SQLitePath))
		sqliteStore, err := sqlite.NewSQLiteStore(a.config.SQLitePath)
		if err != nil {
			return err
		}
		store = sqliteStore
	case config.BackendPostgres:
		a.logger.Info("Connecting to PostgreSQL")
		pgStore, err := pg.NewPostgresStore(context.Background(), a.config.PostgresDSN)
		if err != nil {
			return err
		}
		store = pgStore
	case config.BackendClickHouse:
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.Bool("tls", a.config.ClickHouseUseTLS),
		)
		chStore, err := ch.NewClickHouseStore(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return err
		}
		store = chStore
	default:
		a.logger.Warn("Using in-memory storage, data is lost on restart")
		store = stubs.NewMockStore()
	}

	// Initialize database schema
	ctx := context.Background()
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.logger.Info("Storage initialized successfully")

	a.store = store
	return nil
}

// initNotifications creates the in-process scheduler and its delivery channel
func (a *App) initNotifications() error {
	var deliverer local.Deliverer
	switch a.config.NotifyChannel {
	case config.ChannelTelegram:
		tg, err := telegram.NewDeliverer(a.config.TelegramToken, a.config.TelegramChatID, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create Telegram deliverer: %w", err)
		}
		deliverer = tg
	case config.ChannelLog:
		deliverer = local.LogDeliverer{Logger: a.logger}
	default:
		a.logger.Warn("Notification delivery disabled, permission will be reported as denied")
	}

	a.scheduler = local.NewScheduler(a.cal.Clock(), a.config.Location, deliverer, a.logger)
	return nil
}

// initHTTPServer wires the components into the HTTP API
func (a *App) initHTTPServer() {
	cal := a.cal
	gen := ids.NewGenerator(cal.Clock())

	l := ledger.New(a.store, cal, gen, a.scheduler, a.logger)
	a.reminders = reminder.New(a.store, a.scheduler, gen, a.logger)
	a.reminders.AddSource(l)

	server := api.NewServer(api.Components{
		Verses:      verse.NewSelector(cal),
		Ledger:      l,
		Annotations: annotations.New(a.store, cal, gen, a.logger),
		Reminders:   a.reminders,
		Profile:     profile.New(a.store, cal, a.logger),
	}, a.config.AllowedOrigins, a.logger)

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// Registrations live in memory, rebuild them from storage
	if err := a.reminders.Reconcile(ctx); err != nil {
		if errors.Is(err, notify.ErrPermissionDenied) {
			a.logger.Warn("Notification permission denied, reminders were saved but not scheduled")
		} else {
			a.logger.Error("Failed to restore notifications", zap.Error(err))
		}
	}

	go a.scheduler.Run(ctx, a.config.SchedulerTick)

	// Start HTTP server in background
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-sigChan

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	defer a.logger.Sync()

	if a.cancel != nil {
		a.cancel()
	}

	// Shutdown HTTP server gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Close storage
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing storage", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}
