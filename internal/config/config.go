package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	BackendMemory     = "memory"
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
	BackendPostgres   = "postgres"
)

// Notification channels
const (
	ChannelLog      = "log"
	ChannelTelegram = "telegram"
	ChannelNone     = "none"
)

// Config holds the application configuration
type Config struct {
	Port           string
	Location       *time.Location
	Development    bool
	AllowedOrigins []string

	// Storage configuration
	StorageBackend string
	SQLitePath     string
	PostgresDSN    string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// Notification configuration
	NotifyChannel  string
	TelegramToken  string
	TelegramChatID int64
	SchedulerTick  time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080"
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		config.Location = time.Local
	} else {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		config.Location = loc
	}

	switch mode := os.Getenv("LOG_MODE"); mode {
	case "", "production":
	case "development":
		config.Development = true
	default:
		return nil, fmt.Errorf("invalid LOG_MODE: %s (expected production or development)", mode)
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				config.AllowedOrigins = append(config.AllowedOrigins, o)
			}
		}
	}

	if err := config.loadStorage(); err != nil {
		return nil, err
	}
	if err := config.loadNotifications(); err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) loadStorage() error {
	config.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if config.StorageBackend == "" {
		config.StorageBackend = BackendMemory
	}

	switch config.StorageBackend {
	case BackendMemory:
	case BackendSQLite:
		config.SQLitePath = os.Getenv("SQLITE_PATH")
		if config.SQLitePath == "" {
			config.SQLitePath = "devotional.db"
		}
	case BackendPostgres:
		config.PostgresDSN = os.Getenv("POSTGRES_DSN")
		if config.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND is postgres")
		}
	case BackendClickHouse:
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when STORAGE_BACKEND is clickhouse")
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND: %s (expected memory, sqlite, clickhouse or postgres)", config.StorageBackend)
	}
	return nil
}

func (config *Config) loadNotifications() error {
	config.NotifyChannel = os.Getenv("NOTIFY_CHANNEL")
	if config.NotifyChannel == "" {
		config.NotifyChannel = ChannelLog
	}

	switch config.NotifyChannel {
	case ChannelLog, ChannelNone:
	case ChannelTelegram:
		config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
		if config.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when NOTIFY_CHANNEL is telegram")
		}
		chatID, err := strconv.ParseInt(strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		config.TelegramChatID = chatID
	default:
		return fmt.Errorf("invalid NOTIFY_CHANNEL: %s (expected log, telegram or none)", config.NotifyChannel)
	}

	config.SchedulerTick = 20 * time.Second
	if tick := os.Getenv("SCHEDULER_TICK"); tick != "" {
		d, err := time.ParseDuration(tick)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_TICK: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("SCHEDULER_TICK must be positive")
		}
		config.SchedulerTick = d
	}
	return nil
}
