package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"devotional/internal/app"
	"devotional/migrations"
)

// terminator is the part of a testcontainer needed for cleanup
type terminator interface {
	Terminate(ctx context.Context, opts ...testcontainers.TerminateOption) error
}

func main() {
	ctx := context.Background()

	backend := os.Getenv("DEV_BACKEND")
	if backend == "" {
		backend = "clickhouse"
	}

	var (
		container terminator
		err       error
	)
	switch backend {
	case "clickhouse":
		container, err = startClickHouse(ctx)
	case "postgres":
		container, err = startPostgres(ctx)
	default:
		log.Fatalf("Unknown DEV_BACKEND: %s (expected clickhouse or postgres)", backend)
	}
	if err != nil {
		terminate(ctx, container)
		log.Fatalf("Failed to start %s container: %v", backend, err)
	}

	err = run(backend)
	log.Printf("Stopping %s container...", backend)
	terminate(ctx, container)
	if err != nil {
		log.Fatal(err)
	}
}

// terminate stops the container, logging a failure
func terminate(ctx context.Context, container terminator) {
	if container == nil {
		return
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate container: %v", err)
	}
}

// run starts the application against the container and blocks until a
// shutdown signal or an application error
func run(backend string) error {
	os.Setenv("STORAGE_BACKEND", backend)
	os.Setenv("LOG_MODE", "development")

	// Set PORT for HTTP server if not already set
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}
	if os.Getenv("NOTIFY_CHANNEL") == "" {
		os.Setenv("NOTIFY_CHANNEL", "log")
	}

	log.Printf("Starting application with %s backend...", backend)
	fmt.Println()

	// Create and initialize application
	application, err := app.New()
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Run application in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("application error: %w", err)
		}
	}
	return nil
}

func startClickHouse(ctx context.Context) (terminator, error) {
	log.Println("Starting ClickHouse testcontainer...")

	container, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword("devpassword"),
		clickhouse.WithDatabase("default"),
	)
	if err != nil {
		return nil, err
	}

	// Get connection details
	host, err := container.Host(ctx)
	if err != nil {
		return container, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return container, fmt.Errorf("failed to get container port: %w", err)
	}

	log.Printf("ClickHouse started at %s:%s", host, port.Port())

	// Set environment variables for the application
	os.Setenv("CLICKHOUSE_HOST", host)
	os.Setenv("CLICKHOUSE_PORT", port.Port())
	os.Setenv("CLICKHOUSE_DATABASE", "default")
	os.Setenv("CLICKHOUSE_USER", "default")
	os.Setenv("CLICKHOUSE_PASSWORD", "devpassword")
	os.Setenv("CLICKHOUSE_USE_TLS", "false")

	dsn := fmt.Sprintf("clickhouse://default:devpassword@%s:%s/default", host, port.Port())
	return container, migrate("clickhouse", dsn, "clickhouse")
}

func startPostgres(ctx context.Context) (terminator, error) {
	log.Println("Starting PostgreSQL testcontainer...")

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("devotional"),
		postgres.WithUsername("devotional"),
		postgres.WithPassword("devpassword"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, fmt.Errorf("failed to get connection string: %w", err)
	}
	log.Println("PostgreSQL started")

	os.Setenv("POSTGRES_DSN", dsn)
	return container, migrate("pgx", dsn, "postgres")
}

// migrate applies the embedded migrations to the fresh container
func migrate(driver, dsn, backend string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return migrations.Up(db, backend)
}
