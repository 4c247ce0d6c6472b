//go:build e2e
// +build e2e

// Package e2e exercises the full back-office stack: HTTP API, PostgreSQL,
// Redis sessions, and the RabbitMQ feed pipeline, all running in containers.
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"infoco-backoffice/internal/blob"
	"infoco-backoffice/internal/feed"
	"infoco-backoffice/internal/handler"
	"infoco-backoffice/internal/messaging"
	"infoco-backoffice/internal/middleware"
	"infoco-backoffice/internal/repository/postgres"
	"infoco-backoffice/internal/security"
	"infoco-backoffice/internal/seed"
	"infoco-backoffice/internal/service"
	"infoco-backoffice/internal/session"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	setupSecret   = "e2e-setup-secret"
	sessionSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	adminEmail    = "admin@infoco.com.br"
	adminPassword = "Infoco@2024"
)

var (
	testServer *httptest.Server
	testDB     *sql.DB
	rmq        *messaging.RabbitMQ
	baseURL    string
	wsURL      string
	testClient *http.Client
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleanup, err := setupEnvironment(ctx)
	if err != nil {
		log.Fatalf("failed to set up e2e environment: %v", err)
	}

	code := m.Run()

	cleanup()
	os.Exit(code)
}

func setupEnvironment(ctx context.Context) (func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pgCleanup, connStr, err := startPostgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	cleanups = append(cleanups, pgCleanup)

	testDB, err = sql.Open("postgres", connStr)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open database: %w", err)
	}
	cleanups = append(cleanups, func() { testDB.Close() })

	if err := applySchema(testDB); err != nil {
		cleanup()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	redisCleanup, redisURL, err := startRedis(ctx)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("start redis: %w", err)
	}
	cleanups = append(cleanups, redisCleanup)

	rmqCleanup, rmqURL, err := startRabbitMQ(ctx)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("start rabbitmq: %w", err)
	}
	cleanups = append(cleanups, rmqCleanup)

	rmqCtx, rmqCancel := context.WithTimeout(ctx, 60*time.Second)
	rmq, err = messaging.NewRabbitMQWithRetry(rmqCtx, rmqURL)
	rmqCancel()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	cleanups = append(cleanups, func() { rmq.Close() })

	serverCleanup, err := startServer(ctx, redisURL)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("start server: %w", err)
	}
	cleanups = append(cleanups, serverCleanup)

	jar, err := cookiejar.New(nil)
	if err != nil {
		cleanup()
		return nil, err
	}
	testClient = &http.Client{Jar: jar, Timeout: 10 * time.Second}

	return cleanup, nil
}

// startServer assembles the same wiring as cmd/backoffice-server against the
// containered backends, skipping the mail and AI upstreams.
func startServer(ctx context.Context, redisURL string) (func(), error) {
	redisStore, err := session.NewRedisStore(ctx, redisURL)
	if err != nil {
		return nil, err
	}

	sealer, err := security.NewSealer(sessionSecret)
	if err != nil {
		redisStore.Close()
		return nil, err
	}
	sessions := session.NewManager(redisStore, sealer, time.Hour, false)

	profileRepo, err := postgres.NewProfileRepository(testDB)
	if err != nil {
		redisStore.Close()
		return nil, err
	}
	employeeRepo := postgres.NewEmployeeRepository(testDB)
	taskRepo := postgres.NewTaskRepository(testDB)
	supplierRepo := postgres.NewSupplierRepository(testDB)
	municipalityRepo := postgres.NewMunicipalityRepository(testDB)
	transactionRepo := postgres.NewTransactionRepository(testDB)
	expenseRepo := postgres.NewExpenseRepository(testDB)
	assetRepo := postgres.NewAssetRepository(testDB)
	externalSystemRepo := postgres.NewExternalSystemRepository(testDB)
	payrollRepo := postgres.NewPayrollRepository(testDB)
	leaveRepo := postgres.NewLeaveRequestRepository(testDB)
	documentRepo := postgres.NewDocumentRepository(testDB)
	feedRepo := postgres.NewFeedRepository(testDB)
	appConfigRepo := postgres.NewAppConfigRepository(testDB)
	txManager := postgres.NewTxManager(testDB)

	hub := feed.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	consumer := messaging.NewFeedConsumer(rmq, hub)
	if err := consumer.Start(hubCtx); err != nil {
		hubCancel()
		redisStore.Close()
		return nil, err
	}

	authService := service.NewAuthService(profileRepo, sessions)
	feedService := service.NewFeedService(feedRepo, hub, rmq)
	dataService := service.NewDataService(service.DataServiceDeps{
		Profiles:        profileRepo,
		Employees:       employeeRepo,
		Tasks:           taskRepo,
		Suppliers:       supplierRepo,
		Municipalities:  municipalityRepo,
		Transactions:    transactionRepo,
		Expenses:        expenseRepo,
		Assets:          assetRepo,
		ExternalSystems: externalSystemRepo,
		Payrolls:        payrollRepo,
		LeaveRequests:   leaveRepo,
		Documents:       documentRepo,
		Feed:            feedRepo,
		AppConfig:       appConfigRepo,
	})
	seeder := seed.NewSeeder(txManager, appConfigRepo, setupSecret)
	blobStore := blob.NewMemoryStore("http://blob.test")

	authHandler := handler.NewAuthHandler(authService, sessions)
	dataHandler := handler.NewDataHandler(dataService)
	profileHandler := handler.NewProfileHandler(profileRepo, blobStore)
	feedHandler := handler.NewFeedHandler(feedService, hub, []string{"*"})
	setupHandler := handler.NewSetupHandler(seeder)
	settingsHandler := handler.NewSettingsHandler(appConfigRepo)

	r := chi.NewRouter()
	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(testDB, redisStore, rmq))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/setup", setupHandler.Run)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessions))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/data", dataHandler.All)

			r.Get("/profiles", profileHandler.List)
			r.Post("/profiles", profileHandler.Create)
			r.Delete("/profiles/{id}", profileHandler.Delete)

			r.Post("/feed/posts", feedHandler.CreatePost)
			r.Post("/feed/notifications", feedHandler.CreateNotification)
			r.Get("/feed/ws", feedHandler.Stream)

			r.Put("/settings/permissions", settingsHandler.UpdatePermissions)
		})
	})

	testServer = httptest.NewServer(r)
	baseURL = testServer.URL
	wsURL = "ws" + baseURL[len("http"):]

	return func() {
		testServer.Close()
		hubCancel()
		redisStore.Close()
	}, nil
}

func startPostgres(ctx context.Context) (func(), string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "infoco_e2e",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	cleanup := func() { _ = container.Terminate(context.Background()) }

	host, err := container.Host(ctx)
	if err != nil {
		cleanup()
		return nil, "", err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		cleanup()
		return nil, "", err
	}

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/infoco_e2e?sslmode=disable", host, port.Port())
	return cleanup, connStr, nil
}

func startRedis(ctx context.Context) (func(), string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort("6379/tcp"),
		).WithDeadline(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	cleanup := func() { _ = container.Terminate(context.Background()) }

	host, err := container.Host(ctx)
	if err != nil {
		cleanup()
		return nil, "", err
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		cleanup()
		return nil, "", err
	}

	return cleanup, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), nil
}

func startRabbitMQ(ctx context.Context) (func(), string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Server startup complete"),
			wait.ForListeningPort("5672/tcp"),
		).WithDeadline(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	cleanup := func() { _ = container.Terminate(context.Background()) }

	host, err := container.Host(ctx)
	if err != nil {
		cleanup()
		return nil, "", err
	}
	port, err := container.MappedPort(ctx, "5672")
	if err != nil {
		cleanup()
		return nil, "", err
	}

	return cleanup, fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), nil
}

func applySchema(db *sql.DB) error {
	schema := `
		CREATE EXTENSION IF NOT EXISTS "pgcrypto";

		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL,
			department VARCHAR(255) NOT NULL DEFAULT '',
			pfp TEXT,
			password_hash VARCHAR(255) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS employees (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			position VARCHAR(255) NOT NULL,
			department VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			base_salary NUMERIC(12,2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			hours NUMERIC(6,2) NOT NULL DEFAULT 0,
			status VARCHAR(50) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS suppliers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(255) NOT NULL,
			contact_person VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS municipalities (
			id BIGSERIAL PRIMARY KEY,
			municipality VARCHAR(255) NOT NULL,
			paid NUMERIC(14,2) NOT NULL DEFAULT 0,
			pending NUMERIC(14,2) NOT NULL DEFAULT 0,
			contract_end_date TIMESTAMPTZ NOT NULL,
			coat_of_arms_url TEXT
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(20) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount NUMERIC(14,2) NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			payment_date TIMESTAMPTZ,
			status VARCHAR(20) NOT NULL,
			municipality_id BIGINT REFERENCES municipalities(id) ON DELETE SET NULL
		);

		CREATE TABLE IF NOT EXISTS employee_expenses (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			type VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount NUMERIC(12,2) NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			status VARCHAR(20) NOT NULL,
			receipt TEXT
		);

		CREATE TABLE IF NOT EXISTS internal_expenses (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			category VARCHAR(100) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			supplier_id BIGINT REFERENCES suppliers(id) ON DELETE SET NULL
		);

		CREATE TABLE IF NOT EXISTS assets (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			purchase_date TIMESTAMPTZ NOT NULL,
			purchase_value NUMERIC(14,2) NOT NULL,
			location VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL,
			assigned_to_employee_id BIGINT REFERENCES employees(id) ON DELETE SET NULL,
			maintenance_log JSONB NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS external_systems (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(100) NOT NULL,
			api_url TEXT NOT NULL,
			access_token TEXT NOT NULL DEFAULT '',
			token_type VARCHAR(50) NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS payrolls (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			month_year VARCHAR(7) NOT NULL,
			base_salary NUMERIC(12,2) NOT NULL,
			benefits NUMERIC(12,2) NOT NULL DEFAULT 0,
			deductions NUMERIC(12,2) NOT NULL DEFAULT 0,
			net_pay NUMERIC(12,2) NOT NULL,
			pay_date TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS leave_requests (
			id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			type VARCHAR(50) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS managed_files (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(100) NOT NULL,
			size BIGINT NOT NULL,
			url TEXT NOT NULL,
			municipality_name VARCHAR(255) NOT NULL,
			folder VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS payment_notes (
			id BIGSERIAL PRIMARY KEY,
			reference_month VARCHAR(7) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			upload_date TIMESTAMPTZ NOT NULL,
			municipality_name VARCHAR(255) NOT NULL,
			file_url TEXT NOT NULL,
			file_name VARCHAR(255) NOT NULL,
			file_size BIGINT NOT NULL,
			file_type VARCHAR(100) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS update_posts (
			id BIGSERIAL PRIMARY KEY,
			author_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(50) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			event_date TIMESTAMPTZ,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			link TEXT
		);

		CREATE TABLE IF NOT EXISTS app_config (
			key VARCHAR(100) PRIMARY KEY,
			value JSONB NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}
