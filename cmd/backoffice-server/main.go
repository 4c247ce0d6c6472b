package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infoco-backoffice/internal/ai"
	"infoco-backoffice/internal/blob"
	"infoco-backoffice/internal/config"
	"infoco-backoffice/internal/feed"
	"infoco-backoffice/internal/handler"
	"infoco-backoffice/internal/mail"
	"infoco-backoffice/internal/messaging"
	"infoco-backoffice/internal/middleware"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/repository/postgres"
	"infoco-backoffice/internal/seed"
	"infoco-backoffice/internal/security"
	"infoco-backoffice/internal/service"
	"infoco-backoffice/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sessionTTL is the sliding window a session stays alive without activity.
const sessionTTL = 7 * 24 * time.Hour

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting backoffice server")

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connCancel()

	db, err := config.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(connCtx); err != nil {
		slog.Error("database ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("connected to postgresql")

	redisStore, err := session.NewRedisStore(connCtx, cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisStore.Close()
	slog.Info("connected to redis")

	sealer, err := security.NewSealer(sessionKey(cfg))
	if err != nil {
		slog.Error("invalid session secret", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessions := session.NewManager(redisStore, sealer, sessionTTL, cfg.IsProduction())

	// The broker is optional: a single instance delivers feed events
	// directly through its own hub.
	var rmq *messaging.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rmqCtx, rmqCancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer rmqCancel()

		rmq, err = messaging.NewRabbitMQWithRetry(rmqCtx, cfg.RabbitMQURL)
		if err != nil {
			slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rmq.Close()
		slog.Info("connected to rabbitmq")
	} else {
		slog.Info("rabbitmq not configured, feed events stay in-process")
	}

	profileRepo, err := postgres.NewProfileRepository(db)
	if err != nil {
		slog.Error("failed to prepare profile statements", slog.String("error", err.Error()))
		os.Exit(1)
	}
	employeeRepo := postgres.NewEmployeeRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	municipalityRepo := postgres.NewMunicipalityRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	externalSystemRepo := postgres.NewExternalSystemRepository(db)
	payrollRepo := postgres.NewPayrollRepository(db)
	leaveRepo := postgres.NewLeaveRequestRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	feedRepo := postgres.NewFeedRepository(db)
	appConfigRepo := postgres.NewAppConfigRepository(db)
	txManager := postgres.NewTxManager(db)

	hub := feed.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go func() {
		if err := hub.Run(hubCtx); err != nil && err != context.Canceled {
			slog.Error("feed hub error", slog.String("error", err.Error()))
		}
	}()
	slog.Info("feed hub started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher service.EventPublisher
	if rmq != nil {
		publisher = rmq

		consumer := messaging.NewFeedConsumer(rmq, hub)
		if err := consumer.Start(ctx); err != nil {
			slog.Error("failed to start feed consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("feed consumer started")
	}

	authService := service.NewAuthService(profileRepo, sessions)
	feedService := service.NewFeedService(feedRepo, hub, publisher)
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
	seeder := seed.NewSeeder(txManager, appConfigRepo, cfg.SetupSecret)

	blobStore := newBlobStore(connCtx, cfg)

	tokenStore := mail.NewMemoryTokenStore()
	mailBroker := mail.NewTokenBroker(tokenStore, mail.OAuthConfig(
		cfg.ZohoClientID, cfg.ZohoClientSecret, cfg.ZohoRedirectURI, cfg.ZohoAccountsURL))
	mailClient := mail.NewClient(mailBroker, tokenStore, cfg.ZohoAPIBaseURL)

	aiClient := ai.NewClient(ai.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
	})

	origins := middleware.ParseOrigins(cfg.AllowedOrigins)

	authHandler := handler.NewAuthHandler(authService, sessions)
	dataHandler := handler.NewDataHandler(dataService)
	profileHandler := handler.NewProfileHandler(profileRepo, blobStore)
	directoryHandler := handler.NewDirectoryHandler(employeeRepo, taskRepo, supplierRepo)
	financeHandler := handler.NewFinanceHandler(municipalityRepo, transactionRepo, expenseRepo)
	assetHandler := handler.NewAssetHandler(assetRepo, externalSystemRepo)
	hrHandler := handler.NewHRHandler(payrollRepo, leaveRepo)
	documentHandler := handler.NewDocumentHandler(documentRepo, blobStore)
	feedHandler := handler.NewFeedHandler(feedService, hub, origins)
	mailHandler := handler.NewMailHandler(mailBroker, mailClient)
	aiHandler := handler.NewAIHandler(aiClient)
	setupHandler := handler.NewSetupHandler(seeder)
	settingsHandler := handler.NewSettingsHandler(appConfigRepo)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(origins))
	r.Use(middleware.Metrics())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db, redisStore, rmq))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		authLimiter := middleware.NewRateLimiter(ctx, 5, 10)
		apiLimiter := middleware.NewRateLimiter(ctx, 20, 50)

		// Routes reachable without a session: login, the one-shot seed,
		// the provider OAuth redirect, and the login screen news digest.
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/auth/login", authHandler.Login)
			r.Post("/setup", setupHandler.Run)
			r.Get("/mail/callback", mailHandler.Callback)
			r.Get("/ai/news", aiHandler.News)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessions))
			r.Use(apiLimiter.Middleware())

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/password", authHandler.UpdatePassword)

			r.Get("/data", dataHandler.All)

			r.Get("/profiles", profileHandler.List)
			r.Post("/profiles", profileHandler.Create)
			r.Put("/profiles/{id}", profileHandler.Update)
			r.Delete("/profiles/{id}", profileHandler.Delete)
			r.Post("/profiles/picture", profileHandler.UploadPicture)

			r.Post("/employees", directoryHandler.CreateEmployee)
			r.Put("/employees/{id}", directoryHandler.UpdateEmployee)
			r.Delete("/employees/{id}", directoryHandler.DeleteEmployee)
			r.Post("/tasks", directoryHandler.CreateTask)
			r.Put("/tasks/{id}", directoryHandler.UpdateTask)
			r.Delete("/tasks/{id}", directoryHandler.DeleteTask)
			r.Post("/suppliers", directoryHandler.CreateSupplier)
			r.Put("/suppliers/{id}", directoryHandler.UpdateSupplier)
			r.Delete("/suppliers/{id}", directoryHandler.DeleteSupplier)

			r.Post("/municipalities", financeHandler.CreateMunicipality)
			r.Put("/municipalities/{id}", financeHandler.UpdateMunicipality)
			r.Delete("/municipalities/{id}", financeHandler.DeleteMunicipality)
			r.Post("/transactions", financeHandler.CreateTransaction)
			r.Put("/transactions/{id}", financeHandler.UpdateTransaction)
			r.Delete("/transactions/{id}", financeHandler.DeleteTransaction)
			r.Post("/employee-expenses", financeHandler.CreateEmployeeExpense)
			r.Put("/employee-expenses/{id}", financeHandler.UpdateEmployeeExpense)
			r.Delete("/employee-expenses/{id}", financeHandler.DeleteEmployeeExpense)
			r.Post("/internal-expenses", financeHandler.CreateInternalExpense)
			r.Put("/internal-expenses/{id}", financeHandler.UpdateInternalExpense)
			r.Delete("/internal-expenses/{id}", financeHandler.DeleteInternalExpense)

			r.Post("/assets", assetHandler.CreateAsset)
			r.Put("/assets/{id}", assetHandler.UpdateAsset)
			r.Delete("/assets/{id}", assetHandler.DeleteAsset)
			r.Post("/external-systems", assetHandler.CreateExternalSystem)
			r.Put("/external-systems/{id}", assetHandler.UpdateExternalSystem)
			r.Delete("/external-systems/{id}", assetHandler.DeleteExternalSystem)

			r.Post("/payrolls", hrHandler.CreatePayroll)
			r.Put("/payrolls/{id}", hrHandler.UpdatePayroll)
			r.Delete("/payrolls/{id}", hrHandler.DeletePayroll)
			r.Post("/leave-requests", hrHandler.CreateLeaveRequest)
			r.Put("/leave-requests/{id}", hrHandler.UpdateLeaveRequest)
			r.Delete("/leave-requests/{id}", hrHandler.DeleteLeaveRequest)

			r.Post("/files", documentHandler.UploadFile)
			r.Delete("/files/{id}", documentHandler.DeleteFile)
			r.Post("/payment-notes", documentHandler.UploadPaymentNote)
			r.Delete("/payment-notes/{id}", documentHandler.DeletePaymentNote)

			r.Post("/feed/posts", feedHandler.CreatePost)
			r.Delete("/feed/posts/{id}", feedHandler.DeletePost)
			r.Post("/feed/notifications", feedHandler.CreateNotification)
			r.Put("/feed/notifications/{id}/read", feedHandler.MarkNotificationRead)
			r.Delete("/feed/notifications/{id}", feedHandler.DeleteNotification)
			r.Get("/feed/ws", feedHandler.Stream)

			r.Get("/mail/status", mailHandler.Status)
			r.Get("/mail/auth-url", mailHandler.AuthURL)
			r.Post("/mail/disconnect", mailHandler.Disconnect)
			r.Get("/mail/messages", mailHandler.ListMessages)
			r.Get("/mail/message", mailHandler.GetMessage)
			r.Post("/mail/send", mailHandler.Send)

			r.Post("/ai/analyze", aiHandler.Analyze)

			r.Put("/settings/permissions", settingsHandler.UpdatePermissions)
			r.Put("/settings/login-image", settingsHandler.UpdateLoginImage)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("backoffice server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	hubCancel()

	time.Sleep(100 * time.Millisecond)

	slog.Info("server stopped gracefully")
}

// sessionKey returns the configured session secret, generating an ephemeral
// one in development so the server still boots. Sessions then die with the
// process.
func sessionKey(cfg *config.Config) string {
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret
	}
	slog.Warn("SESSION_SECRET not set, using an ephemeral key")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		slog.Error("failed to generate session key", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return hex.EncodeToString(key)
}

// newBlobStore prefers S3 and falls back to the in-memory store when no
// credentials are configured, which only makes sense in development.
func newBlobStore(ctx context.Context, cfg *config.Config) blob.Store {
	if cfg.S3AccessKey == "" && cfg.S3Endpoint == "" {
		slog.Warn("S3 not configured, uploads are held in memory")
		return blob.NewMemoryStore("http://localhost:" + cfg.Port + "/uploads")
	}

	store, err := blob.NewS3Store(ctx, blob.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		slog.Error("failed to initialize blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return store
}
