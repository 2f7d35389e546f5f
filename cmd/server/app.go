package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackit-qa/stackit-api/internal/config"
	"github.com/stackit-qa/stackit-api/internal/events"
	"github.com/stackit-qa/stackit-api/internal/platform/gemini"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/platform/postgres"
	"github.com/stackit-qa/stackit-api/internal/service"
	"github.com/stackit-qa/stackit-api/internal/service/auth"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// application holds the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	profileStore      store.ProfileStore
	questionStore     store.QuestionStore
	answerStore       store.AnswerStore
	notificationStore store.NotificationStore

	dispatcher *events.Dispatcher
	jwtService auth.JWTService

	profileService      service.ProfileService
	questionService     service.QuestionService
	answerService       service.AnswerService
	notificationService service.NotificationService
}

// initializeApp loads configuration and wires every component of the server:
// logging, database, stores, the event dispatcher, and the services.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	app.profileStore = postgres.NewPostgresProfileStore(db, appLogger)
	app.questionStore = postgres.NewPostgresQuestionStore(db, appLogger)
	app.answerStore = postgres.NewPostgresAnswerStore(db, appLogger)
	app.notificationStore = postgres.NewPostgresNotificationStore(db, appLogger)

	transactor := store.NewSQLTransactor(db)
	app.dispatcher = events.NewDispatcher(cfg.Events.QueueSize, appLogger)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher()

	var enhancer service.ContentEnhancer
	if cfg.LLM.GeminiAPIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		geminiEnhancer, err := gemini.NewEnhancer(ctx, appLogger, cfg.LLM)
		cancel()
		if err != nil {
			appLogger.Warn("content enhancement disabled", "error", err)
		} else {
			enhancer = geminiEnhancer
			appLogger.Info("content enhancement enabled", "model", cfg.LLM.ModelName)
		}
	}

	app.profileService, err = service.NewProfileService(app.profileStore, hasher, hasher, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}

	app.questionService, err = service.NewQuestionService(
		app.questionStore, app.answerStore, app.profileStore,
		transactor, enhancer, service.DefaultWritePolicy, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create question service: %w", err)
	}

	app.answerService, err = service.NewAnswerService(
		app.answerStore, app.questionStore, app.profileStore,
		transactor, app.dispatcher, enhancer, service.DefaultWritePolicy, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer service: %w", err)
	}

	app.notificationService, err = service.NewNotificationService(app.notificationStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	// Notification fan-out listens to every domain event.
	app.dispatcher.RegisterHandler(app.notificationService)

	return app, nil
}

// cleanup releases the application's resources. Safe to call once at
// shutdown; the dispatcher drains queued events before stopping.
func (app *application) cleanup() {
	if app.dispatcher != nil {
		app.dispatcher.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
