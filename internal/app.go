// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "github.com/kasho-dev/WorkFlow-Pay/internal/api"
	"github.com/kasho-dev/WorkFlow-Pay/internal/api/handler"
	"github.com/kasho-dev/WorkFlow-Pay/internal/config"
	"github.com/kasho-dev/WorkFlow-Pay/internal/repository"
	"github.com/kasho-dev/WorkFlow-Pay/internal/repository/postgres"
	"github.com/kasho-dev/WorkFlow-Pay/internal/service"
	"github.com/kasho-dev/WorkFlow-Pay/internal/util"
	"github.com/kasho-dev/WorkFlow-Pay/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository      repository.UserRepository
	KeystrokeRepository repository.KeystrokeRepository
	MemoRepository      repository.MemoRepository

	// Services
	TrackerService service.TrackerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "week_starts_on", cfg.WeekStartsOn.String())

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.KeystrokeRepository = postgres.NewKeystrokeRepository(app.DB)
	app.MemoRepository = postgres.NewMemoRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.TrackerService = service.NewTrackerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.KeystrokeRepository,
		app.MemoRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		cfg.WeekStartsOn,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	trackerHandler := handler.NewTrackerHandler(app.TrackerService, app.Logger)
	app.HTTPHandler = router.NewRouter(trackerHandler, app.Config, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
