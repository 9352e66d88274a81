package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dailyvibe/dailyvibe/internal/cache"
	"github.com/dailyvibe/dailyvibe/internal/config"
	"github.com/dailyvibe/dailyvibe/internal/content"
	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/db"
	"github.com/dailyvibe/dailyvibe/internal/feed"
	"github.com/dailyvibe/dailyvibe/internal/repository"
	"github.com/dailyvibe/dailyvibe/internal/service"
	"github.com/dailyvibe/dailyvibe/internal/storage"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Hub           *feed.Hub
	HabitStore    *store.Store
	ExportService *service.ExportService
	GuideService  *content.GuideService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	habitRepository := repository.NewHabitRepository(database)
	markerRepository := repository.NewMigrationMarkerRepository(database)

	// Local cache and live feed
	habitCache := cache.New(cfg.CacheDir)
	hub := feed.NewHub()

	// Habit store
	habitStore := store.New(habitRepository, markerRepository, habitCache, hub, dateutil.System)

	// Export storage (optional)
	var exportStorage storage.Storage
	if cfg.ExportEnabled() {
		exportStorage, err = storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize export storage: %v", err)
		}
	}
	exportService := service.NewExportService(habitStore, exportStorage, dateutil.System)

	guideService := content.NewGuideService(cfg.ContentPath)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Hub:           hub,
		HabitStore:    habitStore,
		ExportService: exportService,
		GuideService:  guideService,
	}, nil
}

func (a *App) Close() error {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
