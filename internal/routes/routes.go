package routes

import (
	"net/http"

	"github.com/dailyvibe/dailyvibe/internal/app"
	"github.com/dailyvibe/dailyvibe/internal/handler"
	"github.com/dailyvibe/dailyvibe/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	habit := handler.NewHabitHandler(app.HabitStore)
	stats := handler.NewStatsHandler(app.HabitStore, app.Cfg.StatsDays)
	sync := handler.NewSyncHandler(app.HabitStore)
	account := handler.NewAccountHandler(app.HabitStore, app.ExportService)
	guide := handler.NewGuideHandler(app.GuideService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /guide", guide.ListPages)
	mux.HandleFunc("GET /guide/{slug}", guide.ShowPage)

	// Habits
	mux.HandleFunc("GET /api/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("POST /api/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("PATCH /api/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("POST /api/habits/{id}/toggle", middleware.RequireAuth(habit.Toggle))
	mux.HandleFunc("GET /api/habits/stream", middleware.RequireAuth(habit.Stream))

	// Stats
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(stats.Stats))

	// Sync & account
	mux.HandleFunc("POST /api/sync", middleware.RequireAuth(sync.Sync))
	mux.HandleFunc("POST /api/export", middleware.RequireAuth(account.Export))
	mux.HandleFunc("DELETE /api/account/habits", middleware.RequireAuth(account.DeleteAllHabits))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.Auth(app.Cfg.JWTSecret, app.HabitStore),
	)
}
