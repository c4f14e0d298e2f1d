package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"annexval/adapters/excel"
	"annexval/adapters/profile"
	"annexval/adapters/report"
	"annexval/app"
	"annexval/internal"
	"annexval/ports"
)

// App represents the validation API application
type App struct {
	router   *chi.Mux
	manager  *app.SessionManager
	reader   *excel.Reader
	exporter ports.Exporter
	renderer ports.ReportRenderer
	profiler ports.Profiler
	logger   *internal.Logger

	maxUploadBytes int64
}

// Config holds API application configuration
type Config struct {
	Manager        *app.SessionManager
	Logger         *internal.Logger
	MaxUploadBytes int64
}

// NewApp creates the API application with its adapters wired in.
func NewApp(config Config) *App {
	if config.Logger == nil {
		config.Logger = internal.NewDefaultLogger()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 20 << 20
	}

	a := &App{
		router:         chi.NewRouter(),
		manager:        config.Manager,
		reader:         excel.NewReader(),
		exporter:       excel.NewWriter(),
		renderer:       report.NewRenderer(),
		profiler:       profile.NewProfiler(),
		logger:         config.Logger,
		maxUploadBytes: config.MaxUploadBytes,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/api/health", a.handleHealth)

	a.router.Post("/api/workbooks/sheets", a.handleListSheets)

	a.router.Post("/api/sessions", a.handleCreateSession)
	a.router.Get("/api/sessions/{id}", a.handleGetSession)
	a.router.Delete("/api/sessions/{id}", a.handleDeleteSession)

	a.router.Get("/api/sessions/{id}/report", a.handleGetReport)
	a.router.Get("/api/sessions/{id}/profile", a.handleGetProfile)
	a.router.Get("/api/sessions/{id}/fields/{field}/preview", a.handlePreviewFix)

	a.router.Post("/api/sessions/{id}/coercions", a.handleApplyCoercion)
	a.router.Post("/api/sessions/{id}/coercions/{field}/confirm", a.handleConfirmFix)
	a.router.Post("/api/sessions/{id}/coercions/{field}/abandon", a.handleAbandonFix)
	a.router.Post("/api/sessions/{id}/reset", a.handleResetSession)

	a.router.Get("/api/sessions/{id}/export", a.handleExportSession)
}

// Router exposes the configured routes for the HTTP server.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": a.manager.Count(),
	})
}
