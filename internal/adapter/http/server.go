package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calories/internal/app"
	"calories/internal/domain"
	"calories/internal/logging"
)

// Server is the driving HTTP adapter that routes requests to the tracker.
type Server struct {
	tracker     *app.Tracker
	authSvc     *app.AuthService
	oidcConfig  *OIDCConfig
	webDir      string
	unit        string
	log         *slog.Logger
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(tracker *app.Tracker, authSvc *app.AuthService, webDir string) *Server {
	return &Server{
		tracker:    tracker,
		authSvc:    authSvc,
		oidcConfig: &OIDCConfig{},
		webDir:     webDir,
		unit:       domain.UnitKcal,
		log:        logging.Discard(),
	}
}

// WithLogger sets the logger used for request logging.
func (s *Server) WithLogger(log *slog.Logger) *Server {
	s.log = log
	return s
}

// WithUnit sets the default display unit of the summary endpoint.
func (s *Server) WithUnit(unit string) *Server {
	if domain.ValidEnergyUnit(unit) {
		s.unit = unit
	}
	return s
}

// WithOIDC enables single sign-on through the given provider.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithoutAuth disables session checks. Used by tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/logout", s.handleLogout)
	api.HandleFunc("/config", s.handleConfig)
	api.HandleFunc("/sso/login", s.handleSSOLogin)
	api.HandleFunc("/sso/callback", s.handleSSOCallback)

	protect := func(h http.HandlerFunc) http.Handler { return s.authMiddleware(h) }

	api.Handle("/categories", protect(s.handleCategories))
	api.Handle("/activities", protect(s.handleActivities))
	api.Handle("GET /activities/active", protect(s.handleActiveActivity))
	api.Handle("POST /activities/{id}/edit", protect(s.handleEditActivity))
	api.Handle("DELETE /activities/{id}", protect(s.handleDeleteActivity))
	api.Handle("/reset", protect(s.handleReset))
	api.Handle("/summary", protect(s.handleSummary))

	root := http.NewServeMux()
	root.Handle("/api/", s.loggingMiddleware(http.StripPrefix("/api", api)))
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", spaFromDisk(s.webDir))

	return withNoCache(root)
}
