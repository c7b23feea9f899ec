// Package server wires the HTTP surface: routing, session gating, request
// logging and the people/auth/logs handlers.
package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/okanele/peoplebook/internal/audit"
	"github.com/okanele/peoplebook/internal/auth"
	"github.com/okanele/peoplebook/internal/metrics"
	"github.com/okanele/peoplebook/internal/storage"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "peoplebook_session"

type handler struct {
	store     storage.Store
	sessions  *auth.SessionStore
	authn     *auth.PasswordAuthenticator
	audit     *audit.Recorder
	uploadDir string
}

// New assembles the echo server. All state the handlers need is injected
// here; there is no ambient global state.
func New(
	logger *slog.Logger,
	store storage.Store,
	sessions *auth.SessionStore,
	uploadDir string,
	m *metrics.Metrics,
) *echo.Echo {
	srv := echo.New()
	srv.HideBanner = true
	srv.HidePort = true

	h := &handler{
		store:     store,
		sessions:  sessions,
		authn:     auth.NewPasswordAuthenticator(store),
		audit:     audit.NewRecorder(store, logger),
		uploadDir: uploadDir,
	}

	srv.Use(
		middleware.Recover(),
		logRequests(logger),
		m.Middleware(),
	)

	api := srv.Group("/api")
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/me", h.me)

	guarded := api.Group("", h.requireSession)
	guarded.POST("/change-password", h.changePassword)
	guarded.GET("/people", h.listPeople)
	guarded.POST("/people", h.createPerson)
	guarded.PUT("/people/:id", h.updatePerson)
	guarded.DELETE("/people/:id", h.deletePerson)
	guarded.GET("/logs", h.listLogs)

	srv.GET("/metrics", m.Handler())
	srv.Static("/uploads", uploadDir)

	return srv
}
