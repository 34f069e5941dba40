package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Mahjong Ledger API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		// Public read-only surface.
		r.Get("/calendar", handleCalendar(store))
		r.Get("/sessions", handleListSessions(store))
		r.Get("/sessions/{id}", handleGetSession(store))
		r.Get("/players", handleListPlayers(store))
		r.Get("/players/{id}", handleGetPlayer(store))
		r.Get("/stats", handleStats(store))

		// Admin auth.
		r.Post("/admin/login", handleAdminLogin(store))
		r.Post("/admin/logout", handleAdminLogout(store))
		r.Get("/admin/me", handleAdminMe(store))

		// Writes require an admin session.
		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(store))

			r.Post("/players", handleCreatePlayer(store))
			r.Put("/players/{id}", handleUpdatePlayer(store))
			r.Delete("/players/{id}", handleDeletePlayer(store))

			r.Post("/sessions", handleCreateSession(store))
			r.Put("/sessions/{id}", handleUpdateSession(store))
			r.Delete("/sessions/{id}", handleDeleteSession(store))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
