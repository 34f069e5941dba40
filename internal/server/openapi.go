package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Mahjong Ledger API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the mahjong session ledger.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the database.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/calendar
	getCalendar, _ := r.NewOperationContext(http.MethodGet, "/api/calendar")
	getCalendar.SetSummary("Month calendar")
	getCalendar.SetDescription("Returns the week-aligned day grid for a month with sessions attached. Accepts year and 1-based month query parameters; defaults to the current month; out-of-range months roll over into the year.")
	getCalendar.AddRespStructure(CalendarResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCalendar.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getCalendar)

	// GET /api/sessions
	listSessions, _ := r.NewOperationContext(http.MethodGet, "/api/sessions")
	listSessions.SetSummary("List sessions")
	listSessions.SetDescription("Returns all recorded sessions with participants, newest date first.")
	listSessions.AddRespStructure([]SessionDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listSessions)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns one session with its participant set.")
	getSession.AddRespStructure(SessionDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// GET /api/players
	listPlayers, _ := r.NewOperationContext(http.MethodGet, "/api/players")
	listPlayers.SetSummary("List players")
	listPlayers.SetDescription("Returns all players with lifetime session counts and totals, oldest first.")
	listPlayers.AddRespStructure([]PlayerSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listPlayers)

	// GET /api/players/{id}
	getPlayer, _ := r.NewOperationContext(http.MethodGet, "/api/players/{id}")
	getPlayer.SetSummary("Get player")
	getPlayer.SetDescription("Returns one player with full participation history, newest first.")
	getPlayer.AddRespStructure(PlayerDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPlayer)

	// GET /api/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/stats")
	getStats.SetSummary("Dashboard stats")
	getStats.SetDescription("Returns overall totals, the current top winner/loser, and the latest sessions.")
	getStats.AddRespStructure(StatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStats)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/players
	createPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/players")
	createPlayer.SetSummary("Create player")
	createPlayer.SetDescription("Creates a player. Name must be unique. Requires admin_session cookie.")
	createPlayer.AddReqStructure(PlayerRequest{})
	createPlayer.AddRespStructure(PlayerSummary{}, openapi.WithHTTPStatus(http.StatusCreated))
	createPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createPlayer)

	// PUT /api/players/{id}
	updatePlayer, _ := r.NewOperationContext(http.MethodPut, "/api/players/{id}")
	updatePlayer.SetSummary("Update player")
	updatePlayer.SetDescription("Renames a player or toggles the guest flag. Requires admin_session cookie.")
	updatePlayer.AddReqStructure(PlayerRequest{})
	updatePlayer.AddRespStructure(PlayerSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	updatePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updatePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updatePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	updatePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updatePlayer)

	// DELETE /api/players/{id}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/players/{id}")
	deletePlayer.SetSummary("Delete player")
	deletePlayer.SetDescription("Deletes a player and its participation records. Requires admin_session cookie.")
	deletePlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deletePlayer)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Records a session with its participants. Amounts must sum to zero across at least two players. Requires admin_session cookie.")
	createSession.AddReqStructure(SessionRequest{})
	createSession.AddRespStructure(SessionDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createSession)

	// PUT /api/sessions/{id}
	updateSession, _ := r.NewOperationContext(http.MethodPut, "/api/sessions/{id}")
	updateSession.SetSummary("Update session")
	updateSession.SetDescription("Replaces a session's fields and participant set atomically, under the same zero-sum rule. Requires admin_session cookie.")
	updateSession.AddReqStructure(SessionRequest{})
	updateSession.AddRespStructure(SessionDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	updateSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("Delete session")
	deleteSession.SetDescription("Deletes a session and its participation records. Requires admin_session cookie.")
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteSession)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
