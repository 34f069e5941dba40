package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mahjonghub/ledger/internal/ledger"
)

// SessionPlayerView is one participant inside a session response.
type SessionPlayerView struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	IsGuest  bool   `json:"isGuest"`
	Amount   int64  `json:"amount"`
}

// SessionDetail is the full session with its participant set.
type SessionDetail struct {
	ID        string              `json:"id"`
	Date      string              `json:"date"` // YYYY-MM-DD
	Venue     string              `json:"venue"`
	Base      *int64              `json:"base"`
	Unit      *int64              `json:"unit"`
	Note      string              `json:"note"`
	Stakes    string              `json:"stakes"`
	Players   []SessionPlayerView `json:"players"`
	CreatedAt string              `json:"createdAt"`
}

// SessionPlayerInput is one participant entry in a create/update request.
type SessionPlayerInput struct {
	PlayerID string `json:"playerId"`
	Amount   int64  `json:"amount"`
}

// SessionRequest is the request body for creating/updating a session.
type SessionRequest struct {
	Date    string               `json:"date"`
	Venue   string               `json:"venue"`
	Base    *int64               `json:"base"`
	Unit    *int64               `json:"unit"`
	Note    string               `json:"note"`
	Players []SessionPlayerInput `json:"players"`
}

// validate normalizes the request in place and returns a message for the
// client when it is malformed. The zero-sum rule is checked separately in
// the handlers, right before the write.
func (req *SessionRequest) validate() string {
	req.Date = strings.TrimSpace(req.Date)
	req.Venue = strings.TrimSpace(req.Venue)
	req.Note = strings.TrimSpace(req.Note)

	if req.Date == "" || req.Venue == "" {
		return "date and venue are required"
	}
	// Accept full timestamps; only the calendar day is kept.
	if len(req.Date) > 10 {
		req.Date = req.Date[:10]
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}

	seen := make(map[string]bool, len(req.Players))
	for _, p := range req.Players {
		if p.PlayerID == "" {
			return "playerId is required for every participant"
		}
		if seen[p.PlayerID] {
			return "duplicate player in session"
		}
		seen[p.PlayerID] = true
	}
	return ""
}

// entries converts the participant list for the zero-sum validator.
func (req *SessionRequest) entries() []ledger.Entry {
	entries := make([]ledger.Entry, 0, len(req.Players))
	for _, p := range req.Players {
		entries = append(entries, ledger.Entry{PlayerID: p.PlayerID, Amount: p.Amount})
	}
	return entries
}

// stakesLabel renders the optional base/unit stake pair for display,
// e.g. "100/30". Empty when no base is set.
func stakesLabel(base, unit *int64) string {
	switch {
	case base != nil && unit != nil:
		return fmt.Sprintf("%d/%d", *base, *unit)
	case base != nil:
		return fmt.Sprintf("%d", *base)
	default:
		return ""
	}
}

func handleListSessions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := store.ListSessions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func handleGetSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.GetSession(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func handleCreateSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		// The participant set must balance before anything is written.
		if err := ledger.Validate(req.entries()); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		session, err := store.CreateSession(r.Context(), req)
		if errors.Is(err, ErrPlayerMissing) {
			writeError(w, http.StatusBadRequest, "unknown playerId")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func handleUpdateSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if err := ledger.Validate(req.entries()); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		session, err := store.UpdateSession(r.Context(), chi.URLParam(r, "id"), req)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case errors.Is(err, ErrPlayerMissing):
			writeError(w, http.StatusBadRequest, "unknown playerId")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func handleDeleteSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteSession(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
