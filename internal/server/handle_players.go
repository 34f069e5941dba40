package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PlayerStats aggregates a player's lifetime results.
type PlayerStats struct {
	SessionCount int   `json:"sessionCount"`
	TotalAmount  int64 `json:"totalAmount"`
}

// PlayerSummary is returned in the list endpoint.
type PlayerSummary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	IsGuest   bool        `json:"isGuest"`
	CreatedAt string      `json:"createdAt"`
	Stats     PlayerStats `json:"stats"`
}

// PlayerHistoryItem is one session's result from a player's perspective.
type PlayerHistoryItem struct {
	SessionID string `json:"sessionId"`
	Date      string `json:"date"`
	Venue     string `json:"venue"`
	Stakes    string `json:"stakes"`
	Amount    int64  `json:"amount"`
}

// PlayerDetail is the full player view with participation history,
// newest session first.
type PlayerDetail struct {
	PlayerSummary
	History []PlayerHistoryItem `json:"history"`
}

// PlayerRequest is the request body for creating/updating a player.
type PlayerRequest struct {
	Name    string `json:"name"`
	IsGuest bool   `json:"isGuest"`
}

func (req *PlayerRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	return ""
}

func handleListPlayers(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func handleGetPlayer(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.GetPlayer(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func handleCreatePlayer(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		player, err := store.CreatePlayer(r.Context(), req)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "player name already exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func handleUpdatePlayer(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		player, err := store.UpdatePlayer(r.Context(), chi.URLParam(r, "id"), req)
		switch {
		case errors.Is(err, ErrConflict):
			writeError(w, http.StatusConflict, "player name already exists")
			return
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "player not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func handleDeletePlayer(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeletePlayer(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
