package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/mahjonghub/ledger/internal/calendar"
)

// StatsPlayer is a player's overall standing.
type StatsPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Total    int64  `json:"total"`
	Sessions int    `json:"sessions"`
}

// StatsRecentPlayer is one result line in a recent session.
type StatsRecentPlayer struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// StatsRecentSession summarizes one of the latest sessions.
type StatsRecentSession struct {
	ID      string              `json:"id"`
	Date    string              `json:"date"`
	Venue   string              `json:"venue"`
	Stakes  string              `json:"stakes"`
	Players []StatsRecentPlayer `json:"players"`
}

// StatsResponse is the response for GET /api/stats. TopWinner is null
// unless someone is ahead overall; TopLoser is null unless someone is
// behind.
type StatsResponse struct {
	TotalPlayers      int                  `json:"totalPlayers"`
	TotalSessions     int                  `json:"totalSessions"`
	ThisMonthSessions int                  `json:"thisMonthSessions"`
	TopWinner         *StatsPlayer         `json:"topWinner"`
	TopLoser          *StatsPlayer         `json:"topLoser"`
	RecentSessions    []StatsRecentSession `json:"recentSessions"`
}

func handleStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		monthStart := calendar.DateKey(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))

		stats, err := store.Stats(r.Context(), monthStart)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func sortByAmountDesc(players []StatsRecentPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Amount > players[j].Amount
	})
}
