package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mahjonghub/ledger/internal/calendar"
)

// CalendarDayCell is one cell of the rendered month grid.
type CalendarDayCell struct {
	Date           string                    `json:"date"` // YYYY-MM-DD
	IsCurrentMonth bool                      `json:"isCurrentMonth"`
	Sessions       []calendar.SessionSummary `json:"sessions"`
}

// CalendarResponse is the response for GET /api/calendar.
type CalendarResponse struct {
	Year  int               `json:"year"`
	Month int               `json:"month"` // 1-based, normalized
	Days  []CalendarDayCell `json:"days"`
}

// handleCalendar builds the month grid. year and month (1-based) default
// to the current month; out-of-range months roll over into the year, so
// month=13 of 2026 answers January 2027 without the caller pre-normalizing.
func handleCalendar(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		year, month := now.Year(), int(now.Month())

		q := r.URL.Query()
		if v := q.Get("year"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "year must be an integer")
				return
			}
			year = n
		}
		if v := q.Get("month"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "month must be an integer")
				return
			}
			month = n
		}

		// Fold month overflow/underflow into the year.
		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		year, month = first.Year(), int(first.Month())

		// The grid spills into neighboring months; fetch the whole range so
		// sessions on spillover days still show up.
		start, end := calendar.GridRange(year, month-1)
		sessions, err := store.ListSessionsBetween(r.Context(), calendar.DateKey(start), calendar.DateKey(end))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		byDate := calendar.GroupByDate(summarize(sessions))
		days := calendar.MonthDays(year, month-1, byDate)

		cells := make([]CalendarDayCell, 0, len(days))
		for _, d := range days {
			cells = append(cells, CalendarDayCell{
				Date:           calendar.DateKey(d.Date),
				IsCurrentMonth: d.IsCurrentMonth,
				Sessions:       d.Sessions,
			})
		}

		writeJSON(w, http.StatusOK, CalendarResponse{Year: year, Month: month, Days: cells})
	}
}

// summarize trims full session rows down to what the calendar shows.
func summarize(sessions []SessionDetail) []calendar.SessionSummary {
	summaries := make([]calendar.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		players := make([]calendar.Participant, 0, len(s.Players))
		for _, p := range s.Players {
			players = append(players, calendar.Participant{Name: p.Name, Amount: p.Amount})
		}
		summaries = append(summaries, calendar.SessionSummary{
			ID:          s.ID,
			Date:        s.Date,
			Venue:       s.Venue,
			Stakes:      s.Stakes,
			PlayerCount: len(s.Players),
			Players:     players,
		})
	}
	return summaries
}
