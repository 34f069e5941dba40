// Package calendar builds the month grid shown on the public calendar
// page: a week-aligned sequence of day cells with the sessions recorded
// on each day attached. Everything here is pure Go over time.Time.
package calendar

import (
	"fmt"
	"time"
)

// Participant is one player's result inside a session summary.
type Participant struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// SessionSummary is the slice of a game session the calendar needs.
type SessionSummary struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"` // YYYY-MM-DD
	Venue       string        `json:"venue"`
	Stakes      string        `json:"stakes"`
	PlayerCount int           `json:"playerCount"`
	Players     []Participant `json:"players"`
}

// Day is one cell of the month grid.
type Day struct {
	Date           time.Time
	IsCurrentMonth bool
	Sessions       []SessionSummary
}

// DateKey formats t's calendar day as the canonical YYYY-MM-DD key.
// Time of day and location offsets within the same calendar day are
// ignored; equal days always produce equal keys.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// GroupByDate indexes sessions by their date key. Sessions sharing a day
// keep their input order under that key. An empty input yields an empty map.
func GroupByDate(sessions []SessionSummary) map[string][]SessionSummary {
	byDate := make(map[string][]SessionSummary, len(sessions))
	for _, s := range sessions {
		key := s.Date
		if len(key) > 10 {
			// Tolerate full timestamps; the calendar day is the first 10 bytes.
			key = key[:10]
		}
		byDate[key] = append(byDate[key], s)
	}
	return byDate
}

// GridRange returns the first and last day of the grid for the given
// zero-based month: the Sunday on/before the 1st through the Saturday
// on/after the last day of the month. Out-of-range months are folded
// into the year the same way MonthDays folds them.
func GridRange(year, month int) (start, end time.Time) {
	first := monthStart(year, month)
	last := first.AddDate(0, 1, -1)

	start = first.AddDate(0, 0, -int(first.Weekday()))
	end = last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return start, end
}

// MonthDays builds the grid of day cells for the given zero-based month
// (0 = January). The result always covers whole weeks from Sunday through
// Saturday, so its length is a multiple of 7. Cells outside the target
// month are marked IsCurrentMonth=false but still pick up any sessions
// recorded under their date key. Months outside 0..11 are normalized into
// the year, so month 12 is January of year+1 and month -1 is December of
// year-1.
func MonthDays(year, month int, byDate map[string][]SessionSummary) []Day {
	first := monthStart(year, month)
	start, end := GridRange(year, month)

	var days []Day
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		sessions := byDate[DateKey(cur)]
		if sessions == nil {
			sessions = []SessionSummary{}
		}
		days = append(days, Day{
			Date:           cur,
			IsCurrentMonth: cur.Month() == first.Month() && cur.Year() == first.Year(),
			Sessions:       sessions,
		})
	}
	return days
}

// monthStart is the normalized first day of the zero-based month.
// time.Date folds out-of-range months into the year for us.
func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
}
