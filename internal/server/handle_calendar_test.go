package server

import (
	"encoding/json"
	"net/http"
	"testing"
)

func getCalendar(t *testing.T, r http.Handler, path string) CalendarResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodGet, path, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("calendar: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CalendarResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestCalendarFebruary2026(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	names := []string{"小明", "小花", "小強", "路人"}
	players := make([]SessionPlayerInput, len(names))
	for i, name := range names {
		p := createPlayer(t, r, cookies, name, name == "路人")
		players[i] = SessionPlayerInput{PlayerID: p.ID}
	}
	players[0].Amount = 800
	players[1].Amount = 200
	players[2].Amount = -300
	players[3].Amount = -700

	createSession(t, r, cookies, SessionRequest{
		Date:    "2026-02-15",
		Venue:   "小明家",
		Players: players,
	})

	resp := getCalendar(t, r, "/api/calendar?year=2026&month=2")

	if resp.Year != 2026 || resp.Month != 2 {
		t.Errorf("got %d-%d, want 2026-2", resp.Year, resp.Month)
	}
	// February 2026 starts on a Sunday and has 28 days: exactly 4 weeks.
	if len(resp.Days)%7 != 0 {
		t.Errorf("grid length %d is not a multiple of 7", len(resp.Days))
	}
	if len(resp.Days) != 28 {
		t.Errorf("grid length = %d, want 28", len(resp.Days))
	}
	if resp.Days[0].Date != "2026-02-01" {
		t.Errorf("first cell = %s, want 2026-02-01", resp.Days[0].Date)
	}

	var currentDays int
	for _, d := range resp.Days {
		if d.IsCurrentMonth {
			currentDays++
		}
	}
	if currentDays != 28 {
		t.Errorf("current-month cells = %d, want 28", currentDays)
	}

	var found bool
	for _, d := range resp.Days {
		if d.Date == "2026-02-15" {
			found = true
			if !d.IsCurrentMonth {
				t.Error("Feb 15 should be marked current month")
			}
			if len(d.Sessions) != 1 {
				t.Fatalf("Feb 15 has %d sessions, want 1", len(d.Sessions))
			}
			s := d.Sessions[0]
			if s.Venue != "小明家" {
				t.Errorf("venue = %q, want 小明家", s.Venue)
			}
			if s.PlayerCount != 4 {
				t.Errorf("player count = %d, want 4", s.PlayerCount)
			}
		} else if len(d.Sessions) != 0 {
			t.Errorf("unexpected sessions on %s", d.Date)
		}
	}
	if !found {
		t.Fatal("Feb 15 missing from the grid")
	}
}

func TestCalendarMonthRollsOver(t *testing.T) {
	r := testRouter(t)

	// One past December rolls into January of the following year.
	resp := getCalendar(t, r, "/api/calendar?year=2026&month=13")
	if resp.Year != 2027 || resp.Month != 1 {
		t.Errorf("got %d-%d, want 2027-1", resp.Year, resp.Month)
	}

	// Zero rolls back into December of the previous year.
	resp = getCalendar(t, r, "/api/calendar?year=2026&month=0")
	if resp.Year != 2025 || resp.Month != 12 {
		t.Errorf("got %d-%d, want 2025-12", resp.Year, resp.Month)
	}
}

func TestCalendarSpilloverSessionVisible(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p1 := createPlayer(t, r, cookies, "小明", false)
	p2 := createPlayer(t, r, cookies, "小花", false)

	// Jan 2026 starts on a Thursday; Dec 28 2025 lands in its head spillover.
	createSession(t, r, cookies, SessionRequest{
		Date:  "2025-12-28",
		Venue: "小花家",
		Players: []SessionPlayerInput{
			{PlayerID: p1.ID, Amount: 100},
			{PlayerID: p2.ID, Amount: -100},
		},
	})

	resp := getCalendar(t, r, "/api/calendar?year=2026&month=1")

	var found bool
	for _, d := range resp.Days {
		if d.Date == "2025-12-28" {
			found = true
			if d.IsCurrentMonth {
				t.Error("Dec 28 should not be current month in the January grid")
			}
			if len(d.Sessions) != 1 {
				t.Errorf("Dec 28 has %d sessions, want 1", len(d.Sessions))
			}
		}
	}
	if !found {
		t.Fatal("Dec 28 missing from the January 2026 grid")
	}
}

func TestCalendarBadParams(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{
		"/api/calendar?year=abc",
		"/api/calendar?month=xyz",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestCalendarDefaultsToCurrentMonth(t *testing.T) {
	r := testRouter(t)

	resp := getCalendar(t, r, "/api/calendar")
	if resp.Year == 0 || resp.Month < 1 || resp.Month > 12 {
		t.Errorf("unexpected default year/month: %d-%d", resp.Year, resp.Month)
	}
	if len(resp.Days)%7 != 0 {
		t.Errorf("grid length %d is not a multiple of 7", len(resp.Days))
	}
}
