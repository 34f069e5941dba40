package server

import (
	"encoding/json"
	"net/http"
	"testing"
)

func createPlayer(t *testing.T, r http.Handler, cookies []*http.Cookie, name string, isGuest bool) PlayerSummary {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/players", PlayerRequest{Name: name, IsGuest: isGuest}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create player %q: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}

	var p PlayerSummary
	json.NewDecoder(w.Body).Decode(&p)
	return p
}

func TestCreatePlayer(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p := createPlayer(t, r, cookies, "小明", false)
	if p.ID == "" {
		t.Error("expected a generated player id")
	}
	if p.Name != "小明" || p.IsGuest {
		t.Errorf("unexpected player: %+v", p)
	}
	if p.Stats.SessionCount != 0 || p.Stats.TotalAmount != 0 {
		t.Errorf("new player should have empty stats, got %+v", p.Stats)
	}
}

func TestCreatePlayerRequiresAuth(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/players", PlayerRequest{Name: "小明"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreatePlayerBlankName(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/players", PlayerRequest{Name: "   "}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePlayerDuplicateName(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	createPlayer(t, r, cookies, "小明", false)

	w := doJSON(t, r, http.MethodPost, "/api/players", PlayerRequest{Name: "小明"}, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListPlayersPublic(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	createPlayer(t, r, cookies, "小明", false)
	createPlayer(t, r, cookies, "路人", true)

	// No cookies: the list is public.
	w := doJSON(t, r, http.MethodGet, "/api/players", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var players []PlayerSummary
	json.NewDecoder(w.Body).Decode(&players)
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].Name != "小明" {
		t.Errorf("expected oldest player first, got %q", players[0].Name)
	}
	if !players[1].IsGuest {
		t.Errorf("expected %q to be a guest", players[1].Name)
	}
}

func TestUpdatePlayer(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p := createPlayer(t, r, cookies, "小明", false)

	w := doJSON(t, r, http.MethodPut, "/api/players/"+p.ID, PlayerRequest{Name: "老明", IsGuest: true}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated PlayerSummary
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Name != "老明" || !updated.IsGuest {
		t.Errorf("unexpected player after update: %+v", updated)
	}
}

func TestUpdatePlayerDuplicateName(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	createPlayer(t, r, cookies, "小明", false)
	p := createPlayer(t, r, cookies, "小花", false)

	w := doJSON(t, r, http.MethodPut, "/api/players/"+p.ID, PlayerRequest{Name: "小明"}, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdatePlayerKeepOwnName(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p := createPlayer(t, r, cookies, "小明", false)

	// Re-submitting the same name must not conflict with itself.
	w := doJSON(t, r, http.MethodPut, "/api/players/"+p.ID, PlayerRequest{Name: "小明", IsGuest: true}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdatePlayerNotFound(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/players/nope", PlayerRequest{Name: "小明"}, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeletePlayer(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p := createPlayer(t, r, cookies, "小明", false)

	w := doJSON(t, r, http.MethodDelete, "/api/players/"+p.ID, nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/players/"+p.ID, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestDeletePlayerNotFound(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	w := doJSON(t, r, http.MethodDelete, "/api/players/nope", nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetPlayerHistoryAndStats(t *testing.T) {
	r := testRouter(t)
	cookies := login(t, r)

	p1 := createPlayer(t, r, cookies, "小明", false)
	p2 := createPlayer(t, r, cookies, "小花", false)

	createSession(t, r, cookies, SessionRequest{
		Date:  "2026-02-15",
		Venue: "小明家",
		Players: []SessionPlayerInput{
			{PlayerID: p1.ID, Amount: 500},
			{PlayerID: p2.ID, Amount: -500},
		},
	})
	createSession(t, r, cookies, SessionRequest{
		Date:  "2026-02-20",
		Venue: "小花家",
		Players: []SessionPlayerInput{
			{PlayerID: p1.ID, Amount: -200},
			{PlayerID: p2.ID, Amount: 200},
		},
	})

	w := doJSON(t, r, http.MethodGet, "/api/players/"+p1.ID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var detail PlayerDetail
	json.NewDecoder(w.Body).Decode(&detail)
	if detail.Stats.SessionCount != 2 {
		t.Errorf("session count = %d, want 2", detail.Stats.SessionCount)
	}
	if detail.Stats.TotalAmount != 300 {
		t.Errorf("total amount = %d, want 300", detail.Stats.TotalAmount)
	}
	if len(detail.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(detail.History))
	}
	// Newest session first.
	if detail.History[0].Date != "2026-02-20" || detail.History[0].Amount != -200 {
		t.Errorf("unexpected newest history item: %+v", detail.History[0])
	}
}
