package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const playerSummaryQuery = `
	SELECT p.id, p.name, p.is_guest, p.created_at,
		COUNT(sp.session_id), COALESCE(SUM(sp.amount), 0)
	FROM players p
	LEFT JOIN session_players sp ON sp.player_id = p.id
`

func scanPlayerSummary(row interface{ Scan(...any) error }) (PlayerSummary, error) {
	var p PlayerSummary
	var isGuest int
	err := row.Scan(&p.ID, &p.Name, &isGuest, &p.CreatedAt, &p.Stats.SessionCount, &p.Stats.TotalAmount)
	p.IsGuest = isGuest != 0
	return p, err
}

func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]PlayerSummary, error) {
	rows, err := s.db.QueryContext(ctx, playerSummaryQuery+`
		GROUP BY p.id
		ORDER BY p.created_at, p.rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []PlayerSummary{}
	for rows.Next() {
		p, err := scanPlayerSummary(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (PlayerDetail, error) {
	var d PlayerDetail

	row := s.db.QueryRowContext(ctx, playerSummaryQuery+`
		WHERE p.id = ?
		GROUP BY p.id
	`, id)
	p, err := scanPlayerSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	d.PlayerSummary = p

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.date, g.venue, g.base, g.unit, sp.amount
		FROM session_players sp
		JOIN game_sessions g ON g.id = sp.session_id
		WHERE sp.player_id = ?
		ORDER BY g.date DESC, g.created_at DESC
	`, id)
	if err != nil {
		return d, err
	}
	defer rows.Close()

	d.History = []PlayerHistoryItem{}
	for rows.Next() {
		var h PlayerHistoryItem
		var base, unit sql.NullInt64
		if err := rows.Scan(&h.SessionID, &h.Date, &h.Venue, &base, &unit, &h.Amount); err != nil {
			return d, err
		}
		h.Stakes = stakesLabel(nullableInt(base), nullableInt(unit))
		d.History = append(d.History, h)
	}
	return d, rows.Err()
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context, req PlayerRequest) (PlayerSummary, error) {
	taken, err := s.playerNameTaken(ctx, req.Name, "")
	if err != nil {
		return PlayerSummary{}, err
	}
	if taken {
		return PlayerSummary{}, ErrConflict
	}

	p := PlayerSummary{ID: uuid.NewString(), Name: req.Name, IsGuest: req.IsGuest}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO players (id, name, is_guest)
		VALUES (?, ?, ?)
		RETURNING created_at
	`, p.ID, p.Name, boolToInt(p.IsGuest)).Scan(&p.CreatedAt)
	if err != nil {
		return PlayerSummary{}, err
	}
	return p, nil
}

func (s *SQLiteStore) UpdatePlayer(ctx context.Context, id string, req PlayerRequest) (PlayerSummary, error) {
	taken, err := s.playerNameTaken(ctx, req.Name, id)
	if err != nil {
		return PlayerSummary{}, err
	}
	if taken {
		return PlayerSummary{}, ErrConflict
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ?, is_guest = ?
		WHERE id = ?
	`, req.Name, boolToInt(req.IsGuest), id)
	if err != nil {
		return PlayerSummary{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return PlayerSummary{}, ErrNotFound
	}

	d, err := s.GetPlayer(ctx, id)
	return d.PlayerSummary, err
}

func (s *SQLiteStore) DeletePlayer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) playerNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM players WHERE name = ? AND id <> ?
	`, name, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]SessionDetail, error) {
	return s.querySessions(ctx, ``, `ORDER BY date DESC, created_at DESC`)
}

// ListSessionsBetween returns sessions whose calendar day falls in
// [from, to], oldest first. Date keys compare lexicographically, so the
// bounds are plain string comparisons.
func (s *SQLiteStore) ListSessionsBetween(ctx context.Context, from, to string) ([]SessionDetail, error) {
	return s.querySessions(ctx, `WHERE date >= ? AND date <= ?`, `ORDER BY date, created_at`, from, to)
}

func (s *SQLiteStore) querySessions(ctx context.Context, where, order string, args ...any) ([]SessionDetail, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, date, venue, base, unit, COALESCE(note, ''), created_at
		FROM game_sessions
		%s %s
	`, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []SessionDetail{}
	for rows.Next() {
		d, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		players, err := s.sessionPlayers(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Players = players
	}
	return sessions, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (SessionDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, venue, base, unit, COALESCE(note, ''), created_at
		FROM game_sessions
		WHERE id = ?
	`, id)
	d, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}

	d.Players, err = s.sessionPlayers(ctx, id)
	return d, err
}

func scanSession(row interface{ Scan(...any) error }) (SessionDetail, error) {
	var d SessionDetail
	var base, unit sql.NullInt64
	err := row.Scan(&d.ID, &d.Date, &d.Venue, &base, &unit, &d.Note, &d.CreatedAt)
	if err != nil {
		return d, err
	}
	d.Base = nullableInt(base)
	d.Unit = nullableInt(unit)
	d.Stakes = stakesLabel(d.Base, d.Unit)
	d.Players = []SessionPlayerView{}
	return d, nil
}

// sessionPlayers returns a session's participation rows in insertion order.
func (s *SQLiteStore) sessionPlayers(ctx context.Context, sessionID string) ([]SessionPlayerView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sp.player_id, p.name, p.is_guest, sp.amount
		FROM session_players sp
		JOIN players p ON p.id = sp.player_id
		WHERE sp.session_id = ?
		ORDER BY sp.rowid
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []SessionPlayerView{}
	for rows.Next() {
		var v SessionPlayerView
		var isGuest int
		if err := rows.Scan(&v.PlayerID, &v.Name, &isGuest, &v.Amount); err != nil {
			return nil, err
		}
		v.IsGuest = isGuest != 0
		players = append(players, v)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, req SessionRequest) (SessionDetail, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionDetail{}, err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_sessions (id, date, venue, base, unit, note)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''))
	`, id, req.Date, req.Venue, req.Base, req.Unit, req.Note)
	if err != nil {
		return SessionDetail{}, err
	}

	if err := insertParticipants(ctx, tx, id, req.Players); err != nil {
		return SessionDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionDetail{}, err
	}

	return s.GetSession(ctx, id)
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, id string, req SessionRequest) (SessionDetail, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionDetail{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE game_sessions SET date = ?, venue = ?, base = ?, unit = ?, note = NULLIF(?, '')
		WHERE id = ?
	`, req.Date, req.Venue, req.Base, req.Unit, req.Note, id)
	if err != nil {
		return SessionDetail{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return SessionDetail{}, ErrNotFound
	}

	// Replace the participant set as a unit.
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_players WHERE session_id = ?`, id); err != nil {
		return SessionDetail{}, err
	}
	if err := insertParticipants(ctx, tx, id, req.Players); err != nil {
		return SessionDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return SessionDetail{}, err
	}

	return s.GetSession(ctx, id)
}

func insertParticipants(ctx context.Context, tx *sql.Tx, sessionID string, players []SessionPlayerInput) error {
	for _, p := range players {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM players WHERE id = ?`, p.PlayerID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("player %s: %w", p.PlayerID, ErrPlayerMissing)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_players (session_id, player_id, amount)
			VALUES (?, ?, ?)
		`, sessionID, p.PlayerID, p.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context, monthStart string) (StatsResponse, error) {
	var resp StatsResponse

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM players),
			(SELECT COUNT(*) FROM game_sessions),
			(SELECT COUNT(*) FROM game_sessions WHERE date >= ?)
	`, monthStart).Scan(&resp.TotalPlayers, &resp.TotalSessions, &resp.ThisMonthSessions)
	if err != nil {
		return resp, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sp.player_id, p.name, SUM(sp.amount), COUNT(sp.session_id)
		FROM session_players sp
		JOIN players p ON p.id = sp.player_id
		GROUP BY sp.player_id
		ORDER BY SUM(sp.amount) DESC
	`)
	if err != nil {
		return resp, err
	}
	defer rows.Close()

	var ranked []StatsPlayer
	for rows.Next() {
		var p StatsPlayer
		if err := rows.Scan(&p.ID, &p.Name, &p.Total, &p.Sessions); err != nil {
			return resp, err
		}
		ranked = append(ranked, p)
	}
	if err := rows.Err(); err != nil {
		return resp, err
	}

	// The top winner/loser slots stay empty unless someone is actually
	// ahead or behind overall.
	if len(ranked) > 0 {
		if first := ranked[0]; first.Total > 0 {
			resp.TopWinner = &first
		}
		if last := ranked[len(ranked)-1]; last.Total < 0 {
			resp.TopLoser = &last
		}
	}

	recent, err := s.querySessions(ctx, ``, `ORDER BY date DESC, created_at DESC LIMIT 5`)
	if err != nil {
		return resp, err
	}
	resp.RecentSessions = []StatsRecentSession{}
	for _, sess := range recent {
		item := StatsRecentSession{
			ID:      sess.ID,
			Date:    sess.Date,
			Venue:   sess.Venue,
			Stakes:  sess.Stakes,
			Players: []StatsRecentPlayer{},
		}
		for _, p := range sess.Players {
			item.Players = append(item.Players, StatsRecentPlayer{Name: p.Name, Amount: p.Amount})
		}
		sortByAmountDesc(item.Players)
		resp.RecentSessions = append(resp.RecentSessions, item)
	}
	return resp, nil
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES (?, ?, ?)
	`, uuid.NewString(), email, passwordHash)
	return err
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id)
		VALUES (?)
		RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
