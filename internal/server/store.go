package server

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrPlayerMissing is returned when a session references a player id
	// that does not resolve to an existing row.
	ErrPlayerMissing = errors.New("player does not exist")
)

// Store is everything the handlers need from persistence. Session create
// and update replace the participant set atomically; callers validate the
// zero-sum invariant before either.
type Store interface {
	ListPlayers(ctx context.Context) ([]PlayerSummary, error)
	GetPlayer(ctx context.Context, id string) (PlayerDetail, error)
	CreatePlayer(ctx context.Context, req PlayerRequest) (PlayerSummary, error)
	UpdatePlayer(ctx context.Context, id string, req PlayerRequest) (PlayerSummary, error)
	DeletePlayer(ctx context.Context, id string) error

	ListSessions(ctx context.Context) ([]SessionDetail, error)
	ListSessionsBetween(ctx context.Context, from, to string) ([]SessionDetail, error)
	GetSession(ctx context.Context, id string) (SessionDetail, error)
	CreateSession(ctx context.Context, req SessionRequest) (SessionDetail, error)
	UpdateSession(ctx context.Context, id string, req SessionRequest) (SessionDetail, error)
	DeleteSession(ctx context.Context, id string) error

	Stats(ctx context.Context, monthStart string) (StatsResponse, error)

	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
