package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// UserStore keeps player accounts and their global counters.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Get(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, points, games_played FROM users WHERE id=$1`, userID).
		Scan(&u.ID, &u.Username, &u.Points, &u.GamesPlayed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.PersistenceError("load user", err)
	}
	return u, nil
}

// Register creates a user or renames an existing one, leaving counters intact.
func (s *UserStore) Register(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username`,
		user.ID, user.Username)
	if err != nil {
		return domain.PersistenceError("register user", err)
	}
	return nil
}

// RecordGame adds points atomically; unknown players are created with their
// id as username.
func (s *UserStore) RecordGame(ctx context.Context, userID string, points int, firstInRoom bool) error {
	games := 0
	if firstInRoom {
		games = 1
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, points, games_played) VALUES ($1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			points = users.points + EXCLUDED.points,
			games_played = users.games_played + EXCLUDED.games_played`,
		userID, points, games)
	if err != nil {
		return domain.PersistenceError("record game", err)
	}
	return nil
}
