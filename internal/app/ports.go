package app

import (
	"context"

	"trivia-game-service/internal/domain"
)

// QuestionStore is the global question pool. The game only reads from it;
// Save is used by the question import path.
type QuestionStore interface {
	Get(ctx context.Context, id string) (domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Filter(ctx context.Context, category, difficulty string) ([]domain.Question, error)
	Save(ctx context.Context, questions []domain.Question) ([]domain.Question, error)
	Categories(ctx context.Context) ([]string, error)
	Difficulties(ctx context.Context, category string) ([]string, error)
	Count(ctx context.Context, category, difficulty string) (int, error)
}

// QuestionCache resolves a room's question set (cache/backing store).
type QuestionCache interface {
	RoomQuestions(ctx context.Context, room domain.Room) ([]domain.Question, error)
}

// RoomStore persists rooms. Update must serialize read-modify-write per room
// and return the committed room, so concurrent submissions never lose each
// other's results.
type RoomStore interface {
	Create(ctx context.Context, room domain.Room) error
	Get(ctx context.Context, roomID string) (domain.Room, error)
	Update(ctx context.Context, roomID string, fn func(*domain.Room) error) (domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

// LeaderboardStore keeps the latest snapshot per room (upsert by room id).
type LeaderboardStore interface {
	Get(ctx context.Context, roomID string) (domain.LeaderboardSnapshot, error)
	Upsert(ctx context.Context, snapshot domain.LeaderboardSnapshot) error
	// List returns every snapshot, newest first.
	List(ctx context.Context) ([]domain.LeaderboardSnapshot, error)
}

// UserStore holds player accounts and their global counters.
type UserStore interface {
	Get(ctx context.Context, userID string) (domain.User, error)
	RecordGame(ctx context.Context, userID string, points int, firstInRoom bool) error
}

// QuestionSource fetches fresh questions from an external trivia provider.
type QuestionSource interface {
	Fetch(ctx context.Context, amount, categoryID int, difficulty string) ([]domain.Question, error)
}
