package app

import (
	"context"
	"time"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// Ranker ranks a room's results and stores them as the room's snapshot.
type Ranker struct {
	store LeaderboardStore
	now   func() time.Time
}

func NewRanker(store LeaderboardStore, now func() time.Time) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{store: store, now: now}
}

// Rank recomputes the leaderboard from scratch and replaces the stored snapshot.
func (r *Ranker) Rank(ctx context.Context, room domain.Room) ([]domain.LeaderboardEntry, error) {
	entries := game.Rank(room.Results)
	now := r.now()
	err := r.store.Upsert(ctx, domain.LeaderboardSnapshot{
		RoomID:    room.RoomID,
		GameID:    room.GameID,
		Entries:   entries,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
