package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"trivia-game-service/internal/domain"
)

// OpenBun opens a bun handle over pgdriver for migrations and the
// leaderboard store.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type leaderboardRow struct {
	bun.BaseModel `bun:"table:leaderboards"`

	RoomID    string                    `bun:"room_id,pk"`
	GameID    string                    `bun:"game_id,notnull"`
	Entries   []domain.LeaderboardEntry `bun:"entries,type:jsonb,notnull"`
	CreatedAt time.Time                 `bun:"created_at,notnull"`
	UpdatedAt time.Time                 `bun:"updated_at,notnull"`
}

// LeaderboardStore keeps one snapshot row per room.
type LeaderboardStore struct {
	db *bun.DB
}

func NewLeaderboardStore(db *bun.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) Get(ctx context.Context, roomID string) (domain.LeaderboardSnapshot, error) {
	var row leaderboardRow
	err := s.db.NewSelect().Model(&row).Where("room_id = ?", roomID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LeaderboardSnapshot{}, domain.ErrLeaderboardNotFound
	}
	if err != nil {
		return domain.LeaderboardSnapshot{}, domain.PersistenceError("load leaderboard", err)
	}
	return row.snapshot(), nil
}

// Upsert replaces entries and updated_at; created_at stays from the first write.
func (s *LeaderboardStore) Upsert(ctx context.Context, snapshot domain.LeaderboardSnapshot) error {
	row := leaderboardRow{
		RoomID:    snapshot.RoomID,
		GameID:    snapshot.GameID,
		Entries:   snapshot.Entries,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	}
	if row.Entries == nil {
		row.Entries = []domain.LeaderboardEntry{}
	}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (room_id) DO UPDATE").
		Set("game_id = EXCLUDED.game_id").
		Set("entries = EXCLUDED.entries").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return domain.PersistenceError("upsert leaderboard", err)
	}
	return nil
}

func (s *LeaderboardStore) List(ctx context.Context) ([]domain.LeaderboardSnapshot, error) {
	var rows []leaderboardRow
	if err := s.db.NewSelect().Model(&rows).Order("created_at DESC", "room_id").Scan(ctx); err != nil {
		return nil, domain.PersistenceError("list leaderboards", err)
	}
	out := make([]domain.LeaderboardSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.snapshot())
	}
	return out, nil
}

func (r leaderboardRow) snapshot() domain.LeaderboardSnapshot {
	return domain.LeaderboardSnapshot{
		RoomID:    r.RoomID,
		GameID:    r.GameID,
		Entries:   r.Entries,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
