package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// RoomStore persists each room as a JSONB document. Update holds a row lock
// (SELECT ... FOR UPDATE) for the read-modify-write.
type RoomStore struct {
	pool *pgxpool.Pool
}

func NewRoomStore(pool *pgxpool.Pool) *RoomStore {
	return &RoomStore{pool: pool}
}

func (s *RoomStore) Create(ctx context.Context, room domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return domain.PersistenceError("encode room", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO rooms (room_id, game_id, status, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $5)
		ON CONFLICT (room_id) DO NOTHING`,
		room.RoomID, room.GameID, string(room.Status), string(data), room.CreatedAt)
	if err != nil {
		return domain.PersistenceError("create room", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomAlreadyExists
	}
	return nil
}

func (s *RoomStore) Get(ctx context.Context, roomID string) (domain.Room, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM rooms WHERE room_id=$1`, roomID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, domain.PersistenceError("load room", err)
	}
	return decodeRoom(raw)
}

func (s *RoomStore) Update(ctx context.Context, roomID string, fn func(*domain.Room) error) (domain.Room, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Room{}, domain.PersistenceError("begin room update", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT data FROM rooms WHERE room_id=$1 FOR UPDATE`, roomID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, domain.PersistenceError("lock room", err)
	}
	room, err := decodeRoom(raw)
	if err != nil {
		return domain.Room{}, err
	}
	if err := fn(&room); err != nil {
		return domain.Room{}, err
	}

	data, err := json.Marshal(room)
	if err != nil {
		return domain.Room{}, domain.PersistenceError("encode room", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE rooms SET data=$2::jsonb, status=$3, updated_at=now() WHERE room_id=$1`,
		roomID, string(data), string(room.Status)); err != nil {
		return domain.Room{}, domain.PersistenceError("update room", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Room{}, domain.PersistenceError("commit room update", err)
	}
	return room, nil
}

func (s *RoomStore) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM rooms ORDER BY created_at, room_id`)
	if err != nil {
		return nil, domain.PersistenceError("list rooms", err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, domain.PersistenceError("list rooms", err)
		}
		room, err := decodeRoom(raw)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError("list rooms", err)
	}
	return rooms, nil
}

func decodeRoom(raw []byte) (domain.Room, error) {
	var room domain.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return domain.Room{}, domain.PersistenceError("decode room", err)
	}
	return room, nil
}
