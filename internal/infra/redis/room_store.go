package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/domain"
)

const roomsIndexKey = "rooms"

// maxTxRetries bounds optimistic transaction retries when a watched key changes.
const maxTxRetries = 50

// RoomStore keeps each room as a JSON document:
//
//	SET  room:{roomID} {json}
//	SADD rooms {roomID}
//
// Updates run inside WATCH/MULTI so concurrent writers to the same room
// serialize instead of overwriting each other.
type RoomStore struct {
	client *redis.Client
}

func NewRoomStore(client *redis.Client) *RoomStore {
	return &RoomStore{client: client}
}

func (s *RoomStore) Create(ctx context.Context, room domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, roomKey(room.RoomID), data, 0).Result()
	if err != nil {
		return domain.PersistenceError("create room", err)
	}
	if !ok {
		return domain.ErrRoomAlreadyExists
	}
	if err := s.client.SAdd(ctx, roomsIndexKey, room.RoomID).Err(); err != nil {
		return domain.PersistenceError("index room", err)
	}
	return nil
}

func (s *RoomStore) Get(ctx context.Context, roomID string) (domain.Room, error) {
	data, err := s.client.Get(ctx, roomKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, domain.PersistenceError("load room", err)
	}
	return decodeRoom(data)
}

func (s *RoomStore) Update(ctx context.Context, roomID string, fn func(*domain.Room) error) (domain.Room, error) {
	key := roomKey(roomID)
	var committed domain.Room

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return domain.PersistenceError("load room", err)
		}
		room, err := decodeRoom(data)
		if err != nil {
			return err
		}
		if err := fn(&room); err != nil {
			return callerError{err}
		}
		out, err := json.Marshal(room)
		if err != nil {
			return domain.PersistenceError("encode room", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			committed = room
		}
		return err
	}

	if err := watchWithRetry(ctx, s.client, txf, key); err != nil {
		return domain.Room{}, err
	}
	return committed, nil
}

func (s *RoomStore) List(ctx context.Context) ([]domain.Room, error) {
	ids, err := s.client.SMembers(ctx, roomsIndexKey).Result()
	if err != nil {
		return nil, domain.PersistenceError("list rooms", err)
	}
	if len(ids) == 0 {
		return []domain.Room{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.PersistenceError("load rooms", err)
	}

	rooms := make([]domain.Room, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		room, err := decodeRoom([]byte(str))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].RoomID < rooms[j].RoomID
	})
	return rooms, nil
}

func roomKey(roomID string) string {
	return "room:" + roomID
}

func decodeRoom(data []byte) (domain.Room, error) {
	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return domain.Room{}, domain.PersistenceError("decode room", err)
	}
	return room, nil
}

// callerError marks errors produced by update callbacks so they pass through unwrapped.
type callerError struct{ err error }

func (e callerError) Error() string { return e.err.Error() }

// watchWithRetry runs txf under WATCH on keys, retrying when another client
// modified a watched key before EXEC.
func watchWithRetry(ctx context.Context, client *redis.Client, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := client.Watch(ctx, txf, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var ce callerError
		if errors.As(err, &ce) {
			return ce.err
		}
		if errors.Is(err, domain.ErrPersistence) || errors.Is(err, domain.ErrRoomNotFound) {
			return err
		}
		return domain.PersistenceError("redis transaction", err)
	}
	return domain.PersistenceError("redis transaction", redis.TxFailedErr)
}
