package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/domain"
)

const leaderboardsIndexKey = "leaderboards"

// LeaderboardStore keeps the latest snapshot per room:
//
//	SET  leaderboard:{roomID} {json}
//	ZADD leaderboards {createdAt unix ms} {roomID}
//
// The sorted set orders List newest first without scanning keys.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) Get(ctx context.Context, roomID string) (domain.LeaderboardSnapshot, error) {
	data, err := s.client.Get(ctx, leaderboardKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.LeaderboardSnapshot{}, domain.ErrLeaderboardNotFound
	}
	if err != nil {
		return domain.LeaderboardSnapshot{}, domain.PersistenceError("load leaderboard", err)
	}
	return decodeSnapshot(data)
}

// Upsert replaces the room's entries and keeps the CreatedAt of the first
// snapshot written for that room.
func (s *LeaderboardStore) Upsert(ctx context.Context, snapshot domain.LeaderboardSnapshot) error {
	key := leaderboardKey(snapshot.RoomID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return domain.PersistenceError("load leaderboard", err)
		default:
			prev, err := decodeSnapshot(data)
			if err != nil {
				return err
			}
			if !prev.CreatedAt.IsZero() {
				snapshot.CreatedAt = prev.CreatedAt
			}
		}
		out, err := json.Marshal(snapshot)
		if err != nil {
			return domain.PersistenceError("encode leaderboard", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			pipe.ZAddNX(ctx, leaderboardsIndexKey, redis.Z{
				Score:  float64(snapshot.CreatedAt.UnixMilli()),
				Member: snapshot.RoomID,
			})
			return nil
		})
		return err
	}

	return watchWithRetry(ctx, s.client, txf, key)
}

func (s *LeaderboardStore) List(ctx context.Context) ([]domain.LeaderboardSnapshot, error) {
	ids, err := s.client.ZRevRange(ctx, leaderboardsIndexKey, 0, -1).Result()
	if err != nil {
		return nil, domain.PersistenceError("list leaderboards", err)
	}
	out := make([]domain.LeaderboardSnapshot, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = leaderboardKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.PersistenceError("load leaderboards", err)
	}
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		snap, err := decodeSnapshot([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func leaderboardKey(roomID string) string {
	return "leaderboard:" + roomID
}

func decodeSnapshot(data []byte) (domain.LeaderboardSnapshot, error) {
	var snap domain.LeaderboardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.LeaderboardSnapshot{}, domain.PersistenceError("decode leaderboard", err)
	}
	return snap, nil
}
