package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// QuestionLoader fetches questions from the pool's backing store (e.g., Postgres).
type QuestionLoader interface {
	Get(ctx context.Context, id string) (domain.Question, error)
}

// QuestionCache caches a room's question set in Redis and falls back to the
// loader on a miss. Questions are stored by position in the room:
//
//	HSET room:{roomID}:questions {index} {question json}
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) RoomQuestions(ctx context.Context, room domain.Room) ([]domain.Question, error) {
	key := questionsKey(room.RoomID)

	cached, err := c.client.HGetAll(ctx, key).Result()
	if err == nil {
		if qs, ok := buildFromCache(room, cached); ok {
			return qs, nil
		}
	}

	result, err, _ := c.sf.Do(room.RoomID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := c.client.HGetAll(ctx, key).Result()
		if err == nil {
			if qs, ok := buildFromCache(room, cached); ok {
				return qs, nil
			}
		}

		loaded := make([]domain.Question, 0, len(room.QuestionIDs))
		for _, id := range room.QuestionIDs {
			q, err := c.loader.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			loaded = append(loaded, q)
		}
		ordered, err := game.OrderQuestionSet(room.QuestionIDs, loaded)
		if err != nil {
			return nil, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		for i, q := range ordered {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, domain.PersistenceError("encode question", err)
			}
			pipe.HSet(ctx, key, strconv.Itoa(i), data)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// A failed cache write only costs a reload next time.
		_, _ = pipe.Exec(ctx)

		return ordered, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func questionsKey(roomID string) string {
	return "room:" + roomID + ":questions"
}

// buildFromCache reports false when the hash is missing or does not match the
// room's question ids, so a stale or partial entry is reloaded.
func buildFromCache(room domain.Room, cached map[string]string) ([]domain.Question, bool) {
	if len(cached) == 0 || len(cached) != len(room.QuestionIDs) {
		return nil, false
	}
	questions := make([]domain.Question, len(room.QuestionIDs))
	for i, id := range room.QuestionIDs {
		raw, ok := cached[strconv.Itoa(i)]
		if !ok {
			return nil, false
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil || q.ID != id {
			return nil, false
		}
		questions[i] = q
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
