package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// QuestionLoader fetches questions from the pool's backing store.
type QuestionLoader interface {
	Get(ctx context.Context, id string) (domain.Question, error)
}

// QuestionCache caches each room's resolved question set with TTL to avoid
// repeated store hits. Question sets never change after room creation.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (c *QuestionCache) RoomQuestions(ctx context.Context, room domain.Room) ([]domain.Question, error) {
	if qs, ok := c.lookup(room.RoomID); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(room.RoomID, func() (interface{}, error) {
		if qs, ok := c.lookup(room.RoomID); ok {
			return qs, nil
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

		c.mu.Lock()
		c.cache[room.RoomID] = cachedSet{
			questions: ordered,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return ordered, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) lookup(roomID string) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[roomID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return entry.questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
