package memory

import (
	"context"
	"sync"

	"trivia-game-service/internal/domain"
)

// UserStore keeps player accounts in memory. Unknown players are created on
// their first recorded game.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore(seed ...domain.User) *UserStore {
	s := &UserStore{users: make(map[string]domain.User, len(seed))}
	for _, u := range seed {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) Get(_ context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) RecordGame(_ context.Context, userID string, points int, firstInRoom bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		u = domain.User{ID: userID, Username: userID}
	}
	u.Points += points
	if firstInRoom {
		u.GamesPlayed++
	}
	s.users[userID] = u
	return nil
}
