package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-game-service/internal/domain"
)

// LeaderboardStore keeps one snapshot per room in memory.
type LeaderboardStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.LeaderboardSnapshot
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{snapshots: make(map[string]domain.LeaderboardSnapshot)}
}

func (s *LeaderboardStore) Get(_ context.Context, roomID string) (domain.LeaderboardSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[roomID]
	if !ok {
		return domain.LeaderboardSnapshot{}, domain.ErrLeaderboardNotFound
	}
	return copySnapshot(snap), nil
}

// Upsert replaces the room's snapshot; the original creation time is kept.
func (s *LeaderboardStore) Upsert(_ context.Context, snapshot domain.LeaderboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.snapshots[snapshot.RoomID]; ok {
		snapshot.CreatedAt = prev.CreatedAt
	}
	s.snapshots[snapshot.RoomID] = copySnapshot(snapshot)
	return nil
}

func (s *LeaderboardStore) List(_ context.Context) ([]domain.LeaderboardSnapshot, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, copySnapshot(snap))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out, nil
}

func copySnapshot(s domain.LeaderboardSnapshot) domain.LeaderboardSnapshot {
	s.Entries = append([]domain.LeaderboardEntry(nil), s.Entries...)
	if s.Entries == nil {
		s.Entries = []domain.LeaderboardEntry{}
	}
	return s
}
