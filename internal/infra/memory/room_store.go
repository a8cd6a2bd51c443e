package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-game-service/internal/domain"
)

// RoomStore is an in-memory implementation of app.RoomStore.
// Each room carries its own mutex so updates serialize per room only.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room domain.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*roomEntry),
	}
}

func (s *RoomStore) Create(_ context.Context, room domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.RoomID]; ok {
		return domain.ErrRoomAlreadyExists
	}
	s.rooms[room.RoomID] = &roomEntry{room: room.Clone()}
	return nil
}

func (s *RoomStore) Get(_ context.Context, roomID string) (domain.Room, error) {
	entry, ok := s.entry(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.room.Clone(), nil
}

// Update applies fn to a copy of the room under the room's lock and keeps
// the result only if fn succeeds.
func (s *RoomStore) Update(_ context.Context, roomID string, fn func(*domain.Room) error) (domain.Room, error) {
	entry, ok := s.entry(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.room.Clone()
	if err := fn(&working); err != nil {
		return domain.Room{}, err
	}
	entry.room = working
	return working.Clone(), nil
}

// List returns rooms ordered by creation time.
func (s *RoomStore) List(_ context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	entries := make([]*roomEntry, 0, len(s.rooms))
	for _, e := range s.rooms {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		rooms = append(rooms, e.room.Clone())
		e.mu.Unlock()
	}
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].RoomID < rooms[j].RoomID
	})
	return rooms, nil
}

func (s *RoomStore) entry(roomID string) (*roomEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rooms[roomID]
	return e, ok
}
