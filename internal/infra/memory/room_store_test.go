package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

func TestRoomStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore()

	if _, err := store.Get(ctx, "room-1"); err != domain.ErrRoomNotFound {
		t.Fatalf("expected room not found, got %v", err)
	}
	if err := store.Create(ctx, domain.Room{RoomID: "room-1", Status: domain.StatusNotStarted}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, domain.Room{RoomID: "room-1"}); err != domain.ErrRoomAlreadyExists {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	room, err := store.Update(ctx, "room-1", func(r *domain.Room) error {
		return game.Start(r, time.Now())
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if room.Status != domain.StatusStarted {
		t.Fatalf("expected started, got %s", room.Status)
	}
	if _, err := store.Update(ctx, "missing", func(*domain.Room) error { return nil }); err != domain.ErrRoomNotFound {
		t.Fatalf("expected room not found, got %v", err)
	}
}

func TestRoomStoreUpdateDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore()
	_ = store.Create(ctx, domain.Room{RoomID: "room-1", Status: domain.StatusNotStarted})

	boom := errors.New("boom")
	_, err := store.Update(ctx, "room-1", func(r *domain.Room) error {
		r.Status = domain.StatusEnded
		return boom
	})
	if err != boom {
		t.Fatalf("expected fn error, got %v", err)
	}
	room, _ := store.Get(ctx, "room-1")
	if room.Status != domain.StatusNotStarted {
		t.Fatalf("expected unchanged room, got %s", room.Status)
	}
}

func TestRoomStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore()
	_ = store.Create(ctx, domain.Room{RoomID: "room-1", Results: []domain.PlayerResult{{PlayerID: "p1", Points: 10}}})

	room, _ := store.Get(ctx, "room-1")
	room.Results[0].Points = 1000

	again, _ := store.Get(ctx, "room-1")
	if again.Results[0].Points != 10 {
		t.Fatalf("stored room mutated through copy: %+v", again.Results[0])
	}
}

func TestRoomStoreConcurrentUpdatesKeepEveryPlayer(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore()
	_ = store.Create(ctx, domain.Room{RoomID: "room-1", QuestionIDs: []string{"q1", "q2", "q3"}, Status: domain.StatusStarted})

	const players = 20
	var wg sync.WaitGroup
	for p := 0; p < players; p++ {
		for q := 0; q < 3; q++ {
			wg.Add(1)
			go func(player string, q int) {
				defer wg.Done()
				_, err := store.Update(ctx, "room-1", func(r *domain.Room) error {
					game.NewScoreBoard(r).RecordQuestion(player, player, q, true, time.Millisecond)
					return nil
				})
				if err != nil {
					t.Errorf("update: %v", err)
				}
			}(fmt.Sprintf("p%d", p), q)
		}
	}
	wg.Wait()

	room, _ := store.Get(ctx, "room-1")
	if len(room.Results) != players {
		t.Fatalf("expected %d results, got %d", players, len(room.Results))
	}
	for _, res := range room.Results {
		if res.Points != 30 || res.CorrectAnswers != 3 {
			t.Fatalf("lost update for %s: %+v", res.PlayerID, res)
		}
	}
}

func TestRoomStoreListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	store := NewRoomStore()
	base := time.Now()
	_ = store.Create(ctx, domain.Room{RoomID: "b", CreatedAt: base.Add(time.Second)})
	_ = store.Create(ctx, domain.Room{RoomID: "a", CreatedAt: base})

	rooms, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rooms) != 2 || rooms[0].RoomID != "a" || rooms[1].RoomID != "b" {
		t.Fatalf("unexpected order: %+v", rooms)
	}
}
