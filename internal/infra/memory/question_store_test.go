package memory

import (
	"context"
	"reflect"
	"testing"

	"trivia-game-service/internal/domain"
)

func TestQuestionStoreQueries(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(sampleQuestions())

	cats, _ := store.Categories(ctx)
	if !reflect.DeepEqual(cats, []string{"Entertainment: Film", "Science: Mathematics"}) {
		t.Fatalf("unexpected categories %v", cats)
	}
	diffs, _ := store.Difficulties(ctx, "Entertainment: Film")
	if !reflect.DeepEqual(diffs, []string{"hard"}) {
		t.Fatalf("unexpected difficulties %v", diffs)
	}
	n, _ := store.Count(ctx, "Science: Mathematics", "easy")
	if n != 2 {
		t.Fatalf("expected 2 questions, got %d", n)
	}
	filtered, _ := store.Filter(ctx, "mathematics", "EASY")
	if len(filtered) != 2 || filtered[0].ID != "q1" {
		t.Fatalf("unexpected filter result %+v", filtered)
	}
}

func TestQuestionStoreSaveAssignsIDsAndTimer(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(nil)

	saved, err := store.Save(ctx, []domain.Question{{Text: "new", Category: "Books", Difficulty: "easy"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved[0].ID == "" || saved[0].Timer != domain.DefaultQuestionTimer {
		t.Fatalf("expected id and default timer, got %+v", saved[0])
	}
	got, err := store.Get(ctx, saved[0].ID)
	if err != nil || got.Text != "new" {
		t.Fatalf("get saved: %+v %v", got, err)
	}
	if _, err := store.Get(ctx, "missing"); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
