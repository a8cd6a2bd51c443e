package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// QuestionStore is an in-memory question pool (useful for tests/demos).
// Questions keep insertion order.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
	byID      map[string]int
}

func NewQuestionStore(seed []domain.Question) *QuestionStore {
	s := &QuestionStore{byID: make(map[string]int)}
	_, _ = s.Save(context.Background(), seed)
	return s
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return s.questions[i], nil
}

func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Question(nil), s.questions...), nil
}

func (s *QuestionStore) Filter(ctx context.Context, category, difficulty string) ([]domain.Question, error) {
	all, _ := s.List(ctx)
	return game.Filter(all, category, difficulty), nil
}

// Save appends questions, assigning IDs to those without one.
func (s *QuestionStore) Save(_ context.Context, questions []domain.Question) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Timer == 0 {
			q.Timer = domain.DefaultQuestionTimer
		}
		if i, ok := s.byID[q.ID]; ok {
			s.questions[i] = q
		} else {
			s.byID[q.ID] = len(s.questions)
			s.questions = append(s.questions, q)
		}
		saved = append(saved, q)
	}
	return saved, nil
}

func (s *QuestionStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.questions, func(q domain.Question) (string, bool) {
		return q.Category, q.Category != ""
	}), nil
}

func (s *QuestionStore) Difficulties(_ context.Context, category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.questions, func(q domain.Question) (string, bool) {
		return q.Difficulty, q.Category == category && q.Difficulty != ""
	}), nil
}

func (s *QuestionStore) Count(_ context.Context, category, difficulty string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if q.Category == category && q.Difficulty == difficulty {
			n++
		}
	}
	return n, nil
}

func distinct(questions []domain.Question, pick func(domain.Question) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range questions {
		v, ok := pick(q)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
