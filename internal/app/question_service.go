package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// categoryIDs maps category names to Open Trivia DB category ids.
var categoryIDs = map[string]int{
	"general knowledge": 9,
	"books":             10,
	"film":              11,
	"music":             12,
	"computers":         18,
	"mathematics":       19,
	"science":           17,
}

// CategoryID resolves a category name, tolerating a "Group: " prefix
// ("Entertainment: Film" → film).
func CategoryID(category string) (int, bool) {
	name := strings.TrimSpace(category)
	if _, after, ok := strings.Cut(name, ": "); ok {
		name = after
	}
	id, ok := categoryIDs[strings.ToLower(name)]
	return id, ok
}

// QuestionService manages the question pool.
type QuestionService struct {
	store  QuestionStore
	source QuestionSource
	log    *slog.Logger
}

func NewQuestionService(store QuestionStore, source QuestionSource, logger *slog.Logger) *QuestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionService{store: store, source: source, log: logger.With("component", "questions")}
}

// Import fetches questions from the external source and adds them to the pool.
func (s *QuestionService) Import(ctx context.Context, category, difficulty string, amount int) ([]domain.Question, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	categoryID, ok := CategoryID(category)
	if !ok {
		return nil, fmt.Errorf("%w: category %q", domain.ErrInvalidCategoryOrDifficulty, category)
	}
	if !game.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidCategoryOrDifficulty, difficulty)
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no question source configured", domain.ErrUpstreamQuestionSource)
	}

	fetched, err := s.source.Fetch(ctx, amount, categoryID, strings.ToLower(difficulty))
	if err != nil {
		if !errors.Is(err, domain.ErrUpstreamQuestionSource) {
			err = fmt.Errorf("%w: %w", domain.ErrUpstreamQuestionSource, err)
		}
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("%w: no questions returned", domain.ErrUpstreamQuestionSource)
	}

	saved, err := s.store.Save(ctx, fetched)
	if err != nil {
		return nil, err
	}
	s.log.Info("questions imported", "category", category, "difficulty", difficulty, "count", len(saved))
	return saved, nil
}

// Categories lists the distinct categories in the pool.
func (s *QuestionService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// Difficulties lists the difficulties available for a category.
func (s *QuestionService) Difficulties(ctx context.Context, category string) ([]string, error) {
	if _, ok := CategoryID(category); !ok {
		return nil, fmt.Errorf("%w: category %q", domain.ErrInvalidCategoryOrDifficulty, category)
	}
	return s.store.Difficulties(ctx, category)
}

// Count returns how many pool questions have exactly this category and difficulty.
func (s *QuestionService) Count(ctx context.Context, category, difficulty string) (int, error) {
	return s.store.Count(ctx, category, difficulty)
}
