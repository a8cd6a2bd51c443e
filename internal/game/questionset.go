package game

import (
	"strings"

	"trivia-game-service/internal/domain"
)

// Filter returns the pool questions matching a category (case-insensitive
// substring) and difficulty (case-insensitive equality), in pool order.
func Filter(pool []domain.Question, category, difficulty string) []domain.Question {
	category = strings.ToLower(strings.TrimSpace(category))
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))

	out := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.Category == "" || q.Difficulty == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(q.Category), category) {
			continue
		}
		if strings.ToLower(q.Difficulty) != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SelectQuestionSet picks the first count matching questions and returns their IDs.
func SelectQuestionSet(matching []domain.Question, count int) ([]string, error) {
	if len(matching) < count {
		return nil, &domain.InsufficientQuestionsError{Available: len(matching), Requested: count}
	}
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		ids[i] = matching[i].ID
	}
	return ids, nil
}

// OrderQuestionSet arranges loaded questions in the room's fixed order.
func OrderQuestionSet(ids []string, loaded []domain.Question) ([]domain.Question, error) {
	byID := make(map[string]domain.Question, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	out := make([]domain.Question, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, domain.ErrQuestionNotFound
		}
		out[i] = q
	}
	return out, nil
}

// ValidDifficulty reports whether a difficulty is one the pool uses.
func ValidDifficulty(difficulty string) bool {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

// Verify reports whether the selected option text is the question's correct answer.
func Verify(q domain.Question, selectedOption string) bool {
	selected := strings.TrimSpace(selectedOption)
	return selected != "" && selected == strings.TrimSpace(q.CorrectAnswer)
}
