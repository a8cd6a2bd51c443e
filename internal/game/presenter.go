package game

import (
	"math/rand"
	"sync"
	"time"

	"trivia-game-service/internal/domain"
)

// Presenter builds the shuffled, numbered view of a question set.
// It is safe for concurrent use.
type Presenter struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPresenter seeds from the wall clock.
func NewPresenter() *Presenter {
	return NewPresenterWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPresenterWithRand allows deterministic output in tests.
func NewPresenterWithRand(rnd *rand.Rand) *Presenter {
	return &Presenter{rnd: rnd}
}

// Present inserts every correct answer at a uniformly random position among
// its incorrect answers, then shuffles the questions. withAnswers controls
// whether CorrectOption is filled in.
func (p *Presenter) Present(questions []domain.Question, withAnswers bool) []domain.PresentedQuestion {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.PresentedQuestion, len(questions))
	for i, q := range questions {
		texts := make([]string, 0, len(q.IncorrectAnswers)+1)
		texts = append(texts, q.IncorrectAnswers...)
		correctAt := p.rnd.Intn(len(texts) + 1)
		texts = append(texts, "")
		copy(texts[correctAt+1:], texts[correctAt:])
		texts[correctAt] = q.CorrectAnswer

		options := make([]domain.PresentedOption, len(texts))
		for n, text := range texts {
			options[n] = domain.PresentedOption{Number: n + 1, Text: text}
		}

		timer := q.Timer
		if timer == 0 {
			timer = domain.DefaultQuestionTimer
		}
		out[i] = domain.PresentedQuestion{
			QuestionIndex: i,
			QuestionID:    q.ID,
			Text:          q.Text,
			Category:      q.Category,
			Difficulty:    q.Difficulty,
			Timer:         timer,
			Options:       options,
		}
		if withAnswers {
			out[i].CorrectOption = correctAt + 1
		}
	}

	// Fisher–Yates
	for i := len(out) - 1; i > 0; i-- {
		j := p.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
