package game

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-game-service/internal/domain"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "6"}},
		{ID: "q2", Text: "Capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: []string{"Rome", "Berlin", "Madrid"}, Timer: 20},
		{ID: "q3", Text: "Is water wet?", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}},
	}
}

func TestPresentPlacesCorrectAnswer(t *testing.T) {
	p := NewPresenterWithRand(rand.New(rand.NewSource(7)))
	questions := sampleQuestions()

	presented := p.Present(questions, true)
	require.Len(t, presented, len(questions))

	for _, pq := range presented {
		q := questions[pq.QuestionIndex]
		assert.Equal(t, q.ID, pq.QuestionID)
		require.Len(t, pq.Options, len(q.IncorrectAnswers)+1)
		require.GreaterOrEqual(t, pq.CorrectOption, 1)
		assert.Equal(t, q.CorrectAnswer, pq.Options[pq.CorrectOption-1].Text)
		for n, opt := range pq.Options {
			assert.Equal(t, n+1, opt.Number)
		}
		incorrect := make([]string, 0, len(q.IncorrectAnswers))
		for _, opt := range pq.Options {
			if opt.Number != pq.CorrectOption {
				incorrect = append(incorrect, opt.Text)
			}
		}
		assert.Equal(t, q.IncorrectAnswers, incorrect, "incorrect answers keep their relative order")
	}
}

func TestPresentIsPermutationOfQuestions(t *testing.T) {
	p := NewPresenterWithRand(rand.New(rand.NewSource(3)))
	presented := p.Present(sampleQuestions(), false)

	indexes := make([]int, len(presented))
	for i, pq := range presented {
		indexes[i] = pq.QuestionIndex
		assert.Zero(t, pq.CorrectOption, "answers hidden")
	}
	sort.Ints(indexes)
	assert.Equal(t, []int{0, 1, 2}, indexes)
}

func TestPresentAppliesDefaultTimer(t *testing.T) {
	p := NewPresenterWithRand(rand.New(rand.NewSource(1)))
	for _, pq := range p.Present(sampleQuestions(), false) {
		if pq.QuestionID == "q2" {
			assert.Equal(t, 20, pq.Timer)
		} else {
			assert.Equal(t, domain.DefaultQuestionTimer, pq.Timer)
		}
	}
}

func TestPresentIsReproducibleWithSeed(t *testing.T) {
	a := NewPresenterWithRand(rand.New(rand.NewSource(99))).Present(sampleQuestions(), true)
	b := NewPresenterWithRand(rand.New(rand.NewSource(99))).Present(sampleQuestions(), true)
	assert.Equal(t, a, b)
}

func TestPresentCorrectPositionIsUniform(t *testing.T) {
	p := NewPresenterWithRand(rand.New(rand.NewSource(2024)))
	question := []domain.Question{{ID: "q", CorrectAnswer: "c", IncorrectAnswers: []string{"x", "y", "z"}}}

	const rounds = 8000
	counts := make([]int, 4)
	for i := 0; i < rounds; i++ {
		counts[p.Present(question, true)[0].CorrectOption-1]++
	}
	for pos, c := range counts {
		assert.InDelta(t, rounds/4, c, rounds/20, "position %d", pos+1)
	}
}

func TestPresentQuestionOrderIsUniform(t *testing.T) {
	p := NewPresenterWithRand(rand.New(rand.NewSource(11)))
	questions := sampleQuestions()

	const rounds = 6000
	first := make(map[int]int)
	for i := 0; i < rounds; i++ {
		first[p.Present(questions, false)[0].QuestionIndex]++
	}
	for idx := range questions {
		assert.InDelta(t, rounds/3, first[idx], rounds/15, "question %d first", idx)
	}
}
