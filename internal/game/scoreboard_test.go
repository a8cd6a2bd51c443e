package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-game-service/internal/domain"
)

func TestRecordAnswerAccumulates(t *testing.T) {
	room := domain.Room{}
	board := NewScoreBoard(&room)

	res := board.RecordAnswer("p1", "alice", true, 4*time.Millisecond)
	assert.Equal(t, 10, res.Points)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, int64(4), res.TotalTime)

	res = board.RecordAnswer("p1", "alice", false, 6*time.Millisecond)
	assert.Equal(t, 10, res.Points)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, int64(10), res.TotalTime)

	require.Len(t, room.Results, 1)
	assert.Equal(t, "alice", room.Results[0].Username)
}

func TestRecordAnswerClampsNegativeElapsed(t *testing.T) {
	room := domain.Room{}
	board := NewScoreBoard(&room)

	res := board.RecordAnswer("p1", "alice", true, -5*time.Second)
	assert.Equal(t, int64(0), res.TotalTime)
	assert.Equal(t, 10, res.Points)
}

func TestRecordAnswerReturnsSnapshot(t *testing.T) {
	room := domain.Room{}
	board := NewScoreBoard(&room)

	res := board.RecordAnswer("p1", "alice", true, time.Second)
	res.Points = 999
	stored, ok := board.Result("p1")
	require.True(t, ok)
	assert.Equal(t, 10, stored.Points)
}

func TestRecordAnswerCreatesOneResultPerPlayer(t *testing.T) {
	room := domain.Room{}
	board := NewScoreBoard(&room)

	for _, p := range []string{"p1", "p2", "p1", "p3", "p2", "p1"} {
		board.RecordAnswer(p, p, true, time.Millisecond)
	}
	require.Len(t, room.Results, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{room.Results[0].PlayerID, room.Results[1].PlayerID, room.Results[2].PlayerID})
	assert.Equal(t, 30, room.Results[0].Points)
}

func TestRecordQuestionIgnoresRepeats(t *testing.T) {
	room := domain.Room{}
	board := NewScoreBoard(&room)

	res, dup := board.RecordQuestion("p1", "alice", 0, true, 3*time.Millisecond)
	require.False(t, dup)
	assert.Equal(t, 10, res.Points)

	res, dup = board.RecordQuestion("p1", "alice", 0, true, 3*time.Millisecond)
	require.True(t, dup)
	assert.Equal(t, 10, res.Points)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, int64(3), res.TotalTime)

	res, dup = board.RecordQuestion("p1", "alice", 1, true, 3*time.Millisecond)
	require.False(t, dup)
	assert.Equal(t, 20, res.Points)
	assert.Equal(t, []int{0, 1}, res.Answered)
}

func TestRecordQuestionScoresLikeRecordAnswer(t *testing.T) {
	byAnswer, byQuestion := domain.Room{}, domain.Room{}
	answers := NewScoreBoard(&byAnswer)
	questions := NewScoreBoard(&byQuestion)

	steps := []struct {
		correct bool
		elapsed time.Duration
	}{
		{true, 1200 * time.Millisecond},
		{false, -5 * time.Millisecond},
		{true, 300 * time.Millisecond},
	}
	var want, got domain.PlayerResult
	for i, s := range steps {
		want = answers.RecordAnswer("p1", "alice", s.correct, s.elapsed)
		var dup bool
		got, dup = questions.RecordQuestion("p1", "alice", i, s.correct, s.elapsed)
		require.False(t, dup)
	}

	assert.Equal(t, want.Points, got.Points)
	assert.Equal(t, want.CorrectAnswers, got.CorrectAnswers)
	assert.Equal(t, want.TotalTime, got.TotalTime)
	assert.Equal(t, []int{0, 1, 2}, got.Answered)
	assert.Empty(t, want.Answered)
}
