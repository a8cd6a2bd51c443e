package game

import (
	"time"

	"trivia-game-service/internal/domain"
)

// PointsPerCorrectAnswer is the fixed award for a correct answer.
const PointsPerCorrectAnswer = 10

// ScoreBoard accumulates per-player results of one room. It operates on the
// room's Results slice in place; entries keep first-submission order.
type ScoreBoard struct {
	results *[]domain.PlayerResult
}

// NewScoreBoard binds a scoreboard to a room's results.
func NewScoreBoard(room *domain.Room) ScoreBoard {
	return ScoreBoard{results: &room.Results}
}

// RecordAnswer adds one answer to the player's tally and returns a snapshot of it.
// Elapsed time is added even for incorrect answers; negative durations count as zero.
func (b ScoreBoard) RecordAnswer(playerID, username string, correct bool, elapsed time.Duration) domain.PlayerResult {
	res := b.lookupOrCreate(playerID, username)
	apply(res, correct, elapsed)
	return res.Clone()
}

// RecordQuestion is RecordAnswer keyed by question index. A second answer for
// the same question leaves the tally untouched and reports duplicate=true.
func (b ScoreBoard) RecordQuestion(playerID, username string, questionIndex int, correct bool, elapsed time.Duration) (domain.PlayerResult, bool) {
	if res := b.find(playerID); res != nil {
		for _, idx := range res.Answered {
			if idx == questionIndex {
				return res.Clone(), true
			}
		}
	}
	b.RecordAnswer(playerID, username, correct, elapsed)
	res := b.find(playerID)
	res.Answered = append(res.Answered, questionIndex)
	return res.Clone(), false
}

// Result returns the player's tally, if any.
func (b ScoreBoard) Result(playerID string) (domain.PlayerResult, bool) {
	if res := b.find(playerID); res != nil {
		return res.Clone(), true
	}
	return domain.PlayerResult{}, false
}

func (b ScoreBoard) find(playerID string) *domain.PlayerResult {
	for i := range *b.results {
		if (*b.results)[i].PlayerID == playerID {
			return &(*b.results)[i]
		}
	}
	return nil
}

func (b ScoreBoard) lookupOrCreate(playerID, username string) *domain.PlayerResult {
	if res := b.find(playerID); res != nil {
		return res
	}
	*b.results = append(*b.results, domain.PlayerResult{PlayerID: playerID, Username: username})
	return &(*b.results)[len(*b.results)-1]
}

func apply(res *domain.PlayerResult, correct bool, elapsed time.Duration) {
	if correct {
		res.CorrectAnswers++
		res.Points += PointsPerCorrectAnswer
	}
	if ms := elapsed.Milliseconds(); ms > 0 {
		res.TotalTime += ms
	}
}
