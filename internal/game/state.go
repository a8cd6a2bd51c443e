package game

import (
	"time"

	"trivia-game-service/internal/domain"
)

// Start moves a room from not_started to started and rewinds it to the first question.
func Start(room *domain.Room, now time.Time) error {
	switch room.Status {
	case domain.StatusStarted:
		return domain.ErrAlreadyStarted
	case domain.StatusEnded:
		return domain.ErrSessionEnded
	}
	room.Status = domain.StatusStarted
	room.CurrentQuestionIndex = 0
	room.StartedAt = &now
	return nil
}

// End moves a started room to the terminal ended state.
func End(room *domain.Room, now time.Time) error {
	switch room.Status {
	case domain.StatusNotStarted:
		return domain.ErrNotRunning
	case domain.StatusEnded:
		return domain.ErrSessionEnded
	}
	room.Status = domain.StatusEnded
	room.EndedAt = &now
	return nil
}

// CanSubmit reports whether the room accepts answers.
func CanSubmit(room domain.Room) error {
	switch room.Status {
	case domain.StatusStarted:
		return nil
	case domain.StatusEnded:
		return domain.ErrSessionEnded
	default:
		return domain.ErrNotRunning
	}
}

// Advance moves the room's question pointer forward, never backward.
func Advance(room *domain.Room, answeredIndex int) {
	next := answeredIndex + 1
	if next > len(room.QuestionIDs) {
		next = len(room.QuestionIDs)
	}
	if next > room.CurrentQuestionIndex {
		room.CurrentQuestionIndex = next
	}
}
