package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomNotFound is returned when no room exists for a room id.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomAlreadyExists is returned when creating a room with a taken id.
	ErrRoomAlreadyExists = errors.New("room already exists")
	// ErrInsufficientQuestions indicates fewer matching questions than requested.
	ErrInsufficientQuestions = errors.New("not enough questions for the requested criteria")
	// ErrAlreadyStarted is returned when starting a running room.
	ErrAlreadyStarted = errors.New("room already started")
	// ErrNotRunning is returned when a room must be started for the operation.
	ErrNotRunning = errors.New("room not started")
	// ErrSessionEnded is returned for any transition out of an ended room.
	ErrSessionEnded = errors.New("room already ended")
	// ErrInvalidCategoryOrDifficulty rejects unknown question filters.
	ErrInvalidCategoryOrDifficulty = errors.New("invalid category or difficulty")
	// ErrUpstreamQuestionSource wraps failures of the external trivia provider.
	ErrUpstreamQuestionSource = errors.New("question source failure")
	// ErrPersistence wraps store failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidArgument rejects malformed requests.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrQuestionIndexOutOfRange rejects submissions for questions outside the room's set.
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	// ErrQuestionNotFound indicates a referenced question is missing from the pool.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates an unknown player account.
	ErrUserNotFound = errors.New("user not found")
	// ErrLeaderboardNotFound is returned when a room has no snapshot yet.
	ErrLeaderboardNotFound = errors.New("leaderboard not found")
)

// InsufficientQuestionsError carries the counts behind ErrInsufficientQuestions.
type InsufficientQuestionsError struct {
	Available int
	Requested int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("%s: available %d, requested %d", ErrInsufficientQuestions, e.Available, e.Requested)
}

func (e *InsufficientQuestionsError) Is(target error) bool {
	return target == ErrInsufficientQuestions
}

// PersistenceError wraps a store failure so it matches ErrPersistence and the cause.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
