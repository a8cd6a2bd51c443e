package http

import (
	"errors"
	"net/http"

	"trivia-game-service/internal/domain"
)

// statusFor maps domain errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrLeaderboardNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrRoomAlreadyExists):
		return http.StatusConflict, "room_exists"
	case errors.Is(err, domain.ErrAlreadyStarted),
		errors.Is(err, domain.ErrNotRunning),
		errors.Is(err, domain.ErrSessionEnded):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, domain.ErrInsufficientQuestions):
		return http.StatusBadRequest, "insufficient_questions"
	case errors.Is(err, domain.ErrInvalidCategoryOrDifficulty),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrQuestionIndexOutOfRange):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrUpstreamQuestionSource):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorBody hides internal error details from clients.
func errorBody(err error) (int, errorPayload) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return status, errorPayload{Code: code, Message: msg}
}
