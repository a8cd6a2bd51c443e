package http

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
	"trivia-game-service/internal/infra/memory"
)

type stubSource struct{}

func (stubSource) Fetch(_ context.Context, amount, _ int, difficulty string) ([]domain.Question, error) {
	out := make([]domain.Question, amount)
	for i := range out {
		out[i] = domain.Question{
			Category:         "Entertainment: Books",
			Difficulty:       difficulty,
			Text:             "Who wrote it?",
			CorrectAnswer:    "Someone",
			IncorrectAnswers: []string{"A", "B", "C"},
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *app.GameService) {
	t.Helper()
	return newTestServerWith(t, app.Options{})
}

func newTestServerWith(t *testing.T, opts app.Options) (*httptest.Server, *app.GameService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	questions := memory.NewQuestionStore([]domain.Question{
		{ID: "q1", Category: "Science: Mathematics", Difficulty: "easy", Text: "2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "6"}},
		{ID: "q2", Category: "Science: Mathematics", Difficulty: "easy", Text: "3 * 3?", CorrectAnswer: "9", IncorrectAnswers: []string{"6", "7", "12"}},
	})
	opts.Presenter = game.NewPresenterWithRand(rand.New(rand.NewSource(1)))
	opts.Logger = logger
	games := app.NewGameService(
		memory.NewRoomStore(),
		questions,
		memory.NewQuestionCache(questions, time.Minute),
		memory.NewLeaderboardStore(),
		memory.NewUserStore(domain.User{ID: "u1", Username: "alice"}),
		opts,
	)
	qs := app.NewQuestionService(questions, stubSource{}, logger)

	mux := http.NewServeMux()
	NewAPIHandler(games, qs, logger).Register(mux)
	mux.HandleFunc("/ws", NewWSHandler(games, logger).ServeWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, games
}
