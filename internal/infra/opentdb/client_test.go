package opentdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-game-service/internal/domain"
)

func TestFetchDecodesQuestions(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"amount":     r.URL.Query().Get("amount"),
			"category":   r.URL.Query().Get("category"),
			"difficulty": r.URL.Query().Get("difficulty"),
			"type":       r.URL.Query().Get("type"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[{
			"category":"Entertainment: Film","type":"multiple","difficulty":"easy",
			"question":"Who directed &quot;Jaws&quot;?",
			"correct_answer":"Steven Spielberg",
			"incorrect_answers":["George Lucas","James Cameron","Ridley Scott&#039;s"]}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	qs, err := client.Fetch(context.Background(), 1, 11, "easy")
	require.NoError(t, err)
	require.Len(t, qs, 1)

	assert.Equal(t, map[string]string{"amount": "1", "category": "11", "difficulty": "easy", "type": "multiple"}, query)
	assert.Equal(t, `Who directed "Jaws"?`, qs[0].Text)
	assert.Equal(t, "Steven Spielberg", qs[0].CorrectAnswer)
	assert.Equal(t, "Ridley Scott's", qs[0].IncorrectAnswers[2])
	assert.Equal(t, domain.DefaultQuestionTimer, qs[0].Timer)
	assert.Empty(t, qs[0].ID)
}

func TestFetchUpstreamFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"response code": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"response_code":1,"results":[]}`))
		},
		"status": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"body": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client()).Fetch(context.Background(), 5, 0, "hard")
			assert.ErrorIs(t, err, domain.ErrUpstreamQuestionSource)
		})
	}
}
