// Package opentdb fetches multiple-choice questions from the Open Trivia DB API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"

	"trivia-game-service/internal/domain"
)

const DefaultBaseURL = "https://opentdb.com/api.php"

type response struct {
	ResponseCode int      `json:"response_code"`
	Results      []result `json:"results"`
}

type result struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Client calls the Open Trivia DB question endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: client}
}

// Fetch requests amount multiple-choice questions. A categoryID <= 0 leaves
// the category unrestricted. Any transport failure, non-200 status or
// non-zero response_code is reported as domain.ErrUpstreamQuestionSource.
func (c *Client) Fetch(ctx context.Context, amount, categoryID int, difficulty string) ([]domain.Question, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("type", "multiple")
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}
	if categoryID > 0 {
		params.Set("category", strconv.Itoa(categoryID))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstreamQuestionSource, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %w", domain.ErrUpstreamQuestionSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: returned %s", domain.ErrUpstreamQuestionSource, resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamQuestionSource, err)
	}
	if body.ResponseCode != 0 {
		return nil, fmt.Errorf("%w: response code %d", domain.ErrUpstreamQuestionSource, body.ResponseCode)
	}

	questions := make([]domain.Question, 0, len(body.Results))
	for _, r := range body.Results {
		incorrect := make([]string, len(r.IncorrectAnswers))
		for i, a := range r.IncorrectAnswers {
			incorrect[i] = html.UnescapeString(a)
		}
		questions = append(questions, domain.Question{
			Category:         html.UnescapeString(r.Category),
			Difficulty:       r.Difficulty,
			Text:             html.UnescapeString(r.Question),
			CorrectAnswer:    html.UnescapeString(r.CorrectAnswer),
			IncorrectAnswers: incorrect,
			Timer:            domain.DefaultQuestionTimer,
		})
	}
	return questions, nil
}
