package domain

import "time"

// DefaultQuestionTimer is the display timer applied to questions that do not set one.
const DefaultQuestionTimer = 10

// Question is an entry of the global question pool. Rooms reference questions by ID.
type Question struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	Timer            int      `json:"timer"` // defaults to DefaultQuestionTimer if zero
}

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	StatusNotStarted RoomStatus = "not_started"
	StatusStarted    RoomStatus = "started"
	StatusEnded      RoomStatus = "ended"
)

// Room is one trivia game bound to a fixed question set.
type Room struct {
	RoomID               string         `json:"roomId"`
	GameID               string         `json:"gameId"`
	Category             string         `json:"category"`
	Difficulty           string         `json:"difficulty"`
	QuestionIDs          []string       `json:"questionIds"`
	Status               RoomStatus     `json:"status"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Results              []PlayerResult `json:"results"`
	CreatedAt            time.Time      `json:"createdAt"`
	StartedAt            *time.Time     `json:"startedAt,omitempty"`
	EndedAt              *time.Time     `json:"endedAt,omitempty"`
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (r Room) Clone() Room {
	out := r
	out.QuestionIDs = append([]string(nil), r.QuestionIDs...)
	if r.Results != nil {
		out.Results = make([]PlayerResult, len(r.Results))
		for i, res := range r.Results {
			out.Results[i] = res.Clone()
		}
	}
	if r.StartedAt != nil {
		t := *r.StartedAt
		out.StartedAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		out.EndedAt = &t
	}
	return out
}

// RoomSummary is the list view of a room.
type RoomSummary struct {
	RoomID        string     `json:"roomId"`
	Category      string     `json:"category"`
	Difficulty    string     `json:"difficulty"`
	QuestionCount int        `json:"questionCount"`
	Status        RoomStatus `json:"status"`
}

// Summary projects the room onto its list view.
func (r Room) Summary() RoomSummary {
	return RoomSummary{
		RoomID:        r.RoomID,
		Category:      r.Category,
		Difficulty:    r.Difficulty,
		QuestionCount: len(r.QuestionIDs),
		Status:        r.Status,
	}
}

// PlayerResult is a player's running tally inside one room.
// TotalTime is in milliseconds.
type PlayerResult struct {
	PlayerID       string `json:"playerId"`
	Username       string `json:"username"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalTime      int64  `json:"totalTime"`
	Points         int    `json:"points"`
	Answered       []int  `json:"answered,omitempty"`
}

// Clone returns a copy that does not share the Answered slice.
func (p PlayerResult) Clone() PlayerResult {
	out := p
	out.Answered = append([]int(nil), p.Answered...)
	return out
}

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Points         int    `json:"points"`
	TimeTaken      int64  `json:"timeTaken"`
	CorrectAnswers int    `json:"correctAnswers"`
}

// LeaderboardSnapshot is the latest ranking of a room. One per room.
type LeaderboardSnapshot struct {
	RoomID    string             `json:"roomId"`
	GameID    string             `json:"gameId"`
	Entries   []LeaderboardEntry `json:"leaderboard"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// User is the subset of a player account the game needs.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// Submission is an answer submitted by a player.
// IsCorrect is only honoured when the service is configured to trust clients.
// OptionNumber is the 1-based position the client displayed; it is set
// instead of SelectedOption by clients that send the option number.
type Submission struct {
	RoomID         string
	PlayerID       string
	QuestionIndex  int
	SelectedOption string
	OptionNumber   int
	StartTime      time.Time
	IsCorrect      bool
}

// SubmitResult summarizes the outcome of a submission.
type SubmitResult struct {
	Correct      bool               `json:"isCorrect"`
	Duplicate    bool               `json:"duplicate"`
	PlayerResult PlayerResult       `json:"playerResult"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

// PresentedOption is a numbered answer choice.
type PresentedOption struct {
	Number int    `json:"optionNumber"`
	Text   string `json:"optionText"`
}

// PresentedQuestion is a question as served to players.
type PresentedQuestion struct {
	QuestionIndex int               `json:"questionIndex"`
	QuestionID    string            `json:"questionId"`
	Text          string            `json:"questionText"`
	Category      string            `json:"category"`
	Difficulty    string            `json:"difficulty"`
	Timer         int               `json:"timer"`
	Options       []PresentedOption `json:"options"`
	CorrectOption int               `json:"correctOption,omitempty"`
}

// RoomQuestions is the shuffled question view of a room.
type RoomQuestions struct {
	GameID    string              `json:"gameId"`
	Questions []PresentedQuestion `json:"questions"`
}
