package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// Options tunes a GameService. Zero values pick production defaults.
type Options struct {
	// TrustClient scores submissions with the caller-supplied IsCorrect flag
	// instead of checking the selected option against the question.
	TrustClient bool
	Now         func() time.Time
	Presenter   *game.Presenter
	Logger      *slog.Logger
}

// GameService contains the room lifecycle and scoring use cases.
type GameService struct {
	rooms        RoomStore
	questions    QuestionStore
	cache        QuestionCache
	leaderboards LeaderboardStore
	users        UserStore
	ranker       *Ranker
	presenter    *game.Presenter
	trustClient  bool
	now          func() time.Time
	log          *slog.Logger
}

func NewGameService(rooms RoomStore, questions QuestionStore, cache QuestionCache, leaderboards LeaderboardStore, users UserStore, opts Options) *GameService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Presenter == nil {
		opts.Presenter = game.NewPresenter()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &GameService{
		rooms:        rooms,
		questions:    questions,
		cache:        cache,
		leaderboards: leaderboards,
		users:        users,
		ranker:       NewRanker(leaderboards, opts.Now),
		presenter:    opts.Presenter,
		trustClient:  opts.TrustClient,
		now:          opts.Now,
		log:          opts.Logger.With("component", "game"),
	}
}

// CreateRoomRequest describes a new room.
type CreateRoomRequest struct {
	RoomID        string
	Category      string
	Difficulty    string
	QuestionCount int
}

// CreateRoom binds the first QuestionCount matching questions to a new room.
// Nothing is stored when the pool cannot satisfy the request.
func (s *GameService) CreateRoom(ctx context.Context, req CreateRoomRequest) (domain.Room, error) {
	req.RoomID = strings.TrimSpace(req.RoomID)
	if req.RoomID == "" || strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Difficulty) == "" || req.QuestionCount <= 0 {
		return domain.Room{}, fmt.Errorf("%w: roomId, category, difficulty and a positive questionCount are required", domain.ErrInvalidArgument)
	}
	if !game.ValidDifficulty(req.Difficulty) {
		return domain.Room{}, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidCategoryOrDifficulty, req.Difficulty)
	}

	if _, err := s.rooms.Get(ctx, req.RoomID); err == nil {
		return domain.Room{}, domain.ErrRoomAlreadyExists
	} else if !errors.Is(err, domain.ErrRoomNotFound) {
		return domain.Room{}, err
	}

	matching, err := s.questions.Filter(ctx, req.Category, req.Difficulty)
	if err != nil {
		return domain.Room{}, err
	}
	ids, err := game.SelectQuestionSet(matching, req.QuestionCount)
	if err != nil {
		return domain.Room{}, err
	}

	room := domain.Room{
		RoomID:      req.RoomID,
		GameID:      uuid.NewString(),
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		QuestionIDs: ids,
		Status:      domain.StatusNotStarted,
		CreatedAt:   s.now(),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room created", "room", room.RoomID, "game", room.GameID, "questions", len(ids))
	return room, nil
}

// StartRoom transitions a room to started.
func (s *GameService) StartRoom(ctx context.Context, roomID string) (domain.Room, error) {
	room, err := s.rooms.Update(ctx, roomID, func(r *domain.Room) error {
		return game.Start(r, s.now())
	})
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room started", "room", roomID)
	return room, nil
}

// EndRoom transitions a started room to ended.
func (s *GameService) EndRoom(ctx context.Context, roomID string) (domain.Room, error) {
	room, err := s.rooms.Update(ctx, roomID, func(r *domain.Room) error {
		return game.End(r, s.now())
	})
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room ended", "room", roomID, "players", len(room.Results))
	return room, nil
}

// Room returns a room by id.
func (s *GameService) Room(ctx context.Context, roomID string) (domain.Room, error) {
	return s.rooms.Get(ctx, roomID)
}

// ListRooms returns summaries of every room.
func (s *GameService) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = r.Summary()
	}
	return out, nil
}

// RoomQuestions returns the room's questions with options numbered and shuffled.
func (s *GameService) RoomQuestions(ctx context.Context, roomID string) (domain.RoomQuestions, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return domain.RoomQuestions{}, err
	}
	questions, err := s.cache.RoomQuestions(ctx, room)
	if err != nil {
		return domain.RoomQuestions{}, err
	}
	return domain.RoomQuestions{
		GameID:    room.GameID,
		Questions: s.presenter.Present(questions, s.trustClient),
	}, nil
}

// SubmitAnswer scores one answer and returns the player's tally and the
// freshly ranked leaderboard. A repeated answer for the same question is
// not scored again.
func (s *GameService) SubmitAnswer(ctx context.Context, sub domain.Submission) (domain.SubmitResult, error) {
	if strings.TrimSpace(sub.RoomID) == "" || strings.TrimSpace(sub.PlayerID) == "" {
		return domain.SubmitResult{}, fmt.Errorf("%w: roomId and userId are required", domain.ErrInvalidArgument)
	}

	room, err := s.rooms.Get(ctx, sub.RoomID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if err := game.CanSubmit(room); err != nil {
		return domain.SubmitResult{}, err
	}
	if sub.QuestionIndex < 0 || sub.QuestionIndex >= len(room.QuestionIDs) {
		return domain.SubmitResult{}, domain.ErrQuestionIndexOutOfRange
	}

	correct, err := s.score(ctx, room, sub)
	if err != nil {
		return domain.SubmitResult{}, err
	}

	username := sub.PlayerID
	if _, ok := game.NewScoreBoard(&room).Result(sub.PlayerID); !ok {
		username = s.username(ctx, sub.PlayerID)
	}

	var elapsed time.Duration
	if !sub.StartTime.IsZero() {
		elapsed = s.now().Sub(sub.StartTime)
	}

	var (
		result    domain.PlayerResult
		duplicate bool
	)
	updated, err := s.rooms.Update(ctx, sub.RoomID, func(r *domain.Room) error {
		if err := game.CanSubmit(*r); err != nil {
			return err
		}
		result, duplicate = game.NewScoreBoard(r).RecordQuestion(sub.PlayerID, username, sub.QuestionIndex, correct, elapsed)
		if !duplicate {
			game.Advance(r, sub.QuestionIndex)
		}
		return nil
	})
	if err != nil {
		return domain.SubmitResult{}, err
	}

	leaderboard, err := s.ranker.Rank(ctx, updated)
	if err != nil {
		return domain.SubmitResult{}, err
	}

	if duplicate {
		s.log.Debug("duplicate submission ignored", "room", sub.RoomID, "player", sub.PlayerID, "question", sub.QuestionIndex)
	} else {
		awarded := 0
		if correct {
			awarded = game.PointsPerCorrectAnswer
		}
		firstInRoom := len(result.Answered) == 1
		if err := s.users.RecordGame(ctx, sub.PlayerID, awarded, firstInRoom); err != nil {
			// the room update stands; global counters may lag
			s.log.Warn("user stats update failed", "player", sub.PlayerID, "room", sub.RoomID, "error", err)
		}
	}

	return domain.SubmitResult{
		Correct:      correct,
		Duplicate:    duplicate,
		PlayerResult: result,
		Leaderboard:  leaderboard,
	}, nil
}

// Leaderboard returns the latest snapshot of a room. Rooms without answers
// yet get an empty snapshot.
func (s *GameService) Leaderboard(ctx context.Context, roomID string) (domain.LeaderboardSnapshot, error) {
	snapshot, err := s.leaderboards.Get(ctx, roomID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, domain.ErrLeaderboardNotFound) {
		return domain.LeaderboardSnapshot{}, err
	}
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return domain.LeaderboardSnapshot{}, err
	}
	return domain.LeaderboardSnapshot{
		RoomID:    room.RoomID,
		GameID:    room.GameID,
		Entries:   []domain.LeaderboardEntry{},
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.CreatedAt,
	}, nil
}

// ListLeaderboards returns every room's latest snapshot, newest first.
func (s *GameService) ListLeaderboards(ctx context.Context) ([]domain.LeaderboardSnapshot, error) {
	return s.leaderboards.List(ctx)
}

func (s *GameService) score(ctx context.Context, room domain.Room, sub domain.Submission) (bool, error) {
	if s.trustClient {
		return sub.IsCorrect, nil
	}
	if sub.SelectedOption == "" && sub.OptionNumber != 0 {
		// option order is reshuffled per presentation, so a number cannot be resolved
		return false, fmt.Errorf("%w: selectedOption must be the answer text", domain.ErrInvalidArgument)
	}
	questions, err := s.cache.RoomQuestions(ctx, room)
	if err != nil {
		return false, err
	}
	if sub.QuestionIndex >= len(questions) {
		return false, domain.ErrQuestionIndexOutOfRange
	}
	return game.Verify(questions[sub.QuestionIndex], sub.SelectedOption), nil
}

func (s *GameService) username(ctx context.Context, playerID string) string {
	user, err := s.users.Get(ctx, playerID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn("user lookup failed", "player", playerID, "error", err)
		}
		return playerID
	}
	if user.Username == "" {
		return playerID
	}
	return user.Username
}
