package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// APIHandler serves the REST endpoints for rooms, leaderboards and the
// question pool.
type APIHandler struct {
	games     *app.GameService
	questions *app.QuestionService
	log       *slog.Logger
}

func NewAPIHandler(games *app.GameService, questions *app.QuestionService, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{games: games, questions: questions, log: logger.With("component", "http")}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/game/create", h.createRoom)
	mux.HandleFunc("GET /api/game/all", h.listRooms)
	mux.HandleFunc("POST /api/game/{roomId}/start", h.startRoom)
	mux.HandleFunc("GET /api/game/{roomId}/questions", h.roomQuestions)
	mux.HandleFunc("POST /api/game/submit", h.submitAnswer)
	mux.HandleFunc("POST /api/game/end", h.endRoom)

	mux.HandleFunc("GET /api/leaderboard/all", h.listLeaderboards)
	mux.HandleFunc("GET /api/leaderboard/{roomId}", h.leaderboard)

	mux.HandleFunc("GET /api/questions/categories", h.categories)
	mux.HandleFunc("GET /api/questions/difficulties/{category}", h.difficulties)
	mux.HandleFunc("GET /api/questions/count", h.countQuestions)
	mux.HandleFunc("POST /api/questions/generate", h.generateQuestions)
}

type createRoomRequest struct {
	RoomID        string `json:"roomId"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

type roomResponse struct {
	domain.RoomSummary
	GameID string `json:"gameId"`
}

func (h *APIHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	room, err := h.games.CreateRoom(r.Context(), app.CreateRoomRequest{
		RoomID:        req.RoomID,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse{RoomSummary: room.Summary(), GameID: room.GameID})
}

func (h *APIHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.games.ListRooms(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": rooms})
}

func (h *APIHandler) startRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.games.StartRoom(r.Context(), r.PathValue("roomId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Game started", "gameId": room.GameID})
}

func (h *APIHandler) roomQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.games.RoomQuestions(r.Context(), r.PathValue("roomId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

// selectedOption accepts either the answer text or the displayed option number.
type selectedOption struct {
	text   string
	number int
}

func (o *selectedOption) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &o.text)
	default:
		n, err := strconv.Atoi(string(b))
		if err != nil {
			return fmt.Errorf("selectedOption: %q is neither text nor an option number", b)
		}
		o.number = n
		return nil
	}
}

// submitRequest carries startTime as Unix milliseconds.
type submitRequest struct {
	RoomID         string         `json:"roomId"`
	UserID         string         `json:"userId"`
	QuestionIndex  *int           `json:"questionIndex"`
	SelectedOption selectedOption `json:"selectedOption"`
	StartTime      int64          `json:"startTime"`
	IsCorrect      bool           `json:"isCorrect"`
}

func (req submitRequest) submission() (domain.Submission, error) {
	if req.QuestionIndex == nil {
		return domain.Submission{}, fmt.Errorf("%w: questionIndex is required", domain.ErrInvalidArgument)
	}
	return domain.Submission{
		RoomID:         req.RoomID,
		PlayerID:       req.UserID,
		QuestionIndex:  *req.QuestionIndex,
		SelectedOption: req.SelectedOption.text,
		OptionNumber:   req.SelectedOption.number,
		StartTime:      unixMillis(req.StartTime),
		IsCorrect:      req.IsCorrect,
	}, nil
}

type submitResponse struct {
	Success bool `json:"success"`
	domain.SubmitResult
}

func (h *APIHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}
	sub, err := req.submission()
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.games.SubmitAnswer(r.Context(), sub)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Success: true, SubmitResult: res})
}

type endRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (h *APIHandler) endRoom(w http.ResponseWriter, r *http.Request) {
	var req endRoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	room, err := h.games.EndRoom(r.Context(), req.RoomID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Game ended", "results": room.Results})
}

func (h *APIHandler) listLeaderboards(w http.ResponseWriter, r *http.Request) {
	all, err := h.games.ListLeaderboards(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.games.Leaderboard(r.Context(), r.PathValue("roomId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.questions.Categories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *APIHandler) difficulties(w http.ResponseWriter, r *http.Request) {
	diffs, err := h.questions.Difficulties(r.Context(), r.PathValue("category"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"difficulties": diffs})
}

func (h *APIHandler) countQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := h.questions.Count(r.Context(), q.Get("category"), q.Get("difficulty"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questionCount": n})
}

type generateRequest struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

func (h *APIHandler) generateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !h.decode(w, r, &req) {
		return
	}
	saved, err := h.questions.Import(r.Context(), req.Category, req.Difficulty, req.QuestionCount)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Question pool created successfully.", "savedQuestions": saved})
}

func (h *APIHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidArgument))
		return false
	}
	return true
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unixMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
