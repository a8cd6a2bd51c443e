package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
)

// WSHandler serves a per-player request/reply channel for a room. Every
// inbound frame gets exactly one reply; nothing is pushed unprompted.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWSHandler(service *app.GameService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.With("component", "ws"),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsSubmitPayload struct {
	QuestionIndex  *int           `json:"questionIndex"`
	SelectedOption selectedOption `json:"selectedOption"`
	StartTime      int64          `json:"startTime"`
	IsCorrect      bool           `json:"isCorrect"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets bound to one room and player.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	userID := r.URL.Query().Get("userId")
	if roomID == "" || userID == "" {
		http.Error(w, "missing roomId or userId", http.StatusBadRequest)
		return
	}
	if _, err := h.service.Room(r.Context(), roomID); err != nil {
		status, body := errorBody(err)
		writeJSON(w, status, body)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		reply := h.handle(r, roomID, userID, inbound)
		if err := conn.WriteJSON(reply); err != nil {
			h.log.Warn("ws write failed", "room", roomID, "player", userID, "error", err)
			return
		}
	}
}

func (h *WSHandler) handle(r *http.Request, roomID, userID string, inbound inboundMessage) outboundMessage[any] {
	ctx := r.Context()
	switch inbound.Type {
	case "submit":
		var payload wsSubmitPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return h.errorReply(fmt.Errorf("%w: invalid submit payload", domain.ErrInvalidArgument))
		}
		sub, err := submitRequest{
			RoomID:         roomID,
			UserID:         userID,
			QuestionIndex:  payload.QuestionIndex,
			SelectedOption: payload.SelectedOption,
			StartTime:      payload.StartTime,
			IsCorrect:      payload.IsCorrect,
		}.submission()
		if err != nil {
			return h.errorReply(err)
		}
		res, err := h.service.SubmitAnswer(ctx, sub)
		if err != nil {
			return h.errorReply(err)
		}
		return outboundMessage[any]{Type: "submitResult", Payload: res}
	case "leaderboard":
		snap, err := h.service.Leaderboard(ctx, roomID)
		if err != nil {
			return h.errorReply(err)
		}
		return outboundMessage[any]{Type: "leaderboard", Payload: snap}
	case "questions":
		qs, err := h.service.RoomQuestions(ctx, roomID)
		if err != nil {
			return h.errorReply(err)
		}
		return outboundMessage[any]{Type: "questions", Payload: qs}
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "invalid_request", Message: "unsupported message type"}}
	}
}

func (h *WSHandler) errorReply(err error) outboundMessage[any] {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		h.log.Error("ws request failed", "error", err)
	}
	return outboundMessage[any]{Type: "error", Payload: body}
}
