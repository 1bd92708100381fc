package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizcoach/internal/analysis"
	"quizcoach/internal/app"
	"quizcoach/internal/domain"
)

// WSHandler runs one quiz per websocket connection. The connection owns the
// session: closing it abandons the quiz and cancels pending analysis.
type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// ServeWS upgrades the request, starts a quiz and streams its state.
// Inbound: selectAnswer, next, previous, timeExpired, analyze.
// Outbound: state, analysis, analysisError, error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("categoryId")
	userID := r.URL.Query().Get("userId")
	if categoryID == "" || userID == "" {
		http.Error(w, "missing categoryId or userId", http.StatusBadRequest)
		return
	}
	timed, _ := strconv.ParseBool(r.URL.Query().Get("timed"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancelAll := context.WithCancel(r.Context())
	defer cancelAll()

	view, err := h.service.StartQuiz(ctx, userID, categoryID, timed)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	if view.SessionID == "" {
		_ = conn.WriteJSON(outboundMessage[domain.QuizView]{Type: "state", Payload: view})
		return
	}
	sessionID := view.SessionID
	defer h.service.Abandon(context.Background(), sessionID)

	updates, unsubscribe, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer unsubscribe()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var analyses sync.WaitGroup

	push := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		case <-closeSignals:
			return false
		}
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if !push(outboundMessage[any]{Type: "state", Payload: update}) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var actionErr error
		switch inbound.Type {
		case "selectAnswer":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid selectAnswer payload"}})
				continue
			}
			_, actionErr = h.service.SelectAnswer(ctx, sessionID, payload.OptionIndex)
		case "next":
			_, actionErr = h.service.Next(ctx, sessionID)
		case "previous":
			_, actionErr = h.service.Previous(ctx, sessionID)
		case "timeExpired":
			_, actionErr = h.service.Expire(ctx, sessionID)
		case "analyze":
			analyses.Add(1)
			go func() {
				defer analyses.Done()
				result, err := h.service.Analyze(ctx, sessionID)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					push(outboundMessage[any]{Type: "analysisError", Payload: errorPayload{Message: err.Error()}})
					return
				}
				push(outboundMessage[any]{Type: "analysis", Payload: analysis.Present(result)})
			}()
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
		if actionErr != nil {
			push(errorMessage(actionErr))
		}
	}

	cancelAll()
	close(closeSignals)
	<-updatesDone
	analyses.Wait()
	close(send)
	<-writerDone
}
