package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"revere/internal/app/registry"
	"revere/internal/app/server/ws"
	"revere/internal/config"
	"revere/internal/core/domain"
	"revere/internal/core/services"
	"revere/pkg/logging"
	"revere/pkg/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type WSHandler struct {
	hub       *registry.Registry
	messenger *services.Messenger
	validate  *validator.Validate
	limit     rate.Limit
	burst     int
	upgrader  websocket.Upgrader
}

func NewWSHandler(hub *registry.Registry, messenger *services.Messenger, cfg config.MessagingConfig) *WSHandler {
	limit := rate.Limit(cfg.InboundRate)
	if cfg.InboundRate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.InboundBurst
	if burst <= 0 {
		burst = 1
	}
	return &WSHandler{
		hub:       hub,
		messenger: messenger,
		validate:  validator.New(),
		limit:     limit,
		burst:     burst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // tighten later
			},
		},
	}
}

func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	participantID, ok := middleware.ParticipantID(r.Context())
	if !ok {
		log.ErrorContext(r.Context(), "ws handler - unauthorised missing participant_id")
		http.Error(w, "Unauthorized: participant missing", http.StatusUnauthorized)
		return
	}
	session, err := domain.NewSession(participantID, domain.Profile{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("participant.id", participantID))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade - ws upgrade failed", logging.Err(err))
		return
	}
	// The socket outlives the request context.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	socket := ws.NewWebSocket(ctx, log, conn)
	client := ws.NewClient(ctx, socket, participantID)
	log = log.With(logging.Connection(client.ID()))

	s.hub.Register(client)
	defer s.hub.Unregister(client)
	defer client.Close()
	log.InfoContext(r.Context(), "ws handler - register - connection established")

	sess := newSession(ctx, log, client, s.messenger, session)
	defer sess.close()
	if err := sess.startInbox(s.messenger, session); err != nil {
		log.ErrorContext(ctx, "ws handler - inbox - subscribe failed", logging.Err(err))
		sess.fail("inbox", err)
	}

	limiter := rate.NewLimiter(s.limit, s.burst)
	socket.ReadLoop(func(data []byte) {
		if !limiter.Allow() {
			sess.sendError(domain.CodeRateLimit, "too many frames")
			return
		}
		var frame domain.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			sess.sendError(domain.CodeBadFrame, "malformed frame")
			return
		}
		if err := s.validate.Struct(frame); err != nil {
			sess.sendError(domain.CodeBadFrame, err.Error())
			return
		}
		sess.dispatch(frame)
	})
	log.InfoContext(ctx, "ws handler - read loop - connection closed")
}
