package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"revere/internal/app/registry"
	"revere/internal/app/server/handlers"
	"revere/internal/config"
	"revere/internal/core/services"
	"revere/pkg/middleware"
)

type Server struct {
	mux          *http.ServeMux
	addr         string
	service      string
	log          *slog.Logger
	hub          *registry.Registry
	wsHandler    *handlers.WSHandler
	inboxHandler *handlers.InboxHandler
	tokenSvc     *services.TokenService
	httpServer   *http.Server
}

func NewServer(
	log *slog.Logger,
	cfg config.Config,
	tokenSvc *services.TokenService,
	messenger *services.Messenger,
	hub *registry.Registry,
) *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		addr:         cfg.Service.Add,
		service:      cfg.Service.Name,
		log:          log,
		hub:          hub,
		wsHandler:    handlers.NewWSHandler(hub, messenger, *cfg.Messaging),
		inboxHandler: handlers.NewInboxHandler(messenger),
		tokenSvc:     tokenSvc,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// The middleware puts the token subject (participant id) in the context.
	s.mux.Handle("/ws", auth(http.HandlerFunc(s.wsHandler.Handler)))
	s.mux.Handle("GET /threads", auth(http.HandlerFunc(s.inboxHandler.List)))
}

// Handler is the full middleware chain around the routes.
func (s *Server) Handler() http.Handler {
	return middleware.TracerMiddleware(s.service)(middleware.RequestLogger(s.log)(s.mux))
}

func (s *Server) Start() error {
	s.log.Info("server starting", "address", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes live sockets, then drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.httpServer.Shutdown(ctx)
}
