package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"revere/internal/app/server/ws"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"revere/internal/core/services"
	"revere/pkg/logging"
	"sync"
)

// wsSession drives one Conversation and the inbox feed for a socket and
// renders their callbacks as outbound frames.
type wsSession struct {
	ctx    context.Context
	log    *slog.Logger
	client contracts.Client
	conv   *services.Conversation
	inbox  *services.Subscription
	sends  sync.WaitGroup
}

func newSession(
	ctx context.Context,
	log *slog.Logger,
	client contracts.Client,
	messenger *services.Messenger,
	session domain.Session,
) *wsSession {
	s := &wsSession{ctx: ctx, log: log, client: client}
	s.conv = messenger.Conversation(session, s)
	return s
}

func (s *wsSession) startInbox(messenger *services.Messenger, session domain.Session) error {
	sub, err := messenger.Inbox(s.ctx, session, func(in services.Inbox) {
		threads := in.Threads
		if threads == nil {
			threads = []domain.Thread{}
		}
		s.emit(domain.ThreadsEvent{Type: domain.TypeThreads, Threads: threads, Badge: in.Badge})
	}, func(err error) {
		s.log.Error("ws session - inbox - feed stopped", logging.Err(err))
	})
	if err != nil {
		return err
	}
	s.inbox = sub
	return nil
}

func (s *wsSession) OnMessages(threadID string, msgs []domain.Message) {
	if msgs == nil {
		msgs = []domain.Message{}
	}
	s.emit(domain.MessagesEvent{Type: domain.TypeMessages, ThreadID: threadID, Messages: msgs})
}

func (s *wsSession) OnThread(t domain.Thread, seen bool) {
	s.emit(domain.ThreadEvent{Type: domain.TypeThread, Thread: t, Seen: seen})
}

func (s *wsSession) OnDraftRestored(text string, err error) {
	s.emit(domain.DraftRestoredEvent{Type: domain.TypeDraftRestored, Text: text})
}

func (s *wsSession) dispatch(frame domain.InboundFrame) {
	switch frame.Type {
	case domain.FrameOpen:
		if err := s.conv.Open(s.ctx, frame.OtherID); err != nil {
			s.fail("open", err)
		}
	case domain.FrameSend:
		// Sends run beside the read loop so a second send meets the in-flight guard.
		s.sends.Add(1)
		go func(text string) {
			defer s.sends.Done()
			msg, err := s.conv.Send(s.ctx, text)
			if err != nil {
				s.fail("send", err)
				return
			}
			s.emit(domain.SentEvent{Type: domain.TypeSent, Message: *msg})
		}(frame.Text)
	case domain.FrameMarkRead:
		if err := s.conv.MarkRead(s.ctx); err != nil {
			s.fail("mark read", err)
		}
	case domain.FrameFocus:
		if err := s.conv.OnFocusRegained(s.ctx); err != nil {
			s.fail("focus", err)
		}
	case domain.FrameDelete:
		if _, err := s.conv.DeleteMany(s.ctx, frame.MessageIDs); err != nil {
			s.fail("delete", err)
		}
	case domain.FrameClose:
		s.conv.Close()
	}
}

// close stops both feeds and waits for sends still in flight.
func (s *wsSession) close() {
	s.conv.Close()
	if s.inbox != nil {
		s.inbox.Cancel()
	}
	s.sends.Wait()
}

func (s *wsSession) fail(op string, err error) {
	frame := errorFrame(err)
	if frame.Code == domain.CodeInternal {
		s.log.Error("ws session - "+op+" - failed", logging.Err(err))
	} else {
		s.log.Debug("ws session - "+op+" - rejected", logging.Err(err))
	}
	s.emit(frame)
}

func (s *wsSession) sendError(code, msg string) {
	s.emit(domain.ErrorMessage{Type: domain.TypeError, Code: code, Message: msg})
}

func (s *wsSession) emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("ws session - emit - marshal failed", logging.Err(err))
		return
	}
	if err := s.client.Send(s.ctx, data); err != nil && !errors.Is(err, ws.ErrClientClosed) {
		s.log.Warn("ws session - emit - send failed", logging.Err(err))
	}
}
