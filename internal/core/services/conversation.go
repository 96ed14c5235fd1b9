package services

import (
	"context"
	"log/slog"
	"revere/internal/core/domain"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ConversationListener receives everything a chat screen renders.
// Callbacks are serialized per feed and must not call back into the
// Conversation that delivers them.
type ConversationListener interface {
	OnMessages(threadID string, msgs []domain.Message)
	// OnThread carries the thread record and the thread-level "seen" flag
	// for the local participant's last outgoing message.
	OnThread(t domain.Thread, seen bool)
	// OnDraftRestored hands back the text of a send that failed in transport.
	OnDraftRestored(text string, err error)
}

type ConversationState int32

const (
	StateIdle ConversationState = iota
	StateLoading
	StateReady
)

func (s ConversationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Messenger wires the thread store, message log and inbox behind the
// per-screen Conversation façade.
type Messenger struct {
	threads   *ThreadService
	messages  *MessageService
	inbox     *InboxService
	profiles  *ProfileService
	opTimeout time.Duration
	log       *slog.Logger
}

func NewMessenger(
	log *slog.Logger,
	threads *ThreadService,
	messages *MessageService,
	inbox *InboxService,
	profiles *ProfileService,
	opTimeout time.Duration,
) *Messenger {
	if opTimeout > 0 {
		threads.fetchTimeout = opTimeout
		messages.fetchTimeout = opTimeout
		inbox.fetchTimeout = opTimeout
	}
	return &Messenger{
		log:       log,
		threads:   threads,
		messages:  messages,
		inbox:     inbox,
		profiles:  profiles,
		opTimeout: opTimeout,
	}
}

// Conversation returns an idle façade for one chat screen of session.
func (m *Messenger) Conversation(session domain.Session, listener ConversationListener) *Conversation {
	return &Conversation{
		m:        m,
		session:  session,
		listener: listener,
		log:      m.log.With("participant_id", session.ParticipantID),
	}
}

// Inbox streams the session's thread list and unread badge.
func (m *Messenger) Inbox(
	ctx context.Context,
	session domain.Session,
	onInbox func(Inbox),
	onErr func(error),
) (*Subscription, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.inbox.Subscribe(ctx, session.ParticipantID, onInbox, onErr)
}

// InboxSnapshot is a one-shot read of the session's inbox.
func (m *Messenger) InboxSnapshot(ctx context.Context, session domain.Session) (Inbox, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.inbox.Snapshot(ctx, session.ParticipantID)
}

func (m *Messenger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opTimeout)
}

// Conversation is the façade of one open chat between the session's
// participant and another. Methods are safe for concurrent use.
type Conversation struct {
	m        *Messenger
	session  domain.Session
	listener ConversationListener
	log      *slog.Logger

	mu        sync.Mutex
	state     ConversationState
	otherID   string
	threadID  string
	msgSub    *Subscription
	threadSub *Subscription

	sending atomic.Bool
}

func (c *Conversation) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) ThreadID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadID
}

// Sending reports whether a send is in flight.
func (c *Conversation) Sending() bool {
	return c.sending.Load()
}

// Open ensures the thread with otherID, marks it read and starts the live
// feeds. Opening the already open thread is a no-op; opening another one
// closes the current feeds first.
func (c *Conversation) Open(ctx context.Context, otherID string) error {
	self := c.session.ParticipantID
	threadID, err := domain.ThreadID(self, otherID)
	if err != nil {
		return err
	}
	ctx, span := tracer.Start(ctx, "Conversation.Open", trace.WithAttributes(
		attribute.String("thread_id", threadID),
		attribute.String("participant_id", self),
	))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		if c.threadID == threadID {
			opCtx, cancel := c.m.withTimeout(ctx)
			defer cancel()
			if err := c.m.threads.MarkRead(opCtx, threadID, self); err != nil {
				c.log.ErrorContext(ctx, "conversation - open - mark read failed", "thread_id", threadID, "err", err)
			}
			return nil
		}
		c.closeLocked()
	}
	c.state = StateLoading

	opCtx, cancel := c.m.withTimeout(ctx)
	defer cancel()
	hints := c.m.profiles.Hints(opCtx, otherID)
	hints[self] = c.selfProfile(opCtx)
	if _, err := c.m.threads.EnsureThread(opCtx, self, otherID, hints); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ensure thread failed")
		c.log.ErrorContext(ctx, "conversation - open - ensure thread failed", "thread_id", threadID, "err", err)
		c.state = StateIdle
		return err
	}
	if err := c.m.threads.MarkRead(opCtx, threadID, self); err != nil {
		c.log.ErrorContext(ctx, "conversation - open - mark read failed", "thread_id", threadID, "err", err)
	}

	listener := c.listener
	c.msgSub, err = c.m.messages.Subscribe(opCtx, threadID, func(msgs []domain.Message) {
		listener.OnMessages(threadID, msgs)
	}, c.feedFailed("messages", threadID))
	if err != nil {
		c.log.ErrorContext(ctx, "conversation - open - messages subscription failed", "thread_id", threadID, "err", err)
	}
	c.threadSub, err = c.m.threads.Subscribe(opCtx, threadID, func(t domain.Thread) {
		listener.OnThread(t, IsLastOutgoingMessageSeen(t, self))
	}, c.feedFailed("thread", threadID))
	if err != nil {
		c.log.ErrorContext(ctx, "conversation - open - thread subscription failed", "thread_id", threadID, "err", err)
	}

	c.otherID = otherID
	c.threadID = threadID
	c.state = StateReady
	c.log.InfoContext(ctx, "conversation - open - ready", "thread_id", threadID)
	return nil
}

// Send appends text to the open thread. Empty text and a concurrent send
// are rejected without I/O; a transport failure hands the draft back.
func (c *Conversation) Send(ctx context.Context, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if !c.sending.CompareAndSwap(false, true) {
		return nil, domain.ErrSendInFlight
	}
	defer c.sending.Store(false)

	c.mu.Lock()
	state, threadID, otherID := c.state, c.threadID, c.otherID
	c.mu.Unlock()
	if state != StateReady {
		return nil, domain.ErrConversationNotOpen
	}

	opCtx, cancel := c.m.withTimeout(ctx)
	defer cancel()
	msg, err := c.m.messages.Append(opCtx, threadID, c.session.ParticipantID, otherID, text)
	if err != nil {
		c.log.ErrorContext(ctx, "conversation - send - append failed, draft restored", "thread_id", threadID, "err", err)
		c.listener.OnDraftRestored(text, err)
		return nil, err
	}
	return msg, nil
}

// MarkRead zeroes the local participant's unread counter. Store failures
// are logged and swallowed.
func (c *Conversation) MarkRead(ctx context.Context) error {
	c.mu.Lock()
	state, threadID := c.state, c.threadID
	c.mu.Unlock()
	if state != StateReady {
		return domain.ErrConversationNotOpen
	}
	opCtx, cancel := c.m.withTimeout(ctx)
	defer cancel()
	if err := c.m.threads.MarkRead(opCtx, threadID, c.session.ParticipantID); err != nil {
		c.log.ErrorContext(ctx, "conversation - mark read - failed", "thread_id", threadID, "err", err)
	}
	return nil
}

// OnFocusRegained re-marks the thread read when the screen becomes visible.
func (c *Conversation) OnFocusRegained(ctx context.Context) error {
	return c.MarkRead(ctx)
}

// DeleteMany removes the selected messages and reports how many went away.
func (c *Conversation) DeleteMany(ctx context.Context, ids []string) (int, error) {
	c.mu.Lock()
	state, threadID := c.state, c.threadID
	c.mu.Unlock()
	if state != StateReady {
		return 0, domain.ErrConversationNotOpen
	}
	opCtx, cancel := c.m.withTimeout(ctx)
	defer cancel()
	removed, err := c.m.messages.DeleteMany(opCtx, threadID, ids)
	if err != nil {
		c.log.ErrorContext(ctx, "conversation - delete many - failed", "thread_id", threadID, "err", err)
		return removed, err
	}
	return removed, nil
}

// Close cancels the live feeds; no listener callback runs after it returns.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Conversation) closeLocked() {
	if c.msgSub != nil {
		c.msgSub.Cancel()
		c.msgSub = nil
	}
	if c.threadSub != nil {
		c.threadSub.Cancel()
		c.threadSub = nil
	}
	if c.state != StateIdle {
		c.log.Info("conversation - close - feeds stopped", "thread_id", c.threadID)
	}
	c.state = StateIdle
	c.otherID = ""
	c.threadID = ""
}

func (c *Conversation) selfProfile(ctx context.Context) domain.Profile {
	p := c.session.Profile
	if p.DisplayName == "" && p.AvatarURL == "" {
		return c.m.profiles.Lookup(ctx, c.session.ParticipantID)
	}
	p.ParticipantID = c.session.ParticipantID
	return p
}

func (c *Conversation) feedFailed(feed, threadID string) func(error) {
	return func(err error) {
		c.log.Error("conversation - feed - subscription stopped", "feed", feed, "thread_id", threadID, "err", err)
	}
}
