package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging-service")

const defaultFetchTimeout = 10 * time.Second

type IThreadService interface {
	// EnsureThread creates the thread for a pair if it does not exist yet.
	// Existing counters and preview are never touched.
	EnsureThread(ctx context.Context, a, b string, hints map[string]domain.Profile) (*domain.Thread, error)
	// TouchOnSend records a send: preview, recipient unread +1, sender unread 0.
	TouchOnSend(ctx context.Context, threadID, senderID, recipientID, preview string) error
	// MarkRead zeroes the participant's unread counter.
	MarkRead(ctx context.Context, threadID, participantID string) error
	Get(ctx context.Context, threadID string) (*domain.Thread, error)
	ListForParticipant(ctx context.Context, participantID string) ([]domain.Thread, error)
}

type ThreadService struct {
	repo         domain.ThreadRepository
	notifier     contracts.ChangeNotifier
	log          *slog.Logger
	now          func() time.Time
	fetchTimeout time.Duration
}

func NewThreadService(
	log *slog.Logger,
	repo domain.ThreadRepository,
	notifier contracts.ChangeNotifier,
) *ThreadService {
	return &ThreadService{
		log:          log,
		repo:         repo,
		notifier:     notifier,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
	}
}

// WithClock overrides the server clock used for UpdatedAt.
func (s *ThreadService) WithClock(now func() time.Time) *ThreadService {
	s.now = now
	return s
}

func (s *ThreadService) EnsureThread(
	ctx context.Context,
	a, b string,
	hints map[string]domain.Profile,
) (*domain.Thread, error) {
	ctx, span := tracer.Start(ctx, "ThreadService.EnsureThread", trace.WithAttributes(
		attribute.String("participant_a", a),
		attribute.String("participant_b", b),
	))
	defer span.End()
	t, err := domain.NewThread(a, b, hints, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("thread_id", t.ID))
	created, err := s.repo.CreateThreadIfAbsent(ctx, t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ensure thread failed")
		s.log.ErrorContext(ctx, "threads - ensure thread - create failed", "thread_id", t.ID, "err", err)
		return nil, err
	}
	if created {
		s.log.InfoContext(ctx, "threads - ensure thread - created", "thread_id", t.ID)
		s.publish(ctx, t.ID, t.Members)
	}
	current, err := s.repo.GetThread(ctx, t.ID)
	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "threads - ensure thread - reload failed", "thread_id", t.ID, "err", err)
		return nil, err
	}
	return current, nil
}

func (s *ThreadService) TouchOnSend(
	ctx context.Context,
	threadID, senderID, recipientID, preview string,
) error {
	ctx, span := tracer.Start(ctx, "ThreadService.TouchOnSend", trace.WithAttributes(
		attribute.String("thread_id", threadID),
		attribute.String("sender_id", senderID),
	))
	defer span.End()
	members, err := s.membersOf(threadID, senderID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if recipientID == senderID || (recipientID != members[0] && recipientID != members[1]) {
		span.RecordError(domain.ErrNotThreadMember)
		return domain.ErrNotThreadMember
	}
	if err := s.withEnsure(ctx, threadID, members, func() error {
		return s.repo.TouchOnSend(ctx, threadID, senderID, recipientID, preview, s.now())
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "touch on send failed")
		s.log.ErrorContext(ctx, "threads - touch on send - update failed", "thread_id", threadID, "sender_id", senderID, "err", err)
		return err
	}
	s.publish(ctx, threadID, members)
	return nil
}

func (s *ThreadService) MarkRead(ctx context.Context, threadID, participantID string) error {
	ctx, span := tracer.Start(ctx, "ThreadService.MarkRead", trace.WithAttributes(
		attribute.String("thread_id", threadID),
		attribute.String("participant_id", participantID),
	))
	defer span.End()
	members, err := s.membersOf(threadID, participantID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.withEnsure(ctx, threadID, members, func() error {
		return s.repo.ResetUnread(ctx, threadID, participantID)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mark read failed")
		s.log.ErrorContext(ctx, "threads - mark read - reset unread failed", "thread_id", threadID, "participant_id", participantID, "err", err)
		return err
	}
	s.log.DebugContext(ctx, "threads - mark read - success", "thread_id", threadID, "participant_id", participantID)
	s.publish(ctx, threadID, members)
	return nil
}

func (s *ThreadService) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	if _, err := domain.ThreadMembers(threadID); err != nil {
		return nil, err
	}
	return s.repo.GetThread(ctx, threadID)
}

func (s *ThreadService) ListForParticipant(ctx context.Context, participantID string) ([]domain.Thread, error) {
	ctx, span := tracer.Start(ctx, "ThreadService.ListForParticipant", trace.WithAttributes(
		attribute.String("participant_id", participantID),
	))
	defer span.End()
	if err := domain.ValidateParticipantID(participantID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	threads, err := s.repo.ListThreadsForMember(ctx, participantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list threads failed")
		s.log.ErrorContext(ctx, "threads - list for participant - query failed", "participant_id", participantID, "err", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("thread_count", len(threads)))
	return threads, nil
}

// Subscribe delivers the thread record now and on every later change.
func (s *ThreadService) Subscribe(
	ctx context.Context,
	threadID string,
	onThread func(domain.Thread),
	onErr func(error),
) (*Subscription, error) {
	if _, err := domain.ThreadMembers(threadID); err != nil {
		return nil, err
	}
	f := feed[*domain.Thread]{
		log:     s.log,
		name:    contracts.ThreadTopic(threadID),
		timeout: s.fetchTimeout,
		fetch: func(ctx context.Context) (*domain.Thread, error) {
			return s.repo.GetThread(ctx, threadID)
		},
		deliver: func(t *domain.Thread) { onThread(*t) },
		onErr:   onErr,
	}
	return f.start(ctx, s.notifier, contracts.ThreadTopic(threadID))
}

// membersOf parses threadID and checks that participantID belongs to it.
func (s *ThreadService) membersOf(threadID, participantID string) ([2]string, error) {
	members, err := domain.ThreadMembers(threadID)
	if err != nil {
		return members, err
	}
	if participantID != members[0] && participantID != members[1] {
		return members, domain.ErrNotThreadMember
	}
	return members, nil
}

// withEnsure runs op and, if the thread is missing, creates it and retries once.
func (s *ThreadService) withEnsure(ctx context.Context, threadID string, members [2]string, op func() error) error {
	err := op()
	if !errors.Is(err, domain.ErrThreadNotFound) {
		return err
	}
	s.log.WarnContext(ctx, "threads - ensure - thread missing, creating and retrying", "thread_id", threadID)
	if _, eerr := s.EnsureThread(ctx, members[0], members[1], nil); eerr != nil {
		return fmt.Errorf("ensure thread %s: %w", threadID, eerr)
	}
	return op()
}

func (s *ThreadService) publish(ctx context.Context, threadID string, members [2]string) {
	topics := []string{
		contracts.ThreadTopic(threadID),
		contracts.InboxTopic(members[0]),
		contracts.InboxTopic(members[1]),
	}
	for _, topic := range topics {
		if err := s.notifier.Publish(ctx, topic); err != nil {
			s.log.WarnContext(ctx, "threads - publish - notify failed", "topic", topic, "err", err)
		}
	}
}
