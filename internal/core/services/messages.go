package services

import (
	"context"
	"errors"
	"log/slog"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type IMessageService interface {
	// Append persists a message, then updates the thread's preview and counters.
	// A failed thread update is logged; the message is still returned.
	Append(ctx context.Context, threadID, senderID, recipientID, body string) (*domain.Message, error)
	// Subscribe delivers the ordered log now and after every change.
	Subscribe(ctx context.Context, threadID string, onMessages func([]domain.Message), onErr func(error)) (*Subscription, error)
	// DeleteMany removes the given messages; unknown ids are ignored.
	DeleteMany(ctx context.Context, threadID string, ids []string) (int, error)
	List(ctx context.Context, threadID string) ([]domain.Message, error)
}

type MessageService struct {
	repo         domain.MessageRepository
	threads      *ThreadService
	notifier     contracts.ChangeNotifier
	log          *slog.Logger
	clientNow    func() time.Time
	fetchTimeout time.Duration
}

func NewMessageService(
	log *slog.Logger,
	repo domain.MessageRepository,
	threads *ThreadService,
	notifier contracts.ChangeNotifier,
) *MessageService {
	return &MessageService{
		log:          log,
		repo:         repo,
		threads:      threads,
		notifier:     notifier,
		clientNow:    time.Now,
		fetchTimeout: defaultFetchTimeout,
	}
}

// WithClock overrides the clock stamped into ClientCreatedAt.
func (m *MessageService) WithClock(now func() time.Time) *MessageService {
	m.clientNow = now
	return m
}

func (m *MessageService) Append(
	ctx context.Context,
	threadID, senderID, recipientID, body string,
) (*domain.Message, error) {
	ctx, span := tracer.Start(ctx, "MessageService.Append", trace.WithAttributes(
		attribute.String("thread_id", threadID),
		attribute.String("sender_id", senderID),
		attribute.Int("body_size", len(body)),
	))
	defer span.End()
	expected, err := domain.ThreadID(senderID, recipientID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if expected != threadID {
		span.RecordError(domain.ErrInvalidThreadID)
		return nil, domain.ErrInvalidThreadID
	}
	msg, err := domain.NewMessage(threadID, senderID, recipientID, body, m.clientNow())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	err = m.repo.AppendMessage(ctx, msg)
	if errors.Is(err, domain.ErrThreadNotFound) {
		m.log.WarnContext(ctx, "messages - append - thread missing, creating and retrying", "thread_id", threadID)
		if _, eerr := m.threads.EnsureThread(ctx, senderID, recipientID, nil); eerr != nil {
			err = eerr
		} else {
			err = m.repo.AppendMessage(ctx, msg)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		m.log.ErrorContext(ctx, "messages - append - persist failed", "thread_id", threadID, "sender_id", senderID, "err", err)
		return nil, err
	}
	m.log.InfoContext(ctx, "messages - append - persist success", "thread_id", threadID, "message_id", msg.ID, "sender_id", senderID)
	m.publish(ctx, threadID)

	if err := m.threads.TouchOnSend(ctx, threadID, senderID, recipientID, msg.Body); err != nil {
		span.RecordError(err)
		m.log.ErrorContext(ctx, "messages - append - thread metadata update failed", "thread_id", threadID, "message_id", msg.ID, "err", err)
	}
	return msg, nil
}

func (m *MessageService) Subscribe(
	ctx context.Context,
	threadID string,
	onMessages func([]domain.Message),
	onErr func(error),
) (*Subscription, error) {
	if _, err := domain.ThreadMembers(threadID); err != nil {
		return nil, err
	}
	f := feed[[]domain.Message]{
		log:     m.log,
		name:    contracts.MessagesTopic(threadID),
		timeout: m.fetchTimeout,
		fetch: func(ctx context.Context) ([]domain.Message, error) {
			msgs, err := m.repo.ListMessages(ctx, threadID)
			if err != nil {
				return nil, err
			}
			domain.SortForDisplay(msgs)
			return msgs, nil
		},
		deliver: onMessages,
		onErr:   onErr,
	}
	return f.start(ctx, m.notifier, contracts.MessagesTopic(threadID))
}

func (m *MessageService) DeleteMany(ctx context.Context, threadID string, ids []string) (int, error) {
	ctx, span := tracer.Start(ctx, "MessageService.DeleteMany", trace.WithAttributes(
		attribute.String("thread_id", threadID),
		attribute.Int("requested", len(ids)),
	))
	defer span.End()
	if _, err := domain.ThreadMembers(threadID); err != nil {
		span.RecordError(err)
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	removed, err := m.repo.DeleteMessages(ctx, threadID, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		m.log.ErrorContext(ctx, "messages - delete many - delete failed", "thread_id", threadID, "err", err)
		return removed, err
	}
	span.SetAttributes(attribute.Int("removed", removed))
	m.log.InfoContext(ctx, "messages - delete many - success", "thread_id", threadID, "requested", len(ids), "removed", removed)
	if removed > 0 {
		m.publish(ctx, threadID)
	}
	return removed, nil
}

func (m *MessageService) List(ctx context.Context, threadID string) ([]domain.Message, error) {
	if _, err := domain.ThreadMembers(threadID); err != nil {
		return nil, err
	}
	msgs, err := m.repo.ListMessages(ctx, threadID)
	if err != nil {
		m.log.ErrorContext(ctx, "messages - list - query failed", "thread_id", threadID, "err", err)
		return nil, err
	}
	domain.SortForDisplay(msgs)
	return msgs, nil
}

func (m *MessageService) publish(ctx context.Context, threadID string) {
	topic := contracts.MessagesTopic(threadID)
	if err := m.notifier.Publish(ctx, topic); err != nil {
		m.log.WarnContext(ctx, "messages - publish - notify failed", "topic", topic, "err", err)
	}
}
