package services

import (
	"context"
	"log/slog"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"time"
)

// Inbox is one delivery of a participant's thread list.
type Inbox struct {
	Threads []domain.Thread
	Badge   int
}

type InboxService struct {
	threads      *ThreadService
	notifier     contracts.ChangeNotifier
	log          *slog.Logger
	fetchTimeout time.Duration
}

func NewInboxService(log *slog.Logger, threads *ThreadService, notifier contracts.ChangeNotifier) *InboxService {
	return &InboxService{
		log:          log,
		threads:      threads,
		notifier:     notifier,
		fetchTimeout: defaultFetchTimeout,
	}
}

// Snapshot returns the participant's threads, newest first, with the badge.
func (s *InboxService) Snapshot(ctx context.Context, participantID string) (Inbox, error) {
	threads, err := s.threads.ListForParticipant(ctx, participantID)
	if err != nil {
		return Inbox{}, err
	}
	return Inbox{Threads: threads, Badge: UnreadBadgeFor(participantID, threads)}, nil
}

// Subscribe delivers the inbox now and whenever any of the participant's
// threads changes.
func (s *InboxService) Subscribe(
	ctx context.Context,
	participantID string,
	onInbox func(Inbox),
	onErr func(error),
) (*Subscription, error) {
	if err := domain.ValidateParticipantID(participantID); err != nil {
		return nil, err
	}
	f := feed[Inbox]{
		log:     s.log,
		name:    contracts.InboxTopic(participantID),
		timeout: s.fetchTimeout,
		fetch: func(ctx context.Context) (Inbox, error) {
			return s.Snapshot(ctx, participantID)
		},
		deliver: onInbox,
		onErr:   onErr,
	}
	return f.start(ctx, s.notifier, contracts.InboxTopic(participantID))
}
