package contracts

import (
	"context"
)

// ChangeNotifier pushes "topic changed" signals; readers re-query on signal.
type ChangeNotifier interface {
	// Publish announces a change on topic to every current subscriber.
	Publish(ctx context.Context, topic string) error
	// Subscribe registers onChange for topic. onChange must not block; the
	// returned func unsubscribes and is safe to call more than once.
	Subscribe(ctx context.Context, topic string, onChange func()) (unsubscribe func(), err error)
}

func ThreadTopic(threadID string) string { return "thread:" + threadID }

func MessagesTopic(threadID string) string { return "messages:" + threadID }

func InboxTopic(participantID string) string { return "inbox:" + participantID }
