package domain

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks revere/internal/core/domain ThreadRepository,MessageRepository

import (
	"context"
	"time"
)

// ThreadRepository owns thread metadata documents.
type ThreadRepository interface {
	GetThread(ctx context.Context, threadID string) (*Thread, error)
	// CreateThreadIfAbsent inserts t unless a thread with the same id exists.
	// An existing thread only gets its display/avatar snapshot merged;
	// counters, preview and UpdatedAt are left alone.
	CreateThreadIfAbsent(ctx context.Context, t *Thread) (created bool, err error)
	// TouchOnSend applies preview, UpdatedAt, unread[sender]=0 and
	// unread[recipient]+=1 as one atomic update.
	TouchOnSend(ctx context.Context, threadID, senderID, recipientID, preview string, at time.Time) error
	// ResetUnread sets unread[participant]=0.
	ResetUnread(ctx context.Context, threadID, participantID string) error
	// ListThreadsForMember returns threads containing participant, newest UpdatedAt first.
	ListThreadsForMember(ctx context.Context, participantID string) ([]Thread, error)
}

// MessageRepository is the append-only per-thread log.
type MessageRepository interface {
	// AppendMessage persists msg and fills the server-assigned CreatedAt.
	AppendMessage(ctx context.Context, msg *Message) error
	// ListMessages returns the thread's messages ordered by ClientCreatedAt, then insertion.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
	// DeleteMessages removes the given ids and reports how many were removed.
	DeleteMessages(ctx context.Context, threadID string, ids []string) (int, error)
}

// ProfileRepository is the source of truth for display names and avatars.
type ProfileRepository interface {
	GetProfile(ctx context.Context, participantID string) (*Profile, error)
}
