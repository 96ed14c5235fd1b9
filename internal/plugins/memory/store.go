package memory

import (
	"context"
	"revere/internal/core/domain"
	"sort"
	"sync"
	"time"
)

// Store keeps threads and message logs in process. Every mutation happens
// under one lock, so TouchOnSend is atomic the same way a row update is.
type Store struct {
	mu       sync.RWMutex
	threads  map[string]*domain.Thread
	messages map[string][]domain.Message
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		threads:  make(map[string]*domain.Thread),
		messages: make(map[string][]domain.Message),
		now:      time.Now,
	}
}

// WithClock swaps the server clock; tests use it to pin CreatedAt.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) GetThread(ctx context.Context, threadID string) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	return t.Clone(), nil
}

func (s *Store) CreateThreadIfAbsent(ctx context.Context, t *domain.Thread) (bool, error) {
	if t == nil || t.ID == "" {
		return false, domain.ErrInvalidThreadID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.threads[t.ID]; ok {
		for _, m := range existing.Members {
			if name := t.MemberDisplayNames[m]; name != "" && name != domain.DefaultDisplayName {
				existing.MemberDisplayNames[m] = name
			}
			if avatar := t.MemberAvatars[m]; avatar != "" {
				existing.MemberAvatars[m] = avatar
			}
		}
		return false, nil
	}
	s.threads[t.ID] = t.Clone()
	return true, nil
}

func (s *Store) TouchOnSend(ctx context.Context, threadID, senderID, recipientID, preview string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return domain.ErrThreadNotFound
	}
	if !t.HasMember(senderID) || !t.HasMember(recipientID) {
		return domain.ErrNotThreadMember
	}
	t.LastMessagePreview = preview
	t.UpdatedAt = at
	t.UnreadCount[senderID] = 0
	t.UnreadCount[recipientID]++
	return nil
}

func (s *Store) ResetUnread(ctx context.Context, threadID, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return domain.ErrThreadNotFound
	}
	if !t.HasMember(participantID) {
		return domain.ErrNotThreadMember
	}
	t.UnreadCount[participantID] = 0
	return nil
}

func (s *Store) ListThreadsForMember(ctx context.Context, participantID string) ([]domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Thread, 0)
	for _, t := range s.threads {
		if t.HasMember(participantID) {
			out = append(out, *t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[msg.ThreadID]; !ok {
		return domain.ErrThreadNotFound
	}
	msg.CreatedAt = s.now()
	s.messages[msg.ThreadID] = append(s.messages[msg.ThreadID], *msg)
	return nil
}

func (s *Store) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	s.mu.RLock()
	out := make([]domain.Message, len(s.messages[threadID]))
	copy(out, s.messages[threadID])
	s.mu.RUnlock()
	domain.SortForDisplay(out)
	return out, nil
}

func (s *Store) DeleteMessages(ctx context.Context, threadID string, ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.messages[threadID]
	kept := make([]domain.Message, 0, len(entries))
	for _, m := range entries {
		if _, ok := drop[m.ID]; !ok {
			kept = append(kept, m)
		}
	}
	removed := len(entries) - len(kept)
	s.messages[threadID] = kept
	return removed, nil
}
