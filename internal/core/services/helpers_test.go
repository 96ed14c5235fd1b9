package services

import (
	"context"
	"io"
	"log/slog"
	"revere/internal/core/domain"
	"revere/internal/plugins/memory"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type harness struct {
	store    *memory.Store
	notifier *memory.Notifier
	profiles *memory.Profiles
	threads  *ThreadService
	messages *MessageService
	inbox    *InboxService
	people   *ProfileService
	m        *Messenger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock hands out strictly increasing instants.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

// newHarnessWith lets a test wrap the message repository.
func newHarnessWith(t *testing.T, wrap func(domain.MessageRepository) domain.MessageRepository) *harness {
	t.Helper()
	log := discardLogger()
	clock := newFakeClock()
	h := &harness{
		store:    memory.NewStore().WithClock(clock.Now),
		notifier: memory.NewNotifier(),
		profiles: memory.NewProfiles(),
	}
	var msgRepo domain.MessageRepository = h.store
	if wrap != nil {
		msgRepo = wrap(msgRepo)
	}
	h.threads = NewThreadService(log, h.store, h.notifier).WithClock(clock.Now)
	h.messages = NewMessageService(log, msgRepo, h.threads, h.notifier).WithClock(clock.Now)
	h.inbox = NewInboxService(log, h.threads, h.notifier)
	h.people = NewProfileService(log, memory.ProfileSource{Profiles: h.profiles}, memory.NewProfiles(), time.Minute)
	h.m = NewMessenger(log, h.threads, h.messages, h.inbox, h.people, 2*time.Second)
	return h
}

func (h *harness) thread(t *testing.T, id string) *domain.Thread {
	t.Helper()
	th, err := h.store.GetThread(context.Background(), id)
	require.NoError(t, err)
	cp := *th
	return &cp
}

// recorder is a ConversationListener that keeps the latest deliveries.
type recorder struct {
	mu       sync.Mutex
	messages [][]domain.Message
	threads  []domain.Thread
	seen     []bool
	drafts   []string
}

func (r *recorder) OnMessages(threadID string, msgs []domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msgs)
}

func (r *recorder) OnThread(t domain.Thread, seen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads = append(r.threads, t)
	r.seen = append(r.seen, seen)
}

func (r *recorder) OnDraftRestored(text string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, text)
}

func (r *recorder) lastMessages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil
	}
	return r.messages[len(r.messages)-1]
}

func (r *recorder) lastSeen() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return false, false
	}
	return r.seen[len(r.seen)-1], true
}

func (r *recorder) deliveries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages) + len(r.threads)
}

func (r *recorder) restored() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.drafts...)
}

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond
