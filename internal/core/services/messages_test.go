package services

import (
	"context"
	"errors"
	"revere/internal/core/domain"
	"revere/internal/core/domain/mocks"
	"revere/internal/plugins/memory"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("persists trimmed body and updates the thread", func(t *testing.T) {
		h := newHarness(t)
		msg, err := h.messages.Append(ctx, "alice_bob", "alice", "bob", "  hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Body)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.CreatedAt.IsZero())
		assert.NotZero(t, msg.ClientCreatedAt)

		th := h.thread(t, "alice_bob")
		assert.Equal(t, "hello", th.LastMessagePreview)
		assert.Equal(t, int64(1), th.Unread("bob"))
		assert.Equal(t, int64(0), th.Unread("alice"))
	})

	t.Run("empty body is rejected without io", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockMessageRepository(ctrl)
		svc := NewMessageService(discardLogger(), repo, newHarness(t).threads, memory.NewNotifier())
		_, err := svc.Append(ctx, "alice_bob", "alice", "bob", " \n\t ")
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	})

	t.Run("thread id must match the pair", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.messages.Append(ctx, "alice_carol", "alice", "bob", "hi")
		assert.ErrorIs(t, err, domain.ErrInvalidThreadID)
		_, err = h.messages.Append(ctx, "alice_alice", "alice", "alice", "hi")
		assert.ErrorIs(t, err, domain.ErrSelfThread)
	})

	t.Run("transport failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockMessageRepository(ctrl)
		h := newHarness(t)
		svc := NewMessageService(discardLogger(), repo, h.threads, h.notifier)
		boom := errors.New("offline")
		repo.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Return(boom)

		_, err := svc.Append(ctx, "alice_bob", "alice", "bob", "hi")
		assert.ErrorIs(t, err, boom)
		_, err = h.store.GetThread(ctx, "alice_bob")
		assert.ErrorIs(t, err, domain.ErrThreadNotFound)
	})

	t.Run("metadata failure still returns the message", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		threadRepo := mocks.NewMockThreadRepository(ctrl)
		store := memory.NewStore()
		notifier := memory.NewNotifier()
		threads := NewThreadService(discardLogger(), threadRepo, notifier)
		svc := NewMessageService(discardLogger(), store, threads, notifier)
		_, err := store.CreateThreadIfAbsent(ctx, mustThread(t, "alice", "bob"))
		require.NoError(t, err)

		threadRepo.EXPECT().TouchOnSend(gomock.Any(), "alice_bob", "alice", "bob", "hi", gomock.Any()).
			Return(errors.New("write conflict"))
		msg, err := svc.Append(ctx, "alice_bob", "alice", "bob", "hi")
		require.NoError(t, err)
		msgs, err := store.ListMessages(ctx, "alice_bob")
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, msg.ID, msgs[0].ID)
	})
}

func mustThread(t *testing.T, a, b string) *domain.Thread {
	t.Helper()
	th, err := domain.NewThread(a, b, nil, time.Now())
	require.NoError(t, err)
	return th
}

func TestMessageService_OrderingFollowsClientClock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	clientTimes := []int64{5000, 1000, 3000}
	var i int
	var mu sync.Mutex
	h.messages.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ts := clientTimes[i]
		i++
		return time.UnixMilli(ts)
	})
	for _, body := range []string{"late", "early", "middle"} {
		_, err := h.messages.Append(ctx, "alice_bob", "alice", "bob", body)
		require.NoError(t, err)
	}
	msgs, err := h.messages.List(ctx, "alice_bob")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"early", "middle", "late"}, []string{msgs[0].Body, msgs[1].Body, msgs[2].Body})
}

func TestMessageService_Subscribe(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.messages.Append(ctx, "alice_bob", "alice", "bob", "first")
	require.NoError(t, err)

	var mu sync.Mutex
	var snapshots [][]domain.Message
	sub, err := h.messages.Subscribe(ctx, "alice_bob", func(msgs []domain.Message) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, msgs)
	}, nil)
	require.NoError(t, err)
	last := func() []domain.Message {
		mu.Lock()
		defer mu.Unlock()
		if len(snapshots) == 0 {
			return nil
		}
		return snapshots[len(snapshots)-1]
	}

	assert.Eventually(t, func() bool { return len(last()) == 1 }, waitFor, tick)
	_, err = h.messages.Append(ctx, "alice_bob", "bob", "alice", "second")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(last()) == 2 }, waitFor, tick)

	sub.Cancel()
	sub.Cancel()
	mu.Lock()
	count := len(snapshots)
	mu.Unlock()
	_, err = h.messages.Append(ctx, "alice_bob", "alice", "bob", "after cancel")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, count, len(snapshots))
	mu.Unlock()
	assert.Equal(t, 0, h.notifier.Subscribers("messages:alice_bob"))
	<-sub.Done()
}

func TestMessageService_SubscribeStopsOnFetchError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMessageRepository(ctrl)
	notifier := memory.NewNotifier()
	svc := NewMessageService(discardLogger(), repo, newHarness(t).threads, notifier)
	boom := errors.New("listener denied")
	repo.EXPECT().ListMessages(gomock.Any(), "alice_bob").Return(nil, boom)

	errs := make(chan error, 1)
	sub, err := svc.Subscribe(ctx, "alice_bob", func([]domain.Message) {
		t.Error("no snapshot expected")
	}, func(err error) { errs <- err })
	require.NoError(t, err)

	select {
	case got := <-errs:
		assert.ErrorIs(t, got, boom)
	case <-time.After(waitFor):
		t.Fatal("onErr not called")
	}
	select {
	case <-sub.Done():
	case <-time.After(waitFor):
		t.Fatal("feed did not stop")
	}
	assert.Equal(t, 0, notifier.Subscribers("messages:alice_bob"))
}

func TestMessageService_DeleteMany(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	var ids []string
	for _, body := range []string{"a", "b", "c"} {
		msg, err := h.messages.Append(ctx, "alice_bob", "alice", "bob", body)
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}
	before := h.thread(t, "alice_bob")

	removed, err := h.messages.DeleteMany(ctx, "alice_bob", []string{ids[0], ids[2], "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	msgs, err := h.messages.List(ctx, "alice_bob")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, ids[1], msgs[0].ID)

	after := h.thread(t, "alice_bob")
	assert.Equal(t, before.Unread("bob"), after.Unread("bob"))
	assert.Equal(t, before.LastMessagePreview, after.LastMessagePreview)

	removed, err = h.messages.DeleteMany(ctx, "alice_bob", nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
