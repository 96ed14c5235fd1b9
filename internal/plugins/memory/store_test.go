package memory

import (
	"context"
	"revere/internal/core/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThread(t *testing.T, s *Store) *domain.Thread {
	t.Helper()
	th, err := domain.NewThread("u1", "u2", nil, time.Unix(100, 0))
	require.NoError(t, err)
	created, err := s.CreateThreadIfAbsent(context.Background(), th)
	require.NoError(t, err)
	require.True(t, created)
	return th
}

func TestCreateThreadIfAbsentKeepsCounters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	th := seedThread(t, s)
	require.NoError(t, s.TouchOnSend(ctx, th.ID, "u1", "u2", "hi", time.Unix(200, 0)))

	again, err := domain.NewThread("u1", "u2", map[string]domain.Profile{
		"u2": {ParticipantID: "u2", DisplayName: "bo", AvatarURL: "https://img/bo.png"},
	}, time.Unix(300, 0))
	require.NoError(t, err)
	created, err := s.CreateThreadIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.GetThread(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Unread("u2"))
	assert.Equal(t, "hi", got.LastMessagePreview)
	assert.Equal(t, time.Unix(200, 0), got.UpdatedAt)
	assert.Equal(t, "bo", got.MemberDisplayNames["u2"])
	assert.Equal(t, "https://img/bo.png", got.MemberAvatars["u2"])
}

func TestTouchOnSendConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	th := seedThread(t, s)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.TouchOnSend(ctx, th.ID, "u1", "u2", "x", time.Now()))
		}()
	}
	wg.Wait()

	got, err := s.GetThread(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Unread("u2"))
	assert.Equal(t, int64(0), got.Unread("u1"))
}

func TestMissingThread(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	assert.ErrorIs(t, s.ResetUnread(ctx, "u1_u2", "u1"), domain.ErrThreadNotFound)
	assert.ErrorIs(t, s.TouchOnSend(ctx, "u1_u2", "u1", "u2", "x", time.Now()), domain.ErrThreadNotFound)
	assert.ErrorIs(t, s.AppendMessage(ctx, &domain.Message{ThreadID: "u1_u2"}), domain.ErrThreadNotFound)
}

func TestResetUnreadRejectsStranger(t *testing.T) {
	s := NewStore()
	th := seedThread(t, s)
	assert.ErrorIs(t, s.ResetUnread(context.Background(), th.ID, "u3"), domain.ErrNotThreadMember)
}

func TestMessagesOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	server := time.Unix(500, 0)
	s := NewStore().WithClock(func() time.Time { return server })
	th := seedThread(t, s)

	for _, ts := range []int64{5, 1, 3} {
		msg, err := domain.NewMessage(th.ID, "u1", "u2", "m", time.UnixMilli(ts))
		require.NoError(t, err)
		require.NoError(t, s.AppendMessage(ctx, msg))
		assert.Equal(t, server, msg.CreatedAt)
	}
	msgs, err := s.ListMessages(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{msgs[0].ClientCreatedAt, msgs[1].ClientCreatedAt, msgs[2].ClientCreatedAt})

	removed, err := s.DeleteMessages(ctx, th.ID, []string{msgs[1].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	left, err := s.ListMessages(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{msgs[0], msgs[2]}, left)
}

func TestListThreadsForMemberNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i, other := range []string{"u2", "u3", "u4"} {
		th, err := domain.NewThread("u1", other, nil, time.Unix(int64(100+i), 0))
		require.NoError(t, err)
		_, err = s.CreateThreadIfAbsent(ctx, th)
		require.NoError(t, err)
	}
	require.NoError(t, s.TouchOnSend(ctx, "u1_u2", "u2", "u1", "late", time.Unix(900, 0)))

	threads, err := s.ListThreadsForMember(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, threads, 3)
	assert.Equal(t, []string{"u1_u2", "u1_u4", "u1_u3"}, []string{threads[0].ID, threads[1].ID, threads[2].ID})

	none, err := s.ListThreadsForMember(ctx, "u9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotifierSubscribeUnsubscribe(t *testing.T) {
	ctx := context.Background()
	n := NewNotifier()
	var hits int
	unsub, err := n.Subscribe(ctx, "thread:x", func() { hits++ })
	require.NoError(t, err)

	require.NoError(t, n.Publish(ctx, "thread:x"))
	require.NoError(t, n.Publish(ctx, "thread:y"))
	assert.Equal(t, 1, hits)

	unsub()
	unsub()
	require.NoError(t, n.Publish(ctx, "thread:x"))
	assert.Equal(t, 1, hits)
	assert.Equal(t, 0, n.Subscribers("thread:x"))
}

func TestProfilesExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	p := NewProfiles()
	p.now = func() time.Time { return now }

	require.NoError(t, p.SetProfile(ctx, domain.Profile{ParticipantID: "u1", DisplayName: "ana"}, time.Minute))
	got, ok, err := p.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ana", got.DisplayName)

	now = now.Add(2 * time.Minute)
	_, ok, err = p.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ProfileSource{p}.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfilesPutSurvivesCacheWrites(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	p := NewProfiles()
	p.now = func() time.Time { return now }

	p.Put(domain.Profile{ParticipantID: "u1", DisplayName: "ana"})
	require.NoError(t, p.SetProfile(ctx, domain.Profile{ParticipantID: "u1", DisplayName: "ana b"}, time.Minute))

	now = now.Add(time.Hour)
	got, err := ProfileSource{p}.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana b", got.DisplayName)
}
