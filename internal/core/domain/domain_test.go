package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadIDSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"u1", "u2"},
		{"zeta", "alpha"},
		{"A", "a"},
		{"7hQx9Lm2", "7hQx9Lm1"},
	}
	for _, p := range pairs {
		t.Run(fmt.Sprintf("%s-%s", p[0], p[1]), func(t *testing.T) {
			ab, err := ThreadID(p[0], p[1])
			require.NoError(t, err)
			ba, err := ThreadID(p[1], p[0])
			require.NoError(t, err)
			assert.Equal(t, ab, ba)

			members, err := ThreadMembers(ab)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{p[0], p[1]}, members[:])
		})
	}
}

func TestThreadIDValidation(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want error
	}{
		{"self", "u1", "u1", ErrSelfThread},
		{"empty", "", "u1", ErrInvalidParticipantID},
		{"blank", "u1", "   ", ErrInvalidParticipantID},
		{"separator", "u_1", "u2", ErrInvalidParticipantID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ThreadID(tt.a, tt.b)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestThreadMembersRejectsNonCanonical(t *testing.T) {
	for _, id := range []string{"", "u1", "u2_u1", "u1_", "_u1", "u1_u1", "a_b_c"} {
		_, err := ThreadMembers(id)
		assert.ErrorIs(t, err, ErrInvalidThreadID, id)
	}
}

func TestNewThreadDefaults(t *testing.T) {
	now := time.Now()
	th, err := NewThread("u2", "u1", map[string]Profile{
		"u1": {ParticipantID: "u1", DisplayName: "ana", AvatarURL: "https://img/ana.png"},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "u1_u2", th.ID)
	assert.Equal(t, [2]string{"u1", "u2"}, th.Members)
	assert.Equal(t, "ana", th.MemberDisplayNames["u1"])
	assert.Equal(t, DefaultDisplayName, th.MemberDisplayNames["u2"])
	assert.Equal(t, "", th.MemberAvatars["u2"])
	assert.Equal(t, map[string]int64{"u1": 0, "u2": 0}, th.UnreadCount)
	assert.Empty(t, th.LastMessagePreview)
	assert.Equal(t, "u2", th.Other("u1"))
	assert.Equal(t, "", th.Other("u3"))
}

func TestCloneIsDeep(t *testing.T) {
	th, err := NewThread("u1", "u2", nil, time.Now())
	require.NoError(t, err)
	c := th.Clone()
	c.UnreadCount["u2"] = 9
	c.MemberDisplayNames["u1"] = "changed"
	assert.Equal(t, int64(0), th.UnreadCount["u2"])
	assert.Equal(t, DefaultDisplayName, th.MemberDisplayNames["u1"])
}

func TestNewMessageTrimsAndRejectsEmpty(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := NewMessage("u1_u2", "u1", "u2", body, time.Now())
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	msg, err := NewMessage("u1_u2", "u1", "u2", "  hi  ", time.UnixMilli(42))
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Body)
	assert.Equal(t, int64(42), msg.ClientCreatedAt)
	assert.NotEmpty(t, msg.ID)
}

func TestSortForDisplay(t *testing.T) {
	msgs := []Message{
		{ID: "a", ClientCreatedAt: 5},
		{ID: "b", ClientCreatedAt: 1},
		{ID: "c", ClientCreatedAt: 3},
		{ID: "d", ClientCreatedAt: 3},
	}
	SortForDisplay(msgs)
	var ids []string
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids)
}
