package services

import (
	"testing"

	"revere/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func threadWithUnread(id string, members [2]string, unread map[string]int64) domain.Thread {
	return domain.Thread{ID: id, Members: members, UnreadCount: unread}
}

func TestUnreadBadgeFor(t *testing.T) {
	threads := []domain.Thread{
		threadWithUnread("alice_bob", [2]string{"alice", "bob"}, map[string]int64{"alice": 2, "bob": 7}),
		threadWithUnread("alice_carol", [2]string{"alice", "carol"}, map[string]int64{"alice": 3}),
		threadWithUnread("alice_dave", [2]string{"alice", "dave"}, nil),
		threadWithUnread("alice_erin", [2]string{"alice", "erin"}, map[string]int64{"alice": -4}),
		threadWithUnread("alice_frank", [2]string{"alice", "frank"}, map[string]int64{"alice": 0}),
	}
	assert.Equal(t, 2, UnreadBadgeFor("alice", threads))
	assert.Equal(t, 1, UnreadBadgeFor("bob", threads))
	assert.Equal(t, 0, UnreadBadgeFor("zed", threads))
	assert.Equal(t, 0, UnreadBadgeFor("alice", nil))
}

func TestUnreadBadgeCountsThreadsNotMessages(t *testing.T) {
	threads := []domain.Thread{
		threadWithUnread("a_b", [2]string{"a", "b"}, map[string]int64{"a": 4}),
		threadWithUnread("a_c", [2]string{"a", "c"}, map[string]int64{"a": 3}),
		threadWithUnread("a_d", [2]string{"a", "d"}, map[string]int64{"a": 0}),
	}
	assert.Equal(t, 2, UnreadBadgeFor("a", threads))
}

func TestIsLastOutgoingMessageSeen(t *testing.T) {
	tests := []struct {
		name   string
		unread map[string]int64
		self   string
		want   bool
	}{
		{name: "counterpart caught up", unread: map[string]int64{"alice": 0, "bob": 0}, self: "alice", want: true},
		{name: "counterpart behind", unread: map[string]int64{"bob": 1}, self: "alice", want: false},
		{name: "own unread does not matter", unread: map[string]int64{"alice": 9, "bob": 0}, self: "alice", want: true},
		{name: "missing entry reads as zero", unread: nil, self: "bob", want: true},
		{name: "not a member", unread: nil, self: "carol", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := threadWithUnread("alice_bob", [2]string{"alice", "bob"}, tt.unread)
			assert.Equal(t, tt.want, IsLastOutgoingMessageSeen(th, tt.self))
		})
	}
}

func TestLastOutgoingReceipt(t *testing.T) {
	msgs := []domain.Message{
		{ID: "m1", SenderID: "alice"},
		{ID: "m2", SenderID: "alice"},
		{ID: "m3", SenderID: "bob"},
	}
	th := threadWithUnread("alice_bob", [2]string{"alice", "bob"}, map[string]int64{"bob": 1})

	id, status, ok := LastOutgoingReceipt(th, msgs, "alice")
	assert.True(t, ok)
	assert.Equal(t, "m2", id)
	assert.Equal(t, ReceiptSent, status)

	th.UnreadCount["bob"] = 0
	_, status, _ = LastOutgoingReceipt(th, msgs, "alice")
	assert.Equal(t, ReceiptSeen, status)

	_, _, ok = LastOutgoingReceipt(th, msgs[:2], "bob")
	assert.False(t, ok)
}
