package services

import "revere/internal/core/domain"

// ReceiptStatus is the label shown under the last outgoing message.
type ReceiptStatus string

const (
	ReceiptSent ReceiptStatus = "Sent"
	ReceiptSeen ReceiptStatus = "Seen"
)

// UnreadBadgeFor counts the threads in which participantID has something
// unread. The badge shows threads, not messages.
func UnreadBadgeFor(participantID string, threads []domain.Thread) int {
	badge := 0
	for i := range threads {
		if threads[i].Unread(participantID) > 0 {
			badge++
		}
	}
	return badge
}

// IsLastOutgoingMessageSeen reports whether the counterpart has nothing
// unread in the thread. It is a thread-level signal, not a per-message one.
func IsLastOutgoingMessageSeen(t domain.Thread, selfID string) bool {
	other := t.Other(selfID)
	if other == "" {
		return false
	}
	return t.Unread(other) == 0
}

// LastOutgoingReceipt picks the newest message selfID sent and labels it.
// ok is false when selfID sent nothing in msgs.
func LastOutgoingReceipt(t domain.Thread, msgs []domain.Message, selfID string) (messageID string, status ReceiptStatus, ok bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].SenderID != selfID {
			continue
		}
		status = ReceiptSent
		if IsLastOutgoingMessageSeen(t, selfID) {
			status = ReceiptSeen
		}
		return msgs[i].ID, status, true
	}
	return "", "", false
}
