package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ThreadIDSeparator joins the two sorted member ids of a thread.
	ThreadIDSeparator = "_"

	DefaultDisplayName = "user"
)

// ThreadID derives the conversation id for an unordered pair of participants.
// threadID(a, b) == threadID(b, a); self threads are rejected.
func ThreadID(a, b string) (string, error) {
	members, err := SortedMembers(a, b)
	if err != nil {
		return "", err
	}
	return members[0] + ThreadIDSeparator + members[1], nil
}

// SortedMembers validates a participant pair and returns it in lexicographic order.
func SortedMembers(a, b string) ([2]string, error) {
	if err := ValidateParticipantID(a); err != nil {
		return [2]string{}, err
	}
	if err := ValidateParticipantID(b); err != nil {
		return [2]string{}, err
	}
	if a == b {
		return [2]string{}, ErrSelfThread
	}
	pair := []string{a, b}
	sort.Strings(pair)
	return [2]string{pair[0], pair[1]}, nil
}

// ThreadMembers splits a thread id back into its two members.
func ThreadMembers(threadID string) ([2]string, error) {
	a, b, ok := strings.Cut(threadID, ThreadIDSeparator)
	if !ok || a == "" || b == "" || a >= b || strings.Contains(b, ThreadIDSeparator) {
		return [2]string{}, ErrInvalidThreadID
	}
	return [2]string{a, b}, nil
}

func ValidateParticipantID(id string) error {
	if strings.TrimSpace(id) == "" || strings.Contains(id, ThreadIDSeparator) {
		return ErrInvalidParticipantID
	}
	return nil
}

// Profile is the denormalized display snapshot of an account.
type Profile struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
}

// FallbackProfile is used when the profile source has nothing for the id.
func FallbackProfile(participantID string) Profile {
	return Profile{ParticipantID: participantID, DisplayName: DefaultDisplayName}
}

// Session carries the authenticated participant into the messaging façade.
type Session struct {
	ParticipantID string
	Profile       Profile
}

func NewSession(participantID string, profile Profile) (Session, error) {
	if err := ValidateParticipantID(participantID); err != nil {
		return Session{}, err
	}
	if profile.ParticipantID == "" {
		profile.ParticipantID = participantID
	}
	return Session{ParticipantID: participantID, Profile: profile}, nil
}

// Thread is a two-party conversation record and its metadata.
type Thread struct {
	ID                 string            `json:"id"`
	Members            [2]string         `json:"members"`
	MemberDisplayNames map[string]string `json:"member_display_names"`
	MemberAvatars      map[string]string `json:"member_avatars"`
	LastMessagePreview string            `json:"last_message_preview"`
	UnreadCount        map[string]int64  `json:"unread_count"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewThread builds a fresh thread with zeroed counters and an empty preview.
func NewThread(a, b string, hints map[string]Profile, now time.Time) (*Thread, error) {
	members, err := SortedMembers(a, b)
	if err != nil {
		return nil, err
	}
	t := &Thread{
		ID:                 members[0] + ThreadIDSeparator + members[1],
		Members:            members,
		MemberDisplayNames: make(map[string]string, 2),
		MemberAvatars:      make(map[string]string, 2),
		UnreadCount:        make(map[string]int64, 2),
		UpdatedAt:          now,
	}
	for _, m := range members {
		p, ok := hints[m]
		if !ok || p.DisplayName == "" {
			p.DisplayName = DefaultDisplayName
		}
		t.MemberDisplayNames[m] = p.DisplayName
		t.MemberAvatars[m] = p.AvatarURL
		t.UnreadCount[m] = 0
	}
	return t, nil
}

func (t *Thread) HasMember(id string) bool {
	return t.Members[0] == id || t.Members[1] == id
}

// Other returns the counterpart of id, or "" if id is not a member.
func (t *Thread) Other(id string) string {
	switch id {
	case t.Members[0]:
		return t.Members[1]
	case t.Members[1]:
		return t.Members[0]
	}
	return ""
}

func (t *Thread) Unread(id string) int64 {
	return t.UnreadCount[id]
}

// Clone returns a deep copy safe to hand to another goroutine.
func (t *Thread) Clone() *Thread {
	c := *t
	c.MemberDisplayNames = cloneMap(t.MemberDisplayNames)
	c.MemberAvatars = cloneMap(t.MemberAvatars)
	c.UnreadCount = cloneMap(t.UnreadCount)
	return &c
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Message is one immutable entry of a thread's log.
type Message struct {
	ID              string    `json:"id"`
	ThreadID        string    `json:"thread_id"`
	SenderID        string    `json:"sender_id"`
	RecipientID     string    `json:"recipient_id"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"created_at"`
	ClientCreatedAt int64     `json:"client_created_at"`
}

// NewMessage validates and trims body; CreatedAt is left for the store.
func NewMessage(threadID, senderID, recipientID, body string, clientNow time.Time) (*Message, error) {
	text := strings.TrimSpace(body)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == recipientID {
		return nil, ErrSelfThread
	}
	return &Message{
		ID:              uuid.NewString(),
		ThreadID:        threadID,
		SenderID:        senderID,
		RecipientID:     recipientID,
		Body:            text,
		ClientCreatedAt: clientNow.UnixMilli(),
	}, nil
}

// SortForDisplay orders by ClientCreatedAt ascending, keeping insertion order on ties.
func SortForDisplay(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].ClientCreatedAt < msgs[j].ClientCreatedAt
	})
}
