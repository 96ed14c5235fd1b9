package domain

// Client -> server frame types.
const (
	FrameOpen     = "open"
	FrameSend     = "send"
	FrameMarkRead = "mark_read"
	FrameFocus    = "focus"
	FrameDelete   = "delete"
	FrameClose    = "close"
)

// Server -> client frame types.
const (
	TypeMessages      = "messages"
	TypeThread        = "thread"
	TypeThreads       = "threads"
	TypeDraftRestored = "draft_restored"
	TypeSent          = "sent"
	TypeError         = "error"
)

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal"
	CodeBadFrame   = "bad_frame"
	CodeRateLimit  = "rate_limited"
)

// InboundFrame is every request a UI sends over the socket.
type InboundFrame struct {
	Type       string   `json:"type" validate:"required,oneof=open send mark_read focus delete close"`
	OtherID    string   `json:"other_id,omitempty" validate:"required_if=Type open"`
	Text       string   `json:"text,omitempty"`
	MessageIDs []string `json:"message_ids,omitempty" validate:"required_if=Type delete,dive,required"`
}

// MessagesEvent carries the full ordered snapshot of an open thread.
type MessagesEvent struct {
	Type     string    `json:"type"` // "messages"
	ThreadID string    `json:"thread_id"`
	Messages []Message `json:"messages"`
}

// ThreadEvent carries thread metadata and the derived "Seen" flag.
type ThreadEvent struct {
	Type   string `json:"type"` // "thread"
	Thread Thread `json:"thread"`
	Seen   bool   `json:"seen"`
}

// ThreadsEvent is the inbox snapshot with its badge count.
type ThreadsEvent struct {
	Type    string   `json:"type"` // "threads"
	Threads []Thread `json:"threads"`
	Badge   int      `json:"badge"`
}

// SentEvent acknowledges a persisted message to its sender.
type SentEvent struct {
	Type    string  `json:"type"` // "sent"
	Message Message `json:"message"`
}

// DraftRestoredEvent hands the unsent text back after a failed send.
type DraftRestoredEvent struct {
	Type string `json:"type"` // "draft_restored"
	Text string `json:"text"`
}

// ErrorMessage is WS-safe error
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}
