package domain

import "errors"

var (
	ErrInvalidThreadID      = errors.New("invalid thread id")
	ErrThreadNotFound       = errors.New("thread not found")
	ErrInvalidParticipantID = errors.New("invalid participant id")
	ErrNotThreadMember      = errors.New("participant is not a thread member")
	ErrSelfThread           = errors.New("cannot open a thread with yourself")
	ErrEmptyMessage         = errors.New("message body is empty")
	ErrSendInFlight         = errors.New("a send is already in flight")
	ErrConversationNotOpen  = errors.New("conversation is not open")
	ErrProfileNotFound      = errors.New("profile not found")
)

// IsValidation reports whether err was rejected before any I/O.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidThreadID),
		errors.Is(err, ErrInvalidParticipantID),
		errors.Is(err, ErrNotThreadMember),
		errors.Is(err, ErrSelfThread),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrSendInFlight),
		errors.Is(err, ErrConversationNotOpen):
		return true
	}
	return false
}
