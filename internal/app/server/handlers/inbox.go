package handlers

import (
	"net/http"
	"revere/internal/core/domain"
	"revere/internal/core/services"
	"revere/pkg/logging"
	"revere/pkg/middleware"
)

type InboxHandler struct {
	messenger *services.Messenger
}

func NewInboxHandler(messenger *services.Messenger) *InboxHandler {
	return &InboxHandler{messenger: messenger}
}

// List serves GET /threads: the caller's threads, newest first, with the badge.
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	participantID, ok := middleware.ParticipantID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: participant missing", http.StatusUnauthorized)
		return
	}
	inbox, err := h.messenger.InboxSnapshot(r.Context(), domain.Session{ParticipantID: participantID})
	if err != nil {
		frame := errorFrame(err)
		log.ErrorContext(r.Context(), "inbox handler - list - snapshot failed", logging.Participant(participantID), logging.Err(err))
		writeJSON(w, httpStatus(frame.Code), frame)
		return
	}
	threads := inbox.Threads
	if threads == nil {
		threads = []domain.Thread{}
	}
	writeJSON(w, http.StatusOK, domain.ThreadsEvent{
		Type:    domain.TypeThreads,
		Threads: threads,
		Badge:   inbox.Badge,
	})
}
