package middleware

import (
	"context"
	"net/http"
	"revere/pkg/logging"
	"strings"
)

type contextKey string

const ParticipantIDKey contextKey = "participant_id"

// TokenValidator resolves a bearer token to a participant id.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			participantID, err := tokens.ValidateToken(token)
			if err != nil {
				http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ParticipantIDKey, participantID)
			ctx = logging.With(ctx, logging.Participant(participantID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParticipantID returns the authenticated participant stored by AuthMiddleware.
func ParticipantID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ParticipantIDKey).(string)
	return id, ok && id != ""
}

// bearerToken reads the Authorization header; browsers cannot set headers on
// a WebSocket handshake, so access_token in the query is accepted too.
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, true
	}
	return "", false
}
