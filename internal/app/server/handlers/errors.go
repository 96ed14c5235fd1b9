package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"revere/internal/core/domain"
)

// errorFrame maps a core error onto the WS-safe taxonomy.
func errorFrame(err error) domain.ErrorMessage {
	code := domain.CodeInternal
	msg := "internal error"
	switch {
	case domain.IsValidation(err):
		code, msg = domain.CodeValidation, err.Error()
	case errors.Is(err, domain.ErrThreadNotFound):
		code, msg = domain.CodeNotFound, err.Error()
	}
	return domain.ErrorMessage{Type: domain.TypeError, Code: code, Message: msg}
}

func httpStatus(code string) int {
	switch code {
	case domain.CodeValidation, domain.CodeBadFrame:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeRateLimit:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
