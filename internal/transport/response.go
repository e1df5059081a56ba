// Package transport contains the HTTP router, middleware chain and request
// handlers of the console.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-cmdform/pkg/submit"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError writes an error envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, errorResponse{Error: msg})
}

// WriteHTML writes a rendered document.
func WriteHTML(w http.ResponseWriter, contentType string, body []byte) {
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// statusForDecode maps decoder failures to HTTP status codes.
func statusForDecode(err error) int {
	switch {
	case errors.Is(err, submit.ErrMissingCommand), errors.Is(err, submit.ErrSealedField):
		return http.StatusBadRequest
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
