// Package httpx provides HTTP handlers and utilities for the learning
// platform API.
package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination.
// Returns true if successful, false if there was an error (error response
// already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		RenderError(w, r, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid JSON body"))
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}
