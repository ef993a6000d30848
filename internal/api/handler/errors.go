package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/stadiumdash/internal/api/apierr"
)

// maxBodyBytes bounds request bodies; every request type is a few short strings
const maxBodyBytes = 16 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody decodes a JSON request body into dst. On failure it writes an
// INVALID_REQUEST response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		WriteError(w, NewInvalidRequestError("request body is required"))
	case errors.As(err, &tooLarge):
		WriteError(w, NewInvalidRequestError("request body is too large"))
	default:
		WriteError(w, NewInvalidRequestError("invalid request body"))
	}
	return false
}
