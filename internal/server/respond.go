package server

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/legitsearch/platform/internal/errors"
)

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an error body using the central error mapper.
func Error(w http.ResponseWriter, err error) {
	status, msg := errors.Map(err)
	JSON(w, status, map[string]string{"detail": msg})
}

// BadRequest writes a 400 with the given detail message.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, map[string]string{"detail": msg})
}

// Decode parses the request body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
