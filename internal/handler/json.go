package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/msomdec/taskflow/internal/validation"
)

// Request bodies beyond this size are rejected.
const maxBodyBytes = 1 << 20 // 1MB

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with a human-readable message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationErrors sends a 400 with one entry per field violation.
func writeValidationErrors(w http.ResponseWriter, errs []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// writeUnavailable sends a 503 with guidance for the operator. Used whenever
// the persistence backend is unreachable.
func writeUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"message": "Database not available. Please try again later.",
		"status":  "persistence backend unreachable - check the MONGO_URI connection string",
	})
}

// writeInternal sends a 500. Error details are only exposed in development
// mode.
func writeInternal(w http.ResponseWriter, dev bool, err error) {
	if dev && err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
}

// readJSON decodes the request body into dst, capping the body size.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
