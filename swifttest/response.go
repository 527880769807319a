package swifttest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const errorPageTemplate = `<html><h1>%s</h1><p>%s</p></html>`

// writeError writes a Swift-style HTML error body.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, fmt.Sprintf(errorPageTemplate, http.StatusText(code), message))
}

// handleError maps store errors to Swift status codes.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrContainerNotFound), errors.Is(err, ErrObjectNotFound):
		writeError(w, http.StatusNotFound, "The resource could not be found.")
	case errors.Is(err, ErrContainerNotEmpty):
		writeError(w, http.StatusConflict, "There was a conflict when trying to complete your request.")
	default:
		slog.Error("swifttest request error", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeNoContent writes a bodiless status.
func writeNoContent(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(code)
}
