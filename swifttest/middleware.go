package swifttest

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const headerTransID = "X-Trans-Id"

// RecordedRequest is one request seen by the Handler.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// journalMiddleware records every request before routing.
func (h *Handler) journalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.journal = append(h.journal, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		h.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// transIDMiddleware tags every response with a transaction id.
func transIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerTransID, "tx"+uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// tokenMiddleware rejects requests without a token issued by the auth route.
func (h *Handler) tokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(headerAuthToken)

		h.mu.Lock()
		_, ok := h.tokens[token]
		h.mu.Unlock()

		if token == "" || !ok {
			writeError(w, http.StatusUnauthorized, "This server could not verify that you are authorized to access the document you requested.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
