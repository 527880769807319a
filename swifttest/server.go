package swifttest

import (
	"net/http/httptest"
)

// Server is a running emulator bound to a local port.
type Server struct {
	*httptest.Server
	*Handler
}

// NewServer starts an emulator serving cfg's account.
// The caller must call Close.
func NewServer(cfg Config) *Server {
	h := NewHandler(cfg)
	return &Server{
		Server:  httptest.NewServer(h.Router()),
		Handler: h,
	}
}

// AuthURL returns the URL of the auth endpoint.
func (s *Server) AuthURL() string {
	return s.URL + "/auth/"
}

// StorageURL returns the storage base URL handed out at auth time.
func (s *Server) StorageURL() string {
	return s.URL + "/v1/"
}

// CreateContainer creates an empty private container.
func (s *Server) CreateContainer(name string) {
	s.store.CreateContainer(name, "")
}
