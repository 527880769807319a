// Package auth manages the authentication handshake with the storage service.
//
// A Session holds the login credentials and, on first use, exchanges them for a
// bearer token, the token's declared lifetime and the base URL of the storage
// API. The result is cached for the life of the Session; tokens are never
// refreshed automatically.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sagarc03/selcdn/transport"
)

// DefaultAuthURL is the Selectel authentication endpoint.
const DefaultAuthURL = "https://auth.selcdn.ru/"

const (
	HeaderAuthUser    = "X-Auth-User"
	HeaderAuthKey     = "X-Auth-Key"
	HeaderAuthToken   = "X-Auth-Token"
	HeaderTokenExpiry = "X-Expire-Auth-Token"
	HeaderStorageURL  = "X-Storage-Url"
)

// ErrAuthentication is returned when the service rejects the credentials.
var ErrAuthentication = errors.New("authentication failed")

// Credentials identify a storage account.
type Credentials struct {
	Login    string
	Password string
}

// Session lazily authenticates and caches the result.
// It is safe for concurrent use; concurrent first callers share one handshake.
type Session struct {
	credentials Credentials
	authURL     string
	client      *transport.Client

	group singleflight.Group

	mu         sync.RWMutex
	token      string
	expiry     int
	storageURL string
	authorized bool
}

// Option configures a Session.
type Option func(*Session)

// WithAuthURL overrides the authentication endpoint.
func WithAuthURL(url string) Option {
	return func(s *Session) {
		s.authURL = url
	}
}

// WithClient sets the transport client used for the handshake.
func WithClient(client *transport.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// New creates an unauthenticated Session.
func New(login, password string, opts ...Option) *Session {
	s := &Session{
		credentials: Credentials{Login: login, Password: password},
		authURL:     DefaultAuthURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = transport.NewClient()
	}

	return s
}

// Token returns the bearer token, authenticating on the first call.
// Concurrent first callers share one handshake, which runs detached from
// their cancellation; bound it with the transport client's timeout.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.authorized {
		token := s.token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.group.Do("auth", func() (any, error) {
		s.mu.RLock()
		if s.authorized {
			token := s.token
			s.mu.RUnlock()
			return token, nil
		}
		s.mu.RUnlock()

		return s.authenticate(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// StorageURL returns the storage base URL. It is empty until Token succeeds.
func (s *Session) StorageURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storageURL
}

// TokenExpiry returns the token lifetime in seconds declared by the service.
// It is zero until Token succeeds.
func (s *Session) TokenExpiry() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Authenticated reports whether the handshake has completed.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorized
}

// Login returns the account login.
func (s *Session) Login() string {
	return s.credentials.Login
}

func (s *Session) authenticate(ctx context.Context) (string, error) {
	req := transport.Build(s.authURL, nil, transport.DecodeRaw).
		SetHeaders(
			transport.Header{Name: HeaderAuthUser, Value: s.credentials.Login},
			transport.Header{Name: HeaderAuthKey, Value: s.credentials.Password},
		)

	resp, err := s.client.Execute(ctx, req)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if resp.Code() != http.StatusNoContent {
		return "", fmt.Errorf("%w: status %d", ErrAuthentication, resp.Code())
	}

	token, _ := resp.Header(HeaderAuthToken)
	expiryRaw, _ := resp.Header(HeaderTokenExpiry)
	storageURL, _ := resp.Header(HeaderStorageURL)

	if token == "" {
		return "", fmt.Errorf("%w: missing %s header", ErrAuthentication, HeaderAuthToken)
	}
	if storageURL == "" {
		return "", fmt.Errorf("%w: missing %s header", ErrAuthentication, HeaderStorageURL)
	}

	// A malformed expiry is kept as zero; the token itself is still usable.
	expiry, _ := strconv.Atoi(expiryRaw)

	s.mu.Lock()
	s.token = token
	s.expiry = expiry
	s.storageURL = storageURL
	s.authorized = true
	s.mu.Unlock()

	return token, nil
}
