package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client executes Requests.
type Client struct {
	doer    Doer
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.doer = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request counts and latencies on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		doer:   &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Execute sends req and returns the parsed response. A request can be
// executed only once.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Err(); err != nil {
		return nil, err
	}
	if req.sent {
		return nil, fmt.Errorf("%w: request already sent", ErrConfiguration)
	}
	req.sent = true

	httpReq, closeBody, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	defer closeBody()

	start := time.Now()
	resp, err := c.doer.Do(httpReq)
	if err != nil {
		c.metrics.observeFailure(req.method)
		return nil, fmt.Errorf("%w: do request: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, headerSize, err := readWire(resp)
	if err != nil {
		c.metrics.observeFailure(req.method)
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	elapsed := time.Since(start)
	c.metrics.observe(req.method, resp.StatusCode, elapsed)
	c.logger.Debug("storage request",
		"method", string(req.method),
		"url", httpReq.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	return NewResponse(resp.StatusCode, payload, headerSize, req.decoding), nil
}

// newHTTPRequest encodes the body according to the method. The returned
// close function releases any file opened for the body.
func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, func(), error) {
	var (
		body          io.Reader = http.NoBody
		contentLength int64
		contentType   string
		closeBody     = func() {}
	)

	switch req.method {
	case MethodPost:
		encoded := req.content.Encode()
		body = strings.NewReader(encoded)
		contentLength = int64(len(encoded))
		contentType = "application/x-www-form-urlencoded"

	case MethodPut:
		if req.file != "" {
			file, err := os.Open(req.file) //#nosec G304 -- file path is supplied by the caller
			if err != nil {
				return nil, nil, fmt.Errorf("%w: open file: %w", ErrTransport, err)
			}
			info, err := file.Stat()
			if err != nil {
				_ = file.Close()
				return nil, nil, fmt.Errorf("%w: stat file: %w", ErrTransport, err)
			}
			body = file
			contentLength = info.Size()
			closeBody = func() { _ = file.Close() }
		}

	case MethodPurge:
		if len(req.content) > 0 {
			encoded := req.content.Encode()
			body = strings.NewReader(encoded)
			contentLength = int64(len(encoded))
			contentType = "application/x-www-form-urlencoded"
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.method), req.URL(), body)
	if err != nil {
		closeBody()
		return nil, nil, fmt.Errorf("%w: create request: %w", ErrConfiguration, err)
	}
	httpReq.ContentLength = contentLength
	if contentLength == 0 {
		httpReq.Body = http.NoBody
		httpReq.GetBody = nil
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for _, h := range req.headers {
		httpReq.Header.Add(h.Name, h.Value)
	}

	return httpReq, closeBody, nil
}

// readWire renders resp back into its wire form: status line, header block
// and body. It returns the payload and the length of the header block.
func readWire(resp *http.Response) ([]byte, int, error) {
	var buf bytes.Buffer

	_, _ = fmt.Fprintf(&buf, "HTTP/%d.%d %s\r\n", resp.ProtoMajor, resp.ProtoMinor, resp.Status)
	if err := resp.Header.Write(&buf); err != nil {
		return nil, 0, fmt.Errorf("write headers: %w", err)
	}
	buf.WriteString("\r\n")
	headerSize := buf.Len()

	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, 0, err
	}

	return buf.Bytes(), headerSize, nil
}
