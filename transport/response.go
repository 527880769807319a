package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

const headerDelimiter = ": "

// ContentDecoder turns a raw response body into the value returned by
// Response.Content.
type ContentDecoder interface {
	Decode(body []byte) any
}

type rawDecoder struct{}

func (rawDecoder) Decode(body []byte) any {
	return body
}

type jsonDecoder struct{}

// Decode returns nil when the body is not valid JSON.
func (jsonDecoder) Decode(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v
}

func decoderFor(d Decoding) ContentDecoder {
	switch d {
	case DecodeJSON:
		return jsonDecoder{}
	default:
		return rawDecoder{}
	}
}

// Response is an immutable view of one HTTP reply.
type Response struct {
	code     int
	headers  map[string]string
	body     []byte
	content  any
	decoding Decoding
}

// NewResponse builds a Response from the raw wire payload. The first
// headerSize bytes are the header block (status line included); the rest is
// the body, decoded according to decoding.
func NewResponse(code int, payload []byte, headerSize int, decoding Decoding) *Response {
	headerSize = max(0, min(headerSize, len(payload)))

	body := payload[headerSize:]
	return &Response{
		code:     code,
		headers:  parseHeaders(payload[:headerSize]),
		body:     body,
		content:  decoderFor(decoding).Decode(body),
		decoding: decoding,
	}
}

// parseHeaders drops the status line and splits every remaining non-blank
// line on the first ": ". Lines without the delimiter are skipped.
func parseHeaders(block []byte) map[string]string {
	headers := make(map[string]string)

	lines := strings.Split(string(block), "\r\n")
	if len(lines) == 0 {
		return headers
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, headerDelimiter)
		if !ok {
			continue
		}
		headers[name] = value
	}

	return headers
}

// Header returns the value of the named header. Names are case-sensitive.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// Headers returns a copy of all parsed headers.
func (r *Response) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// Code returns the HTTP status code.
func (r *Response) Code() int {
	return r.code
}

// Content returns the decoded body: []byte for DecodeRaw, the generic JSON
// value for DecodeJSON (nil when the body was not valid JSON).
func (r *Response) Content() any {
	return r.content
}

// Raw returns the undecoded body bytes.
func (r *Response) Raw() []byte {
	return bytes.Clone(r.body)
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
