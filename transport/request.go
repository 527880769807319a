package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// Request accumulates the configuration of a single HTTP call.
// It is consumed by Client.Execute and cannot be sent twice.
type Request struct {
	url      string
	query    []Param
	headers  []Header
	method   Method
	content  url.Values
	file     string
	decoding Decoding

	err  error
	sent bool
}

// Build creates a Request for rawURL. The JSON decoding mode also asks the
// server for JSON output by prepending format=json to the query.
func Build(rawURL string, query []Param, decoding Decoding) *Request {
	r := &Request{
		url:      rawURL,
		method:   MethodGet,
		decoding: decoding,
	}

	if decoding == DecodeJSON {
		r.query = append(r.query, Param{Key: "format", Value: "json"})
	}
	r.query = append(r.query, query...)

	return r
}

// SetHeaders appends headers in the given order.
func (r *Request) SetHeaders(headers ...Header) *Request {
	r.headers = append(r.headers, headers...)
	return r
}

// SetHeader appends a single header.
func (r *Request) SetHeader(name, value string) *Request {
	return r.SetHeaders(Header{Name: name, Value: value})
}

// SetMethod sets the HTTP verb. An unsupported verb is recorded as an
// ErrConfiguration error, reported by Err and by Execute before any I/O.
func (r *Request) SetMethod(m Method) *Request {
	if !m.IsValid() {
		if r.err == nil {
			r.err = fmt.Errorf("%w: method %q is not supported", ErrConfiguration, string(m))
		}
		return r
	}
	r.method = m
	return r
}

// SetContent sets the form fields sent with POST and PURGE requests.
func (r *Request) SetContent(content url.Values) *Request {
	r.content = content
	return r
}

// SetFile registers a local file streamed as the body of a PUT request.
func (r *Request) SetFile(path string) *Request {
	r.file = path
	return r
}

// Err returns the first configuration error recorded on the request.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) Method() Method {
	return r.method
}

func (r *Request) Decoding() Decoding {
	return r.decoding
}

// URL returns the target URL with the query string applied.
func (r *Request) URL() string {
	q := encodeQuery(r.query)
	if q == "" {
		return r.url
	}
	sep := "?"
	if strings.Contains(r.url, "?") {
		sep = "&"
	}
	return r.url + sep + q
}

func encodeQuery(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
