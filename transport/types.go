package transport

import (
	"fmt"
	"strings"
)

// Method is an HTTP verb accepted by the storage API.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodHead   Method = "HEAD"
	MethodPurge  Method = "PURGE"
	MethodDelete Method = "DELETE"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodHead, MethodPurge, MethodDelete:
		return true
	default:
		return false
	}
}

// ParseMethod converts s to a Method, accepting any letter case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: method %q is not supported", ErrConfiguration, s)
	}
	return m, nil
}

// Decoding selects how a response body is decoded.
type Decoding int

const (
	// DecodeRaw keeps the body as bytes.
	DecodeRaw Decoding = iota
	// DecodeJSON parses the body as JSON and asks the server for JSON output.
	DecodeJSON
)

func (d Decoding) String() string {
	switch d {
	case DecodeJSON:
		return "json"
	default:
		return "raw"
	}
}

// Param is a single query string pair. Order is preserved on the wire.
type Param struct {
	Key   string
	Value string
}

// Header is a single request header. Order is preserved on the wire.
type Header struct {
	Name  string
	Value string
}
