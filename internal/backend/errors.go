package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind classifies upstream failures.
type Kind int

const (
	// KindTransport covers dial, TLS, timeout and cancellation failures.
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx response, optionally carrying a server-supplied message.
	KindStatus
	// KindMalformed is a 2xx response whose body could not be decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error describes an upstream failure. Empty results are never reported as errors.
type Error struct {
	Kind     Kind
	Endpoint string
	Status   int
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "backend: <nil>"
	}
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("backend: %s returned status %d: %s", e.Endpoint, e.Status, e.Message)
		}
		return fmt.Sprintf("backend: %s returned status %d", e.Endpoint, e.Status)
	default:
		return fmt.Sprintf("backend: %s %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Malformed wraps a decoding failure for the given endpoint.
func Malformed(endpoint string, err error) *Error {
	return &Error{Kind: KindMalformed, Endpoint: endpoint, Err: err}
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

const (
	msgTransport = "We couldn't reach the store. Check your connection and try again."
	msgMalformed = "The store sent an unexpected response. Please try again."
	msgGeneric   = "Something went wrong while loading. Please try again."
)

// UserMessage converts any upstream failure into the single string shown to shoppers.
// It returns "" for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if !errors.As(err, &be) {
		return msgGeneric
	}
	switch be.Kind {
	case KindTransport:
		return msgTransport
	case KindStatus:
		if be.Message != "" {
			return be.Message
		}
		if text := http.StatusText(be.Status); text != "" {
			return fmt.Sprintf("The store responded with %d %s. Please try again.", be.Status, text)
		}
		return fmt.Sprintf("The store responded with status %d. Please try again.", be.Status)
	case KindMalformed:
		return msgMalformed
	default:
		return msgGeneric
	}
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func errorFromResponse(endpoint string, resp *http.Response) *Error {
	out := &Error{Kind: KindStatus, Endpoint: endpoint, Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		out.Message = strings.TrimSpace(payload.Message)
		if out.Message == "" {
			out.Message = strings.TrimSpace(payload.Error)
		}
	}
	return out
}
