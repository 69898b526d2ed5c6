package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ResponseError is an HTTP-level failure. Payload is the parsed JSON body
// verbatim, or {"error": text} when the body was not JSON.
type ResponseError struct {
	Method      string
	URL         string
	Status      int
	JSON        bool
	ContentType string
	Payload     any
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, payloadSnippet(e.Payload))
}

// TransportError means the request never completed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the server declared JSON but sent something else.
type DecodeError struct {
	Method string
	URL    string
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: status %d: decode json body: %v", e.Method, e.URL, e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// FailurePayload returns what a rejected outcome surfaces to presentation.
func FailurePayload(err error) any {
	if err == nil {
		return nil
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Payload
	}
	return map[string]any{"error": err.Error()}
}

func payloadSnippet(payload any) string {
	var s string
	switch v := payload.(type) {
	case string:
		s = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprint(v)
		} else {
			s = string(raw)
		}
	}
	s = strings.TrimSpace(s)
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return s
}
