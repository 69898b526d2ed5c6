package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotJSON is returned when a text envelope is decoded as JSON.
var ErrNotJSON = errors.New("response was not declared as json")

// Envelope is a resolved response: the decoded JSON value when the server
// declared application/json, the raw text otherwise.
type Envelope struct {
	JSON        bool
	Status      int
	ContentType string
	Value       any
}

// Text returns the body of a text envelope, or "" for JSON envelopes.
func (e Envelope) Text() string {
	if e.JSON {
		return ""
	}
	s, _ := e.Value.(string)
	return s
}

// Decode re-encodes the JSON value into v.
func (e Envelope) Decode(v any) error {
	if !e.JSON {
		return ErrNotJSON
	}
	raw, err := json.Marshal(e.Value)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	return nil
}

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "application/json")
}

// decodeJSON parses a single JSON document, keeping numbers exact.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level json value")
	}
	return v, nil
}
