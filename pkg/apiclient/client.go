package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chanlic/license-console/pkg/httpclient"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Options are the per-call request options. Body may be nil, []byte or string
// (sent verbatim) or any other value, which is JSON-encoded.
type Options struct {
	Method  string
	Headers map[string]string
	Body    any
}

// Client performs single best-effort requests against the admin API and
// normalizes every response into an Envelope or a typed error.
type Client struct {
	http    httpclient.Client
	baseURL string
	log     Logger
}

// New builds a Client. baseURL is prepended to relative paths.
func New(client httpclient.Client, baseURL string, log Logger) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{})
	}
	return &Client{
		http:    client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     ensureLogger(log),
	}
}

// FetchJSON issues one request and resolves it by the response content type:
// JSON bodies are parsed, anything else is returned as text. Non-2xx statuses
// reject with *ResponseError; a request that never completed rejects with
// *TransportError.
func (c *Client) FetchJSON(ctx context.Context, path string, opts *Options) (Envelope, error) {
	if opts == nil {
		opts = &Options{}
	}
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	target := c.resolve(path)

	headers := make(map[string]string, len(opts.Headers)+2)
	for k, v := range opts.Headers {
		headers[k] = v
	}
	body, err := encodeBody(opts.Body, headers)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s: encode request body: %w", method, target, err)
	}
	if _, ok := headers[requestIDHeader]; !ok {
		headers[requestIDHeader] = uuid.NewString()
	}

	c.log.DebugObj("api request", "api_request", map[string]any{
		"method":     method,
		"url":        target,
		"request_id": headers[requestIDHeader],
	})

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		c.log.WarnObj("api request failed", "api_transport_error", map[string]any{
			"method": method,
			"url":    target,
			"error":  err.Error(),
		})
		return Envelope{}, &TransportError{Method: method, URL: target, Err: err}
	}

	return c.interpret(method, target, resp)
}

func (c *Client) interpret(method, target string, resp httpclient.Response) (Envelope, error) {
	status := resp.StatusCode()
	ok := status >= 200 && status < 300

	c.log.DebugObj("api response", "api_response", map[string]any{
		"method": method,
		"url":    target,
		"status": status,
	})

	contentType := resp.Header().Get("Content-Type")
	if isJSONContentType(contentType) {
		value, err := decodeJSON(resp.Body())
		if err != nil {
			return Envelope{}, &DecodeError{Method: method, URL: target, Status: status, Err: err}
		}
		if !ok {
			return Envelope{}, &ResponseError{Method: method, URL: target, Status: status, JSON: true, ContentType: contentType, Payload: value}
		}
		return Envelope{JSON: true, Status: status, ContentType: contentType, Value: value}, nil
	}

	text := string(resp.Body())
	if !ok {
		return Envelope{}, &ResponseError{
			Method:      method,
			URL:         target,
			Status:      status,
			ContentType: contentType,
			Payload:     map[string]any{"error": text},
		}
	}
	return Envelope{Status: status, ContentType: contentType, Value: text}, nil
}

func (c *Client) resolve(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func encodeBody(body any, headers map[string]string) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if !hasHeader(headers, "Content-Type") {
			headers["Content-Type"] = "application/json"
		}
		return raw, nil
	}
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
