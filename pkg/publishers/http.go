package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chanlic/license-console/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerAuditEventID   = "X-Audit-Event-ID"
	headerAuditAction    = "X-Audit-Action"

	maxErrorBody = 512
)

// httpPublisher posts each audit event as JSON to a webhook. The event id is
// sent as the idempotency key so a receiver can drop redelivered events.
type httpPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	log = orDiscard(log)
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second

	return &httpPublisher{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: httpclient.NewRestyHTTPClient(timeout, restyLogger{publisherID: cfg.ID, log: log}),
		log:    log,
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.cfg.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerIdempotencyKey, evt.ID).
		SetHeader(headerAuditEventID, evt.ID).
		SetHeader(headerAuditAction, evt.Action).
		SetBody(evt)

	resp, err := req.Execute(h.cfg.Method, h.cfg.URL)
	if err != nil {
		return fmt.Errorf("deliver audit event %s: %w", evt.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("audit sink answered %d for event %s: %s", resp.StatusCode(), evt.ID, errorBody(resp.Body()))
	}
	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"action":       evt.Action,
		"status":       resp.StatusCode(),
	})
	return nil
}

func errorBody(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}
