package console

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chanlic/license-console/pkg/apiclient"
)

func TestPrettyIndentsStructuredValues(t *testing.T) {
	got := Pretty(map[string]any{"devices": []any{}, "note": "<ok>", "n": json.Number("12345678901234567890")})
	want := "{\n  \"devices\": [],\n  \"n\": 12345678901234567890,\n  \"note\": \"<ok>\"\n}"
	if got != want {
		t.Fatalf("Pretty =\n%s\nwant\n%s", got, want)
	}
	if Pretty("plain") != "plain" {
		t.Fatalf("strings should render verbatim")
	}
	if Pretty(nil) != "null" {
		t.Fatalf("nil should render as null, got %q", Pretty(nil))
	}
}

func TestRenderEnvelopeReducesHTML(t *testing.T) {
	env := apiclient.Envelope{
		Status:      200,
		ContentType: "text/html; charset=utf-8",
		Value: `<html><head><title>Maintenance</title><style>h1{}</style></head>
<body><h1>Maintenance</h1><p>Back   in
 five minutes.</p><script>alert(1)</script></body></html>`,
	}
	got := RenderEnvelope(env)
	if got != "Maintenance\nBack in five minutes." {
		t.Fatalf("unexpected text %q", got)
	}

	plain := apiclient.Envelope{Status: 200, ContentType: "text/plain", Value: "<b>kept</b>"}
	if RenderEnvelope(plain) != "<b>kept</b>" {
		t.Fatalf("plain text must not be parsed as html")
	}
}

func TestRenderFailure(t *testing.T) {
	ve := &apiclient.ValidationError{Op: "create channel", Reason: "name is required"}
	if got := RenderFailure(ve); got != "name is required" {
		t.Fatalf("validation failure = %q", got)
	}

	re := &apiclient.ResponseError{
		Status:      502,
		ContentType: "text/html",
		Payload:     map[string]any{"error": "<html><body><h1>502 Bad Gateway</h1><hr><center>nginx</center></body></html>"},
	}
	got := RenderFailure(re)
	if !strings.Contains(got, `"error": "502 Bad Gateway\nnginx"`) {
		t.Fatalf("html failure not reduced: %s", got)
	}

	transport := &apiclient.TransportError{Method: "GET", URL: "http://x", Err: errors.New("connection refused")}
	if got := RenderFailure(transport); !strings.Contains(got, "connection refused") {
		t.Fatalf("transport failure = %s", got)
	}
}
