package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/chanlic/license-console/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpclient.NewRestyClient(httpclient.Options{}), srv.URL, nil)
}

func respond(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestFetchJSONResolvesParsedBodyUnchanged(t *testing.T) {
	const doc = `{"big":12345678901234567890,"devices":[{"id":1,"latest_license":null}],"ratio":1.5,"ok":true}`
	client := newTestClient(t, respond(http.StatusOK, "application/json; charset=utf-8", doc))

	env, err := client.FetchJSON(context.Background(), "/api/devices", nil)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if !env.JSON || env.Status != http.StatusOK {
		t.Fatalf("expected json envelope with status 200, got %+v", env)
	}

	var want any
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&want); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if !reflect.DeepEqual(env.Value, want) {
		t.Fatalf("value changed in transit:\n got %#v\nwant %#v", env.Value, want)
	}

	raw, err := json.Marshal(env.Value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"big":12345678901234567890`) {
		t.Fatalf("large integer lost precision: %s", raw)
	}
}

func TestFetchJSONRejectsWithJSONBodyOnFailureStatus(t *testing.T) {
	client := newTestClient(t, respond(http.StatusBadRequest, "application/json", `{"detail":"channel already exists: a"}`))

	_, err := client.FetchJSON(context.Background(), "/api/channels", &Options{Method: http.MethodPost})
	var re *ResponseError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResponseError, got %T %v", err, err)
	}
	if re.Status != http.StatusBadRequest || !re.JSON {
		t.Fatalf("unexpected error %+v", re)
	}
	want := map[string]any{"detail": "channel already exists: a"}
	if !reflect.DeepEqual(re.Payload, want) {
		t.Fatalf("payload = %#v, want %#v", re.Payload, want)
	}
	if !reflect.DeepEqual(FailurePayload(err), want) {
		t.Fatalf("FailurePayload did not surface the body verbatim")
	}
	if IsTransport(err) {
		t.Fatalf("http failure must not be classified as transport")
	}
}

func TestFetchJSONWrapsTextBodyOnFailureStatus(t *testing.T) {
	client := newTestClient(t, respond(http.StatusInternalServerError, "text/plain", "boom"))

	_, err := client.FetchJSON(context.Background(), "/api/init_db", &Options{Method: http.MethodPost})
	var re *ResponseError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResponseError, got %T %v", err, err)
	}
	if re.JSON {
		t.Fatalf("text failure flagged as json")
	}
	if !reflect.DeepEqual(re.Payload, map[string]any{"error": "boom"}) {
		t.Fatalf("payload = %#v", re.Payload)
	}
}

func TestFetchJSONResolvesTextBody(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, "text/plain; charset=utf-8", "ok"))

	env, err := client.FetchJSON(context.Background(), "/health", nil)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if env.JSON {
		t.Fatalf("text response flagged as json")
	}
	if env.Value != "ok" || env.Text() != "ok" {
		t.Fatalf("expected text ok, got %#v", env.Value)
	}
	if err := env.Decode(&struct{}{}); !errors.Is(err, ErrNotJSON) {
		t.Fatalf("expected ErrNotJSON decoding text envelope, got %v", err)
	}
}

func TestFetchJSONMissingContentTypeIsText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = io.WriteString(w, `{"looks":"like json"}`)
	})

	env, err := client.FetchJSON(context.Background(), "/x", nil)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if env.JSON {
		t.Fatalf("body must not be parsed without a json content type")
	}
}

func TestFetchJSONTransportFailureSkipsParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := New(httpclient.NewRestyClient(httpclient.Options{}), base, nil)
	_, err := client.FetchJSON(context.Background(), "/api/channels", nil)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var te *TransportError
	if !errors.As(err, &te) || !IsTransport(err) {
		t.Fatalf("expected *TransportError, got %T %v", err, err)
	}
	if te.Err == nil || errors.Unwrap(err) == nil {
		t.Fatalf("transport error must carry the underlying cause")
	}
	var re *ResponseError
	if errors.As(err, &re) {
		t.Fatalf("transport failure must not look like an http failure")
	}
	payload, ok := FailurePayload(err).(map[string]any)
	if !ok || payload["error"] == "" {
		t.Fatalf("unexpected failure payload %#v", FailurePayload(err))
	}
}

func TestFetchJSONInvalidJSONBody(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, "application/json", `{"a":`))

	_, err := client.FetchJSON(context.Background(), "/x", nil)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T %v", err, err)
	}
}

type fakeHTTP struct {
	req  httpclient.Request
	resp httpclient.Response
	err  error
}

func (f *fakeHTTP) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	f.req = req
	return f.resp, f.err
}

type fakeResponse struct {
	status int
	header http.Header
	body   string
}

func (r fakeResponse) Body() []byte        { return []byte(r.body) }
func (r fakeResponse) StatusCode() int     { return r.status }
func (r fakeResponse) Header() http.Header { return r.header }

func TestFetchJSONEncodesBodyAndHeaders(t *testing.T) {
	fake := &fakeHTTP{resp: fakeResponse{status: 200, header: http.Header{}, body: ""}}
	client := New(fake, "http://licenses.local/", nil)

	_, err := client.FetchJSON(context.Background(), "api/channels", &Options{
		Method:  "post",
		Headers: map[string]string{"X-Trace": "t1"},
		Body:    map[string]any{"name": "alpha"},
	})
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if fake.req.Method != http.MethodPost {
		t.Fatalf("method not normalized: %s", fake.req.Method)
	}
	if fake.req.URL != "http://licenses.local/api/channels" {
		t.Fatalf("unexpected url %s", fake.req.URL)
	}
	if string(fake.req.Body) != `{"name":"alpha"}` {
		t.Fatalf("unexpected body %s", fake.req.Body)
	}
	if fake.req.Headers["Content-Type"] != "application/json" {
		t.Fatalf("json content type not set: %#v", fake.req.Headers)
	}
	if fake.req.Headers["X-Trace"] != "t1" || fake.req.Headers[requestIDHeader] == "" {
		t.Fatalf("headers not forwarded: %#v", fake.req.Headers)
	}
}

func TestFetchJSONKeepsCallerContentTypeAndRawBody(t *testing.T) {
	fake := &fakeHTTP{resp: fakeResponse{status: 204, header: http.Header{}}}
	client := New(fake, "http://licenses.local", nil)

	_, err := client.FetchJSON(context.Background(), "http://other.local/raw", &Options{
		Method:  http.MethodPut,
		Headers: map[string]string{"content-type": "text/csv"},
		Body:    "a,b\n",
	})
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if fake.req.URL != "http://other.local/raw" {
		t.Fatalf("absolute url rewritten: %s", fake.req.URL)
	}
	if string(fake.req.Body) != "a,b\n" {
		t.Fatalf("string body altered: %q", fake.req.Body)
	}
	if _, ok := fake.req.Headers["Content-Type"]; ok {
		t.Fatalf("caller content type overridden: %#v", fake.req.Headers)
	}
}

func TestEnvelopeDecode(t *testing.T) {
	fake := &fakeHTTP{resp: fakeResponse{
		status: 200,
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   `{"channels":[{"id":3,"name":"beta","max_devices":5}]}`,
	}}
	client := New(fake, "http://licenses.local", nil)

	env, err := client.FetchJSON(context.Background(), "/api/channels", nil)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	var out struct {
		Channels []struct {
			ID         int64  `json:"id"`
			Name       string `json:"name"`
			MaxDevices int    `json:"max_devices"`
		} `json:"channels"`
	}
	if err := env.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out.Channels) != 1 || out.Channels[0].ID != 3 || out.Channels[0].MaxDevices != 5 {
		t.Fatalf("unexpected decode %+v", out)
	}
}
