package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chanlic/license-console/internal/config"
	"github.com/chanlic/license-console/internal/logger"
)

type request struct {
	method string
	uri    string
	body   string
}

func newBackend(t *testing.T, status int, body string) (string, *[]request) {
	t.Helper()
	var seen []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = append(seen, request{method: r.Method, uri: r.URL.RequestURI(), body: string(raw)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &seen
}

func execute(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{
		AppName:                "licensectl",
		APIBaseURL:             baseURL,
		APIPrefix:              "/api",
		StorageType:            "memory",
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
	var out bytes.Buffer
	c := newCLI(cfg, &logger.NopLogger{}, strings.NewReader(stdin), &out)
	t.Cleanup(c.close)

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDevicesCommand(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"devices":[]}`)

	out, err := execute(t, base, "", "devices", "--include-expired")
	if err != nil {
		t.Fatalf("devices: %v", err)
	}
	if out != "{\n  \"devices\": []\n}\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if (*seen)[0].uri != "/api/devices?include_expired=true" {
		t.Fatalf("unexpected request %+v", (*seen)[0])
	}
}

func TestRejectedCommandPrintsPayloadAndFails(t *testing.T) {
	base, _ := newBackend(t, http.StatusNotFound, `{"detail":"channel not found"}`)

	out, err := execute(t, base, "", "channel", "delete", "--name", "ghost")
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected errRejected, got %v", err)
	}
	if !strings.Contains(out, `"detail": "channel not found"`) {
		t.Fatalf("payload not printed: %q", out)
	}
}

func TestChannelEditSendsOnlyChangedFlags(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"success":true}`)

	if _, err := execute(t, base, "", "channel", "edit", "4", "--days", "90"); err != nil {
		t.Fatalf("channel edit: %v", err)
	}
	got := (*seen)[0]
	if got.method != http.MethodPut || got.uri != "/api/channels/4" || got.body != `{"license_duration_days":90}` {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestChannelAddAppliesDefaults(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"success":true}`)

	if _, err := execute(t, base, "", "channel", "add", "--name", "beta"); err != nil {
		t.Fatalf("channel add: %v", err)
	}
	want := `{"name":"beta","max_devices":1000,"license_duration_days":30,"description":null}`
	if (*seen)[0].body != want {
		t.Fatalf("body = %s, want %s", (*seen)[0].body, want)
	}
}

func TestDeviceDeletePrompts(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"success":true}`)

	out, err := execute(t, base, "n\n", "device", "delete", "--device-id", "dev-9", "--force")
	if err != nil || strings.TrimSpace(out) != "cancelled" || len(*seen) != 0 {
		t.Fatalf("declined prompt: out=%q err=%v requests=%d", out, err, len(*seen))
	}

	if _, err := execute(t, base, "y\n", "device", "delete", "--device-id", "dev-9", "--force"); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if _, err := execute(t, base, "", "device", "delete", "--id", "2", "--yes"); err != nil {
		t.Fatalf("--yes delete: %v", err)
	}
	if len(*seen) != 2 || (*seen)[0].uri != "/api/devices?device_id_str=dev-9&force=true" {
		t.Fatalf("unexpected requests %+v", *seen)
	}
}

func TestLicenseStatusCommand(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"success":true}`)

	if _, err := execute(t, base, "", "license", "status", "12", "revoked"); err != nil {
		t.Fatalf("license status: %v", err)
	}
	got := (*seen)[0]
	if got.method != http.MethodPatch || got.uri != "/api/licenses/12/status" || got.body != `{"new_status":"revoked"}` {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := execute(t, "http://127.0.0.1:1", "", "hash-password", "testpassword")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if strings.TrimSpace(out) != "9f735e0df9a1ddc702bf0a1a7b83033f9f7153a00c29de82cedadc9957289b05" {
		t.Fatalf("unexpected hash %q", out)
	}
}

func TestFetchCommand(t *testing.T) {
	base, seen := newBackend(t, http.StatusOK, `{"ok":true}`)

	out, err := execute(t, base, "", "fetch", "/api/anything", "-X", "post", "-d", `{"a":1}`)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(out, `"ok": true`) {
		t.Fatalf("unexpected output %q", out)
	}
	if got := (*seen)[0]; got.method != http.MethodPost || got.body != `{"a":1}` {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestClearCommand(t *testing.T) {
	out, err := execute(t, "http://127.0.0.1:1", "", "clear")
	if err != nil || strings.TrimSpace(out) != "not run" {
		t.Fatalf("clear: %q %v", out, err)
	}
}
