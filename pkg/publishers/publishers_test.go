package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestPublisherConfigValidateRejectsMissingHTTP(t *testing.T) {
	err := PublisherConfig{ID: "h1", Type: TypeHTTP}.validate()
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadConfigCloudSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[
  {"id":" topic ","type":"SNS","sns":{"topic_arn":"arn:aws:sns:eu-west-1:1:audit","region":"eu-west-1"}},
  {"id":"pubsub","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"audit","endpoint":"localhost:8085"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok || cfg.Type != TypeSNS {
		t.Fatalf("expected sanitized sns entry, got %#v", cfg)
	}
	if len(reg.Enabled()) != 2 {
		t.Fatalf("entries should default to enabled")
	}
}

func TestPublisherConfigValidateCloudSinks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSNS},
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		{ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "us-east-1"}},
	}
	for _, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestLoadConfigInlineAWSAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yml")
	raw := `
publishers:
  - id: localstack
    type: sqs
    sqs:
      uri: http://localhost:4566/000000000000/audit
      region: us-east-1
      endpoint: " http://localhost:4566 "
      access_key_id: test
      secret_access_key: test
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, _ := reg.ByID("localstack")
	if err := cfg.validate(); err != nil {
		t.Fatalf("loaded config should stay valid: %v", err)
	}
	if cfg.SQS.Endpoint != "http://localhost:4566" || cfg.SQS.AccessKeyID != "test" {
		t.Fatalf("aws access not parsed: %#v", cfg.SQS)
	}
}

func TestLoadConfigActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: deletions
    type: http
    actions: [DELETE_CHANNEL, delete_device, delete_channel]
    http:
      url: https://example.com/deletions
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, ok := reg.ByID("deletions")
	if !ok {
		t.Fatalf("deletions publisher missing")
	}
	if len(cfg.Actions) != 2 || cfg.Actions[0] != "delete_channel" || cfg.Actions[1] != "delete_device" {
		t.Fatalf("actions = %v", cfg.Actions)
	}
}

func TestLoadConfigRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.conf")
	raw := `{"publishers":[
  {"id":"hook","type":"http","http":{"url":"https://a.example"}},
  {"id":" hook ","type":"http","http":{"url":"https://b.example"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestPublisherConfigValidateNamesMissingField(t *testing.T) {
	err := PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}}.validate()
	if err == nil || err.Error() != `sqs.region is required for publisher "q"` {
		t.Fatalf("unexpected error %v", err)
	}
}
