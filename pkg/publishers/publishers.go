package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
	TypeHTTP      = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one audit sink declared in the publishers file.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	Actions   []string                  `json:"actions" yaml:"actions"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL  string `json:"uri" yaml:"uri"`
	Region    string `json:"region" yaml:"region"`
	AWSAccess `yaml:",inline"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	Region    string `json:"region" yaml:"region"`
	AWSAccess `yaml:",inline"`
}

// AWSAccess optionally overrides the default credential chain and service
// endpoint, e.g. for LocalStack. Both keys must be set to take effect.
type AWSAccess struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings. Endpoint
// targets an emulator and disables authentication.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPPublisherConfig holds webhook settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigSet is the validated content of a publishers file. It is read-only
// after LoadConfig returns.
type ConfigSet struct {
	entries []PublisherConfig
	byID    map[string]int
}

// LoadConfig reads a YAML or JSON publishers file. The extension picks the
// decoder; an unknown extension tries YAML, then JSON.
func LoadConfig(path string) (*ConfigSet, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	entries, err := decodeEntries(raw, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	set := &ConfigSet{byID: make(map[string]int, len(entries))}
	for i, entry := range entries {
		cfg := entry.sanitized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := set.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		set.byID[cfg.ID] = len(set.entries)
		set.entries = append(set.entries, cfg)
	}
	return set, nil
}

func decodeEntries(raw []byte, ext string) ([]PublisherConfig, error) {
	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	case ".json":
		err = json.Unmarshal(raw, &file)
	default:
		if err = yaml.Unmarshal(raw, &file); err != nil {
			err = json.Unmarshal(raw, &file)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	return file.Publishers, nil
}

// ByID returns the sink config with the given id.
func (s *ConfigSet) ByID(id string) (PublisherConfig, bool) {
	if s == nil {
		return PublisherConfig{}, false
	}
	i, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return s.entries[i], true
}

// Enabled returns the enabled sink configs in file order.
func (s *ConfigSet) Enabled() []PublisherConfig {
	if s == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range s.entries {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg PublisherConfig) sanitized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	cfg.Actions = sanitizeActions(cfg.Actions)
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if cfg.SQS != nil {
		c := cfg.SQS.sanitized()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := cfg.SNS.sanitized()
		cfg.SNS = &c
	}
	if cfg.GCPPubSub != nil {
		c := cfg.GCPPubSub.sanitized()
		cfg.GCPPubSub = &c
	}
	if cfg.HTTP != nil {
		c := cfg.HTTP.sanitized()
		cfg.HTTP = &c
	}
	return cfg
}

// validate checks the block matching cfg.Type. Blocks for other types are
// ignored.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	var missing string
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		if cfg.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", cfg.ID)
		}
		missing = cfg.SQS.missing()
	case TypeSNS:
		if cfg.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", cfg.ID)
		}
		missing = cfg.SNS.missing()
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return fmt.Errorf("gcp_pubsub config required for publisher %q", cfg.ID)
		}
		missing = cfg.GCPPubSub.missing()
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		missing = cfg.HTTP.missing()
	}
	if missing != "" {
		return fmt.Errorf("%s.%s is required for publisher %q", cfg.Type, missing, cfg.ID)
	}
	return nil
}

func (c SQSPublisherConfig) sanitized() SQSPublisherConfig {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	c.AWSAccess = c.AWSAccess.sanitized()
	return c
}

func (c SQSPublisherConfig) missing() string {
	switch {
	case c.QueueURL == "":
		return "uri"
	case c.Region == "":
		return "region"
	}
	return ""
}

func (c SNSPublisherConfig) sanitized() SNSPublisherConfig {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	c.AWSAccess = c.AWSAccess.sanitized()
	return c
}

func (c SNSPublisherConfig) missing() string {
	switch {
	case c.TopicARN == "":
		return "topic_arn"
	case c.Region == "":
		return "region"
	}
	return ""
}

func (a AWSAccess) sanitized() AWSAccess {
	a.Endpoint = strings.TrimSpace(a.Endpoint)
	a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
	a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
	return a
}

func (c GCPPubSubPublisherConfig) sanitized() GCPPubSubPublisherConfig {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	return c
}

func (c GCPPubSubPublisherConfig) missing() string {
	switch {
	case c.ProjectID == "":
		return "project_id"
	case c.Topic == "":
		return "topic"
	}
	return ""
}

func (c HTTPPublisherConfig) sanitized() HTTPPublisherConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = httpDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
	return c
}

func (c HTTPPublisherConfig) missing() string {
	if c.URL == "" {
		return "url"
	}
	return ""
}

// sanitizeActions lowercases action names and drops blanks and repeats.
func sanitizeActions(actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	var out []string
	for _, a := range actions {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
