// Package storage keeps the last rendered result of each console panel.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Result is the stored text of one panel.
type Result struct {
	Panel     string    `json:"panel"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store holds one result per panel; the most recent Put wins.
type Store interface {
	Close() error
	Put(panel, text string) error
	Get(panel string) (Result, bool, error)
	Delete(panel string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultResultTTL       = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = defaultResultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) Put(string, string) error         { return nil }
func (noopStore) Get(string) (Result, bool, error) { return Result{}, false, nil }
func (noopStore) Delete(string) error              { return nil }
