package storage

import (
	"sync"
	"time"
)

type memoryEntry struct {
	result    Result
	expiresAt time.Time
}

// memoryStore keeps results for the lifetime of the process.
type memoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{ttl: opts.ResultTTL, entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Put(panel, text string) error {
	now := time.Now()
	m.mu.Lock()
	m.entries[panel] = memoryEntry{
		result:    Result{Panel: panel, Text: text, UpdatedAt: now.UTC()},
		expiresAt: now.Add(m.ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Get(panel string) (Result, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[panel]
	m.mu.RUnlock()
	if !ok || !entry.expiresAt.After(time.Now()) {
		return Result{}, false, nil
	}
	return entry.result, true, nil
}

func (m *memoryStore) Delete(panel string) error {
	m.mu.Lock()
	delete(m.entries, panel)
	m.mu.Unlock()
	return nil
}
