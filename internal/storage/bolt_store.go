package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	resultBucket     = "results"
	metaBucket       = "meta"
	lastCleanupKey   = "last_cleanup"
	expiryValueBytes = 8

	// lockTimeout bounds the wait for another process's write to finish.
	lockTimeout = 30 * time.Second
)

// boltStore implements a Store backed by BoltDB. Values are an 8-byte
// big-endian expiry followed by the JSON-encoded Result.
//
// The file is opened for each operation and closed right after, so
// overlapping processes only contend for the duration of a single write.
type boltStore struct {
	path            string
	resultTTL       time.Duration
	cleanupInterval time.Duration
}

// openBolt prepares the file and its buckets; the handle is not kept.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	store := &boltStore{
		path:            path,
		resultTTL:       opts.ResultTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	err := store.update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(resultBucket)); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		if meta.Get([]byte(lastCleanupKey)) == nil {
			return meta.Put([]byte(lastCleanupKey), encodeUnix(time.Now()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return store, nil
}

// update runs fn in a write transaction on a freshly opened handle.
func (b *boltStore) update(fn func(tx *bolt.Tx) error) error {
	db, err := bolt.Open(b.path, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(fn); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

// Close is a no-op; no handle outlives an operation.
func (b *boltStore) Close() error { return nil }

// Put replaces the stored result of panel.
func (b *boltStore) Put(panel, text string) error {
	now := time.Now()
	payload, err := json.Marshal(Result{Panel: panel, Text: text, UpdatedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	buf := make([]byte, 0, expiryValueBytes+len(payload))
	buf = append(buf, encodeUnix(now.Add(b.resultTTL))...)
	buf = append(buf, payload...)

	return b.update(func(tx *bolt.Tx) error {
		bucket, err := buckets(tx)
		if err != nil {
			return err
		}
		if err := b.sweep(tx, bucket, now); err != nil {
			return err
		}
		return bucket.Put([]byte(panel), buf)
	})
}

// Get returns the live result of panel; expired entries are removed on read.
func (b *boltStore) Get(panel string) (Result, bool, error) {
	var (
		out   Result
		found bool
	)
	now := time.Now()
	err := b.update(func(tx *bolt.Tx) error {
		bucket, err := buckets(tx)
		if err != nil {
			return err
		}
		if err := b.sweep(tx, bucket, now); err != nil {
			return err
		}

		key := []byte(panel)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}
		expiry, ok := decodeUnix(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}
		if err := json.Unmarshal(value[expiryValueBytes:], &out); err != nil {
			return fmt.Errorf("decode result %q: %w", panel, err)
		}
		found = true
		return nil
	})
	return out, found, err
}

// Delete removes the stored result of panel.
func (b *boltStore) Delete(panel string) error {
	return b.update(func(tx *bolt.Tx) error {
		bucket, err := buckets(tx)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(panel))
	})
}

func buckets(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(resultBucket))
	if bucket == nil {
		return nil, fmt.Errorf("result bucket missing")
	}
	return bucket, nil
}

// sweep removes expired results once per cleanup interval. The last sweep
// time lives in the file so short-lived processes share the cadence.
func (b *boltStore) sweep(tx *bolt.Tx, bucket *bolt.Bucket, now time.Time) error {
	meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
	if err != nil {
		return err
	}
	if last, ok := decodeUnix(meta.Get([]byte(lastCleanupKey))); ok && now.Sub(last) < b.cleanupInterval {
		return nil
	}

	var expired [][]byte
	err = bucket.ForEach(func(k, v []byte) error {
		if expiry, ok := decodeUnix(v); !ok || !expiry.After(now) {
			expired = append(expired, append([]byte(nil), k...))
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range expired {
		if err := bucket.Delete(k); err != nil {
			return err
		}
	}
	return meta.Put([]byte(lastCleanupKey), encodeUnix(now))
}

func encodeUnix(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

// decodeUnix decodes an 8-byte big-endian unix timestamp prefix.
func decodeUnix(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
