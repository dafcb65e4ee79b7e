package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultTimeout bounds how long Open waits for the database file lock.
const DefaultTimeout = 10 * time.Second

// Manager provides the main cache interface
type Manager struct {
	db       *bolt.DB
	store    *Store
	basePath string
	cacheID  string

	hits   atomic.Int64
	misses atomic.Int64
}

// Open opens or creates a cache at the given path. A non-positive timeout
// uses DefaultTimeout.
func Open(basePath string, timeout time.Duration) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := &bolt.Options{
		Timeout:      timeout,
		FreelistType: bolt.FreelistArrayType,
	}

	dbPath := filepath.Join(basePath, "meta.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	store, err := NewStore(filepath.Join(basePath, "store"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	m := &Manager{
		db:       db,
		store:    store,
		basePath: basePath,
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

// Close closes the cache
func (m *Manager) Close() error {
	if m.store != nil {
		_ = m.store.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// initSchema creates all buckets if they don't exist
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		if meta.Get([]byte(KeySchemaVersion)) == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			if err := meta.Put([]byte(KeySchemaVersion), v); err != nil {
				return err
			}
		}

		return nil
	})
}

// VerifyCacheID reports whether the stored cache ID differs from expectedID.
// The builder derives the ID from the engine script, so a new engine
// invalidates every artifact.
func (m *Manager) VerifyCacheID(expectedID string) (needsRebuild bool, err error) {
	var storedID []byte
	err = m.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(BucketMeta))
		if v := meta.Get([]byte(KeyCacheID)); v != nil {
			storedID = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	m.cacheID = expectedID
	return storedID == nil || string(storedID) != expectedID, nil
}

// SetCacheID updates the cache ID
func (m *Manager) SetCacheID(id string) error {
	m.cacheID = id
	return m.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(BucketMeta))
		return meta.Put([]byte(KeyCacheID), []byte(id))
	})
}

// Store returns the underlying content store
func (m *Manager) Store() *Store {
	return m.store
}

// Clear drops every artifact and blob. The cache ID and schema version are
// kept.
func (m *Manager) Clear() error {
	err := m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketSVG, BucketStats} {
			if err := tx.DeleteBucket([]byte(name)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear buckets: %w", err)
	}

	if err := os.RemoveAll(filepath.Join(m.store.basePath, CategorySVG)); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// IncrementBuildCount records one more completed build.
func (m *Manager) IncrementBuildCount() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketStats))
		var count uint32
		if v := bucket.Get([]byte(KeyBuildCount)); len(v) == 4 {
			count = binary.BigEndian.Uint32(v)
		}
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, count+1)
		return bucket.Put([]byte(KeyBuildCount), v)
	})
}

// Stats reports artifact counts and blob usage.
func (m *Manager) Stats() (*Stats, error) {
	stats := &Stats{}
	err := m.db.View(func(tx *bolt.Tx) error {
		stats.Artifacts = tx.Bucket([]byte(BucketSVG)).Stats().KeyN

		if v := tx.Bucket([]byte(BucketStats)).Get([]byte(KeyBuildCount)); len(v) == 4 {
			stats.BuildCount = int(binary.BigEndian.Uint32(v))
		}
		if v := tx.Bucket([]byte(BucketMeta)).Get([]byte(KeySchemaVersion)); len(v) == 4 {
			stats.SchemaVersion = int(binary.BigEndian.Uint32(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	size, err := m.store.Size(CategorySVG)
	if err != nil {
		return nil, err
	}
	stats.StoreBytes = size
	return stats, nil
}

// Hits and Misses count GetSVG lookups since Open.
func (m *Manager) Hits() int64   { return m.hits.Load() }
func (m *Manager) Misses() int64 { return m.misses.Load() }
