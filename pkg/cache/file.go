package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries as JSON files under a directory. It is the CLI
// default and is not shared between hosts.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir, creating the directory if
// needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get reads key from disk. Corrupt and expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes key to disk.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0644)
}

// Delete removes key from disk.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Stats walks the cache directory and counts live and expired entries.
func (c *FileCache) Stats() (Stats, error) {
	var s Stats
	now := time.Now()
	err := c.walk(func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) != nil || entry.expired(now) {
			s.Expired++
			return nil
		}
		s.Entries++
		s.Bytes += int64(len(entry.Data))
		return nil
	})
	return s, err
}

// Prune removes expired and corrupt entries and returns how many were deleted.
func (c *FileCache) Prune() (int, error) {
	removed := 0
	now := time.Now()
	err := c.walk(func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) == nil && !entry.expired(now) {
			return nil
		}
		removed++
		return os.Remove(path)
	})
	return removed, err
}

// Clear removes every entry.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// Stats summarizes a file cache.
type Stats struct {
	Entries int
	Expired int
	Bytes   int64
}

func (c *FileCache) walk(fn func(path string) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		return fn(path)
	})
}

// path maps key to <dir>/<first two hash chars>/<rest>.json so no single
// directory grows too large.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
