package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a disk-based store for measurement responses with TTL. Remote
// runs are slow and rate-limited, so repeated analyses of the same URL
// within the TTL reuse the stored result.
type Cache struct {
	baseDir string
	ttl     time.Duration
}

// Entry wraps a cached payload with its lifetime metadata.
type Entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// New creates a cache rooted at baseDir; an empty baseDir uses the default
// location under the user's home directory.
func New(baseDir string, ttl time.Duration) (*Cache, error) {
	if baseDir == "" {
		defaultDir, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		baseDir = defaultDir
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{
		baseDir: baseDir,
		ttl:     ttl,
	}, nil
}

// Key builds the cache key for one measurement: same URL, different
// strategy, different entry.
func Key(url, strategy string) string {
	return fmt.Sprintf("%s|%s", url, strategy)
}

// Get retrieves a cached value by key. A miss, an expired entry, or a
// corrupt file all return (false, nil); corrupt and expired files are
// removed on the way out.
func (c *Cache) Get(key string, value any) (bool, error) {
	cacheFile := c.filePath(key)

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(cacheFile)
		return false, nil
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(cacheFile)
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return true, nil
}

// Set stores a value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) error {
	cacheFile := c.filePath(key)

	if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	entry := Entry{
		Key:       key,
		Data:      data,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(c.ttl),
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(cacheFile, entryData, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.baseDir)
}

// Stats reports how many unexpired entries exist and the total size on disk.
func (c *Cache) Stats() (int, int64, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	validCount := 0

	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}

		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		totalSize += info.Size()

		data, err := os.ReadFile(filepath.Join(c.baseDir, dirEntry.Name()))
		if err != nil {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if time.Now().Before(entry.ExpiresAt) {
			validCount++
		}
	}

	return validCount, totalSize, nil
}

// filePath hashes the key into a filename so URLs never hit filesystem
// naming rules.
func (c *Cache) filePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.baseDir, hex.EncodeToString(hash[:])+".json")
}

// DefaultPath returns the default cache directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pagepulse", "cache"), nil
}
