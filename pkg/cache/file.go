package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/treekit/treekit/pkg/errors"
)

// fileEntry wraps stored data with an optional expiry timestamp.
type fileEntry struct {
	Data      []byte     `json:"data"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FileCache persists entries as JSON files under a root directory, sharded
// by the first two characters of the key hash to keep directories small.
type FileCache struct {
	root string
}

// NewFileCache creates a file-backed cache rooted at dir, creating it if
// needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating cache directory")
	}
	return &FileCache{root: dir}, nil
}

// path maps a key to a sharded file path. Keys contain hex digests so the
// shard prefix is uniformly distributed.
func (c *FileCache) path(key string) string {
	name := strings.ReplaceAll(key, string(filepath.Separator), "_")
	digest := name
	if i := strings.LastIndexByte(name, ':'); i >= 0 && i+3 <= len(name) {
		digest = name[i+1:]
	}
	shard := "00"
	if len(digest) >= 2 {
		shard = digest[:2]
	}
	return filepath.Join(c.root, shard, name+".json")
}

// Get implements [Cache].
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "reading cache entry")
	}
	var entry fileEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		// Corrupt entries are treated as misses and removed.
		_ = os.Remove(c.path(key))
		return nil, false, nil
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements [Cache].
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := fileEntry{Data: data}
	if ttl > 0 {
		t := time.Now().Add(ttl)
		entry.ExpiresAt = &t
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding cache entry")
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating cache shard")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing cache entry")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "committing cache entry")
	}
	return nil
}

// Delete implements [Cache].
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "deleting cache entry")
	}
	return nil
}

// Close implements [Cache]. File caches hold no open resources.
func (c *FileCache) Close() error { return nil }

// Clear removes every entry under the cache root.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "listing cache directory")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "clearing cache directory")
		}
	}
	return nil
}

// DefaultDir returns the per-user cache directory for layouts and consensus
// results, honoring the platform cache-home convention.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolving user cache directory")
	}
	return filepath.Join(base, "treekit"), nil
}
