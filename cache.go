package mdbrief

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Cache layout constants.
const (
	// cacheKeyLen is the hex-digest prefix length used for file names.
	// Collision-resistant for tens to low hundreds of distinct diagrams.
	cacheKeyLen = 16

	// minImageSize is the corruption heuristic: a stored file at or below
	// this size is treated as a truncated prior write and ignored.
	minImageSize = 500
)

// RenderCache is a content-addressed on-disk store of rendered diagram
// images. The lookup key is a deterministic digest of the diagram source, so
// identical source always maps to the same file. Entries persist across runs
// and are only removed wholesale by Clear.
//
// The cache assumes a single conversion process per directory; there is no
// locking discipline.
type RenderCache struct {
	dir string
}

// NewRenderCache creates a cache rooted at dir. The directory is created
// lazily on first write.
func NewRenderCache(dir string) *RenderCache {
	return &RenderCache{dir: dir}
}

// Dir returns the cache directory.
func (c *RenderCache) Dir() string {
	return c.dir
}

// Key derives the cache key for a diagram source: a truncated hex SHA-256
// digest of the exact source bytes.
func (c *RenderCache) Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:cacheKeyLen]
}

// entryPath returns the file path for a cache key.
func (c *RenderCache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".png")
}

// Get returns the stored image for source, or ok=false when no valid entry
// exists. Undersized entries are treated as absent.
func (c *RenderCache) Get(source string) (data []byte, ok bool) {
	path := c.entryPath(c.Key(source))

	info, err := os.Stat(path)
	if err != nil || info.Size() <= minImageSize {
		return nil, false
	}

	data, err = os.ReadFile(path) // #nosec G304 -- path is derived from a hash, not user input
	if err != nil || len(data) <= minImageSize {
		return nil, false
	}
	return data, true
}

// Put stores a rendered image under the key derived from source, creating
// the cache directory if absent.
func (c *RenderCache) Put(source string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	if err := os.WriteFile(c.entryPath(c.Key(source)), data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Clear removes every file in the cache directory. A missing directory is
// not an error.
func (c *RenderCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrCacheClear, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("%w: %v", ErrCacheClear, err)
		}
	}
	return nil
}
