// Package preload fetches question media ahead of the first question and
// keeps a process-wide index of what landed on disk. The cache is
// advisory: a miss falls back to live playback, and entries survive across
// matches for the lifetime of the process.
package preload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playperu/tunequiz/internal/quiz"
)

// Cache maps media references to local file paths.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) put(ref, path string) {
	c.mu.Lock()
	c.entries[ref] = path
	c.mu.Unlock()
}

// Lookup returns the cached path for ref if the file still exists.
func (c *Cache) Lookup(ref string) (string, bool) {
	c.mu.RLock()
	path, ok := c.entries[ref]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Fetcher downloads media into a cache directory. One Fetcher serves every
// session in the process.
type Fetcher struct {
	dir    string
	cache  *Cache
	client *http.Client
	logger *slog.Logger
}

func NewFetcher(dir string, cache *Cache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		dir:    dir,
		cache:  cache,
		client: &http.Client{Timeout: 5 * time.Minute},
		logger: logger,
	}
}

// Preload starts fetching refs in the background and returns a handle the
// startup phase polls. Any single failed ref fails the whole batch.
func (f *Fetcher) Preload(refs []string) quiz.PreloadHandle {
	h := &handle{cache: f.cache}
	go f.run(h, refs)
	return h
}

func (f *Fetcher) run(h *handle, refs []string) {
	for _, ref := range refs {
		path, err := f.fetch(ref)
		if err != nil {
			f.logger.Error("preload failed", "ref", ref, "error", err)
			h.state.Store(int32(quiz.PreloadFailure))
			return
		}
		f.cache.put(ref, path)
	}
	h.state.Store(int32(quiz.PreloadSuccess))
}

func (f *Fetcher) fetch(ref string) (string, error) {
	// Local files play from where they are.
	if !strings.Contains(ref, "://") {
		if _, err := os.Stat(ref); err != nil {
			return "", err
		}
		return ref, nil
	}

	path := filepath.Join(f.dir, refFilename(ref))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", err
	}

	resp, err := f.client.Get(ref)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", ref, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.dir, ".download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

func refFilename(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:16])
}

// handle reports batch progress without ever blocking its readers.
type handle struct {
	state atomic.Int32 // quiz.PreloadState; zero value is InProgress
	cache *Cache
}

func (h *handle) State() quiz.PreloadState {
	return quiz.PreloadState(h.state.Load())
}

func (h *handle) Retrieve(ref string) (string, bool) {
	return h.cache.Lookup(ref)
}
