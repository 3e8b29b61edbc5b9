package analyzer

import (
	"log/slog"
	"os"
	"sync"
)

// fileContent is the dual text representation of one source file. Raw is
// the content as read; Clean has comments and string literals suppressed.
type fileContent struct {
	path  string
	area  Area
	raw   string
	clean string
}

// empty reports whether the file had no content (including read failures,
// which are deliberately treated as empty).
func (c *fileContent) empty() bool {
	return c.raw == ""
}

// fileCache lazily reads and normalizes files, one entry per absolute path,
// reused across all model analyses in a run. Safe for concurrent use: each
// entry is computed exactly once even when several model workers request
// the same path.
type fileCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	logger  *slog.Logger
}

type cacheEntry struct {
	once    sync.Once
	content *fileContent
}

func newFileCache(logger *slog.Logger) *fileCache {
	return &fileCache{
		entries: make(map[string]*cacheEntry),
		logger:  logger,
	}
}

// get returns the cached content for file, reading and normalizing it on
// first request. Read errors are swallowed per-file: the scan continues
// with empty content rather than aborting the run.
func (c *fileCache) get(file SourceFile) *fileContent {
	c.mu.Lock()
	entry, ok := c.entries[file.Path]
	if !ok {
		entry = &cacheEntry{}
		c.entries[file.Path] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		content := &fileContent{path: file.Path, area: file.Area}
		data, err := os.ReadFile(file.Path)
		if err != nil {
			c.logger.Warn("skipping unreadable file", "path", file.Path, "error", err)
		} else {
			content.raw = string(data)
			content.clean = normalize(content.raw)
		}
		entry.content = content
	})
	return entry.content
}

// size returns the number of cached entries.
func (c *fileCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
