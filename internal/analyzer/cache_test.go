package analyzer

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheReadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("const a = 1; // note"), 0o644))

	cache := newFileCache(slog.New(slog.DiscardHandler))
	file := SourceFile{Path: path, Area: AreaServer}

	first := cache.get(file)
	assert.Contains(t, first.clean, "const a = 1;")
	assert.NotContains(t, first.clean, "note")
	assert.Contains(t, first.raw, "note")

	// Mutating the file afterward must not change the cached entry:
	// the cache is run-scoped and never invalidates.
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	second := cache.get(file)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.size())
}

func TestFileCacheMissingFileIsEmpty(t *testing.T) {
	cache := newFileCache(slog.New(slog.DiscardHandler))
	content := cache.get(SourceFile{Path: "/nonexistent/path.ts", Area: AreaClient})
	assert.True(t, content.empty())
	assert.Equal(t, "", content.clean)
}

func TestFileCacheConcurrentComputeOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(path, []byte("prisma.widget.findMany()"), 0o644))

	cache := newFileCache(slog.New(slog.DiscardHandler))
	file := SourceFile{Path: path, Area: AreaServer}

	const workers = 16
	results := make([]*fileContent, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.get(file)
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, cache.size())
}
