// Package scanner walks the configured source trees and produces the
// candidate file list the analyzer consumes. Exclusion lists and the
// recognized extension set are configuration, not analysis logic.
package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
)

// DefaultExtensions are the source extensions scanned when none are
// configured.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".sql", ".prisma"}

// DefaultExcludes are directory names skipped anywhere in the tree.
var DefaultExcludes = []string{"node_modules", "dist", "build", "out", ".git", ".next", "coverage"}

// Config describes the trees to walk. Server and client roots drive the
// area classification of every discovered file.
type Config struct {
	ServerRoots []string
	ClientRoots []string
	Extensions  []string
	Excludes    []string
	Logger      *slog.Logger
}

// Walk discovers candidate files under all configured roots, returning
// absolute paths tagged with their source area, sorted per root. A root
// that does not exist is logged and skipped; the walk is best-effort.
func Walk(cfg Config) ([]analyzer.SourceFile, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	excludes := cfg.Excludes
	if len(excludes) == 0 {
		excludes = DefaultExcludes
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	excludeSet := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		excludeSet[name] = true
	}

	var files []analyzer.SourceFile
	walkRoot := func(root string, area analyzer.Area) error {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			logger.Warn("skipping missing root", "root", root, "error", err)
			return nil
		}

		var found []string
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree: skip it, keep walking.
				logger.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if excludeSet[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if extSet[strings.ToLower(filepath.Ext(path))] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return err
		}

		sort.Strings(found)
		for _, path := range found {
			files = append(files, analyzer.SourceFile{Path: path, Area: area})
		}
		return nil
	}

	for _, root := range cfg.ServerRoots {
		if err := walkRoot(root, analyzer.AreaServer); err != nil {
			return nil, err
		}
	}
	for _, root := range cfg.ClientRoots {
		if err := walkRoot(root, analyzer.AreaClient); err != nil {
			return nil, err
		}
	}
	return files, nil
}
