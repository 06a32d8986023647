package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover expands roots into a sorted list of source files. A root that is
// a file is taken as is, whatever its extension; a directory is walked
// recursively for files with one of the engine's extensions. Hidden
// directories are skipped.
func (e *Engine) Discover(roots []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if e.IsSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	e.logger.Debug("discovered sources", "roots", len(roots), "files", len(files))
	return files, nil
}

// IsSource returns true if path has one of the engine's extensions.
func (e *Engine) IsSource(path string) bool {
	return slices.Contains(e.extensions, filepath.Ext(path))
}
