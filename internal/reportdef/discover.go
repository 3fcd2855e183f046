package reportdef

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeamick/ares-visual-sub001/internal/testable"
)

// Extensions are the file extensions read as report definitions.
var Extensions = []string{".yaml", ".yml", ".toml"}

// Expand resolves command-line arguments into definition paths. Glob
// patterns are expanded, directories contribute their definition files (not
// recursively, hidden files skipped) and plain files are kept as given.
// Results keep argument order and are deduplicated; the files found in one
// directory or pattern are sorted.
func Expand(fsys testable.FileSystem, args []string) ([]string, error) {
	if fsys == nil {
		fsys = testable.DefaultFS
	}
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("pattern %q matches no files", arg)
			}
			sort.Strings(matches)
			for _, m := range matches {
				if info, err := fsys.Stat(m); err == nil && !info.IsDir() {
					add(m)
				}
			}
			continue
		}

		info, err := fsys.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported when they are loaded.
			add(arg)
			continue
		}
		found, err := definitionsIn(fsys, arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("directory %s contains no report definitions", arg)
		}
		for _, f := range found {
			add(f)
		}
	}
	return paths, nil
}

func definitionsIn(fsys testable.FileSystem, dir string) ([]string, error) {
	var out []string
	for _, ext := range Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if strings.HasPrefix(filepath.Base(m), ".") {
				continue
			}
			if info, err := fsys.Stat(m); err == nil && !info.IsDir() {
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
