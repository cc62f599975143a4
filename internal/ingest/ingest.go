package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/legal-intake/constants"
)

// Enumerate resolves an input path to the ordered list of documents to
// process. A directory is walked recursively, filtered by includeExts (or
// the default allowed set), hidden entries skipped; a plain file is passed
// through as-is. Order is sorted so batch indices are stable across runs.
func Enumerate(input string, includeExts []string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New("input path is required")
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	exts := map[string]struct{}{}
	if len(includeExts) == 0 {
		exts = constants.AllowedExtensions
	} else {
		for _, e := range includeExts {
			e = constants.NormalizeExt(strings.TrimSpace(e))
			if e != "" {
				exts[e] = struct{}{}
			}
		}
	}

	var files []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(d.Name()) && path != input {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
