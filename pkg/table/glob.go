package table

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentstation/amjd/pkg/errors"
)

// Resolve joins pattern onto dir unless it is already absolute.
func Resolve(dir, pattern string) string {
	if filepath.IsAbs(pattern) || dir == "" {
		return pattern
	}
	return filepath.Join(dir, pattern)
}

// ReadPattern reads a single file, or every file matching a doublestar glob
// ("batches/**/*.csv") concatenated in lexical path order. No match yields
// *errors.SourceMissingError.
func ReadPattern(dir, pattern string) (*Table, error) {
	full := Resolve(dir, pattern)
	if !hasMeta(pattern) {
		return Read(full)
	}

	matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.NewValidationError("pattern", pattern, err.Error())
	}
	if len(matches) == 0 {
		return nil, &errors.SourceMissingError{Path: full}
	}

	var merged *Table
	for _, path := range sortedPaths(matches) {
		t, err := Read(path)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = t
			merged.Path = full
			continue
		}
		merged.Append(t)
	}
	return merged, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
