// Package discovery selects the files a batch operates on.
//
// Positional arguments are taken as explicit files or as directories to walk.
// Walked files are filtered by include/exclude patterns with find -path semantics
// (see pathmatch), matched against the slash-separated path as walked.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/gocbc/pkg/pathmatch"
)

// ErrNoFiles is returned when no file survives filtering.
var ErrNoFiles = errors.New("no files matched")

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes    *pathmatch.Matcher
	excludes    *pathmatch.Matcher
	hasIncludes bool
}

// NewFilter compiles include/exclude patterns into a reusable filter.
// hasIncludes indicates whether include filtering was requested,
// regardless of whether the include list ended up empty.
func NewFilter(includes, excludes []string, hasIncludes bool) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(normalizePatterns(includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(normalizePatterns(excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc, hasIncludes: hasIncludes}, nil
}

// Match reports whether the slash-separated path should be included.
func (f *Filter) Match(name string) bool {
	included := !f.hasIncludes || f.includes.MatchAny(name)
	excluded := f.excludes.MatchAny(name)

	return included && !excluded
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))

	for _, p := range patterns {
		out = append(out, strings.TrimPrefix(filepath.ToSlash(p), "./"))
	}

	return out
}

// Resolve takes positional args (files/directories) and a filter.
// Files are added directly (bypassing filtering). Directories are walked and filtered.
// Returns matched files and total candidates scanned.
func Resolve(args []string, flt *Filter) (files []string, scanned int, err error) {
	for _, arg := range args {
		if err := validatePath(arg); err != nil {
			return nil, 0, err
		}
	}

	seen := make(map[string]struct{})

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}
		files = append(files, name)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		walked, total, err := walkDir(arg, flt)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, name := range walked {
			add(name)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("%w: %v", ErrNoFiles, args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning regular files that pass the filter.
func walkDir(root string, flt *Filter) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		total++

		if !flt.Match(filepath.ToSlash(filepath.Clean(name))) {
			return nil
		}

		files = append(files, name)

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}

// validatePath rejects paths that escape the current working directory.
func validatePath(name string) error {
	if filepath.IsAbs(name) {
		return fmt.Errorf("absolute paths are not allowed: %q", name)
	}

	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("paths must be within the current working directory: %q", name)
	}

	return nil
}
