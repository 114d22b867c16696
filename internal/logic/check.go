package logic

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/discovery"
)

var (
	// ErrNoPatterns is returned by RunCheck when there is nothing to check.
	ErrNoPatterns = errors.New("no include or exclude patterns to check")

	// ErrUnmatched is returned by RunCheck when a pattern selects no file.
	ErrUnmatched = errors.New("pattern matched no files")
)

// RunCheck validates that every include/exclude pattern matches at least one file.
// One line per pattern is written to w.
func RunCheck(cfg *config.Config, w io.Writer) error {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return err
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return ErrNoPatterns
	}

	candidates, err := collectFiles(cfg.Files)
	if err != nil {
		return err
	}

	var failures int

	failures += checkPatterns(w, "include", includes, candidates, cfg.Quiet)
	failures += checkPatterns(w, "exclude", excludes, candidates, cfg.Quiet)

	if failures > 0 {
		return fmt.Errorf("%w: %d pattern(s)", ErrUnmatched, failures)
	}

	return nil
}

// collectFiles walks all positional args and returns every file path found.
func collectFiles(args []string) ([]string, error) {
	var paths []string

	seen := make(map[string]struct{})

	add := func(name string) {
		clean := filepath.ToSlash(filepath.Clean(name))
		if _, ok := seen[clean]; !ok {
			seen[clean] = struct{}{}
			paths = append(paths, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)

			continue
		}

		err = filepath.WalkDir(arg, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.Type().IsRegular() {
				add(name)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	return paths, nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files.
func checkPatterns(w io.Writer, kind string, patterns, candidates []string, quiet bool) int {
	var failures int

	for _, pattern := range patterns {
		flt, err := discovery.NewFilter([]string{pattern}, nil, true)
		if err != nil {
			fmt.Fprintf(w, "%s: %s: invalid pattern: %v\n", kind, pattern, err)

			failures++

			continue
		}

		var count int

		for _, name := range candidates {
			if flt.Match(name) {
				count++
			}
		}

		switch {
		case count == 0:
			fmt.Fprintf(w, "%s: %s: 0 files (ERROR)\n", kind, pattern)

			failures++
		case !quiet:
			fmt.Fprintf(w, "%s: %s: %d files\n", kind, pattern, count)
		}
	}

	return failures
}
