package pathmatch_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocbc/pkg/pathmatch"
)

// Case is one golden expectation: whether Path matches Pattern.
type Case struct {
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	Match       bool   `yaml:"match"`
	Description string `yaml:"description,omitempty"`
}

// Group is a named set of cases.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

func loadGolden(t *testing.T) map[string][]Group {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("testdata", "*.yml"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no testdata/*.yml files")

	golden := make(map[string][]Group, len(files))

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // fixed testdata files
		require.NoError(t, err)

		var groups []Group

		require.NoError(t, yaml.Unmarshal(data, &groups), file)

		golden[filepath.Base(file)] = groups
	}

	return golden
}

// eachCase runs fn as a parallel subtest per golden case.
func eachCase(t *testing.T, fn func(t *testing.T, tc Case)) {
	t.Helper()

	for file, groups := range loadGolden(t) {
		for _, group := range groups {
			for i, tc := range group.Cases {
				name := tc.Description
				if name == "" {
					name = fmt.Sprintf("%s_on_%s_%d", tc.Pattern, tc.Path, i)
				}

				t.Run(file+"/"+group.Name+"/"+name, func(t *testing.T) {
					t.Parallel()

					fn(t, tc)
				})
			}
		}
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	eachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		got, err := pathmatch.Match(tc.Pattern, tc.Path)
		require.NoError(t, err)
		assert.Equal(t, tc.Match, got, "Match(%q, %q)", tc.Pattern, tc.Path)
	})
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	eachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		single, err := pathmatch.NewMatcher([]string{tc.Pattern})
		require.NoError(t, err)
		assert.Equal(t, tc.Match, single.MatchAny(tc.Path))

		// A pattern that never matches does not change the outcome.
		withNoise, err := pathmatch.NewMatcher([]string{"no-such-file", tc.Pattern})
		require.NoError(t, err)
		assert.Equal(t, 2, withNoise.Len())
		assert.Equal(t, tc.Match, withNoise.MatchAny(tc.Path))
	})
}

func TestEmptyMatcherMatchesNothing(t *testing.T) {
	t.Parallel()

	m, err := pathmatch.NewMatcher(nil)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	assert.False(t, m.MatchAny("anything"))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, glob := range []string{"[abc", "[!", `trailing\`} {
		_, err := pathmatch.Compile(glob)
		require.ErrorIs(t, err, pathmatch.ErrPattern, glob)

		_, err = pathmatch.NewMatcher([]string{"*.ok", glob})
		require.ErrorIs(t, err, pathmatch.ErrPattern, glob)
	}
}

func TestCompileCaches(t *testing.T) {
	t.Parallel()

	first, err := pathmatch.Compile("cache/*.bin")
	require.NoError(t, err)

	second, err := pathmatch.Compile("cache/*.bin")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "cache/*.bin", first.String())
}

// TestFindParity checks every golden case against find(1) itself.
func TestFindParity(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("find"); err != nil {
		t.Skip("find not available")
	}

	eachCase(t, func(t *testing.T, tc Case) {
		t.Helper()

		assert.Equal(t, tc.Match, findMatches(t, tc.Pattern, tc.Path),
			"find -path %q on %q", tc.Pattern, tc.Path)
	})
}

// findMatches creates path under a temp dir and reports whether find -path selects it.
func findMatches(t *testing.T, pattern, path string) bool {
	t.Helper()

	root := t.TempDir()
	full := filepath.Join(root, path)

	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, nil, 0o600))

	//nolint:gosec // arguments come from testdata
	cmd := exec.CommandContext(context.Background(), "find", root, "-type", "f", "-path", root+"/"+pattern)

	out, err := cmd.Output()
	require.NoError(t, err)

	return strings.TrimSpace(string(out)) != ""
}
