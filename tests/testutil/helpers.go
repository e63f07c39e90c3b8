// Package testutil provides helpers shared by the integration and e2e
// test packages: locating the repository and its fixtures, and golden
// file comparison.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root, assuming
// the test binary runs from a package directory two levels below it.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixturesDir returns the sample blog dataset shipped with the repo:
// schema.yaml, requests.yaml and the data/ collection files.
func FixturesDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "fixtures")
}

// CompareGolden checks actual against the golden file at path. A missing
// golden file is written on the first run so it can be committed; an
// existing one must match exactly.
func CompareGolden(t *testing.T, path string, actual []byte) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, actual, 0o644))
		t.Logf("golden file written: %s (commit it)", path)
		return
	}
	expected, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(expected), string(actual),
		"golden mismatch for %s -- delete it and re-run to regenerate", path)
}
