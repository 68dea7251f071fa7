// Package testutil provides utilities for testing benchgen in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points HOME at a fresh temp directory so tests never
// touch the user's real ~/.benchgen: no settings file is picked up, no
// installed code generator is replaced and no state is rewritten.
//
// It returns the benchgen home directory under the temp HOME. Cleanup
// is handled by t.TempDir and t.Setenv, so callers don't need to
// restore anything.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	benchgenHome := filepath.Join(home, ".benchgen")
	if err := os.MkdirAll(benchgenHome, 0o700); err != nil {
		t.Fatalf("failed to create test benchgen directory: %v", err)
	}

	return benchgenHome
}
