package testutil

import (
	"os"
	"sync"
	"testing"
)

// MaxFuzzBytes bounds fuzz inputs; shell lines are short.
const MaxFuzzBytes = 512

var cwdMu sync.Mutex

// ClampString truncates data to max bytes.
func ClampString(data string, max int) string {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// InDir runs fn with the process working directory set to dir. Calls are
// serialised because the working directory is process-wide.
func InDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwdMu.Lock()
	defer cwdMu.Unlock()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(oldDir) }()
	fn()
}
