// Package testutil provides shared testing utilities and fixtures.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcarmo/go-whoosh/pkg/core"
)

// TempFileIn creates a file in a specific directory and returns its path.
func TempFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TempDirWithFiles creates a temp directory populated with files and
// returns its physical path. Keys ending in "/" create empty directories.
func TempDirWithFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(filepath.Join(dir, name), 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		TempFileIn(t, dir, name, content)
	}
	return dir
}

// CaptureStdio creates a Stdio with captured output buffers.
// Returns the Stdio, stdout buffer, and stderr buffer.
func CaptureStdio(input string) (*core.Stdio, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	return &core.Stdio{
		In:  strings.NewReader(input),
		Out: out,
		Err: errBuf,
	}, out, errBuf
}

// AssertExitCode checks that the exit code matches expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("exit code = %d, want %d", got, want)
	}
}

// AssertOutput checks that output matches expected.
func AssertOutput(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// AssertOutputContains checks that output contains expected substring.
func AssertOutputContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
}

// AssertNoError fails if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// AssertError fails if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// AssertFileExists checks that a file exists.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("file %s does not exist", path)
	}
}

// AssertFileNotExists checks that a file does not exist.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("file %s should not exist", path)
	}
}

// AssertFileContent checks that a file contains expected content.
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("file %s content = %q, want %q", path, got, want)
	}
}

// RunShell runs a shell with the given stdio and arguments.
type RunShell func(stdio *core.Stdio, args []string) int

// ScriptTestCase drives a shell with a script and checks what it did.
type ScriptTestCase struct {
	Name string
	// Script is fed on stdin, or written to a batch file when Batch is set.
	// "$DIR" expands to the working directory.
	Script     string
	Batch      bool
	Args       []string          // Extra arguments, after the batch file if any
	Files      map[string]string // Files to create in the working directory
	Env        map[string]string // Environment overrides; "$DIR" expands to the working directory
	WantCode   int
	WantOut    string // Expected stdout (exact match, "$DIR" expanded)
	WantOutSub string // Expected stdout substring
	WantErr    string // Expected stderr (exact match)
	WantNoErr  bool   // Require empty stderr
	Setup      func(t *testing.T, dir string)
	Check      func(t *testing.T, dir string)
}

// RunScriptTests runs a slice of script test cases, each in a fresh
// working directory.
func RunScriptTests(t *testing.T, run RunShell, tests []ScriptTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			dir := TempDirWithFiles(t, tt.Files)
			expand := func(s string) string { return strings.ReplaceAll(s, "$DIR", dir) }

			for key, val := range tt.Env {
				t.Setenv(key, expand(val))
			}
			if tt.Setup != nil {
				tt.Setup(t, dir)
			}

			input := expand(tt.Script)
			var args []string
			if tt.Batch {
				args = append(args, TempFileIn(t, t.TempDir(), "batch", input))
				input = ""
			}
			args = append(args, tt.Args...)

			stdio, out, errBuf := CaptureStdio(input)
			var code int
			InDir(t, dir, func() {
				code = run(stdio, args)
			})

			AssertExitCode(t, code, tt.WantCode)
			if tt.WantOut != "" {
				AssertOutput(t, out.String(), expand(tt.WantOut))
			}
			if tt.WantOutSub != "" {
				AssertOutputContains(t, out.String(), expand(tt.WantOutSub))
			}
			if tt.WantErr != "" {
				AssertOutput(t, errBuf.String(), tt.WantErr)
			}
			if tt.WantNoErr && errBuf.Len() > 0 {
				t.Errorf("unexpected stderr: %q", errBuf.String())
			}
			if tt.Check != nil {
				tt.Check(t, dir)
			}
		})
	}
}
