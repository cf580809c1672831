// Package fs provides filesystem operations that respect sandbox boundaries.
// The shell should use this package instead of direct os calls.
package fs

import (
	"errors"
	"os"

	"github.com/rcarmo/go-whoosh/pkg/sandbox"
)

// ErrNotExecutable reports a path that exists but cannot be executed.
var ErrNotExecutable = errors.New("not an executable file")

// Open opens a file for reading.
func Open(path string) (*os.File, error) {
	if err := sandbox.Check(path, sandbox.PermRead); err != nil {
		return nil, err
	}
	return os.Open(path) // #nosec G304 -- sandbox.Check enforces allowed paths
}

// OpenFile opens a file with flags.
func OpenFile(path string, flag int, perm os.FileMode) (*os.File, error) {
	required := sandbox.PermRead
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		required = sandbox.PermWrite
	}
	if err := sandbox.Check(path, required); err != nil {
		return nil, err
	}
	return os.OpenFile(path, flag, perm) // #nosec G304 -- sandbox.Check enforces allowed paths
}

// Stat returns file info.
func Stat(path string) (os.FileInfo, error) {
	if err := sandbox.Check(path, sandbox.PermRead); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// Exists reports whether path exists. It does not consult the sandbox.
func Exists(path string) bool {
	return access(path, modeExists) == nil
}

// Searchable returns nil if path is a directory the process may enter.
func Searchable(path string) error {
	info, err := Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "chdir", Path: path, Err: errors.New("not a directory")}
	}
	return access(path, modeExec)
}

// Executable returns nil if path is a regular file the process may execute.
func Executable(path string) error {
	info, err := Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &os.PathError{Op: "exec", Path: path, Err: ErrNotExecutable}
	}
	if err := access(path, modeExec); err != nil {
		return &os.PathError{Op: "exec", Path: path, Err: err}
	}
	return nil
}
