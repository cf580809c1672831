package whoosh

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rcarmo/go-whoosh/pkg/core"
	"github.com/rcarmo/go-whoosh/pkg/core/fs"
)

// lookPath finds name the way execvp would, but against the session's
// directory and search path instead of the process ones.
func (s *Session) lookPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		path := s.resolve(name)
		if err := fs.Executable(path); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return path, nil
	}
	for _, dir := range filepath.SplitList(s.Path) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(s.resolve(dir), name)
		if fs.Executable(path) == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// runExternal starts cmd as a child process and waits for it.
func runExternal(s *Session, cmd *Command) error {
	path, err := s.lookPath(cmd.Name())
	if err != nil {
		return err
	}

	child := &exec.Cmd{
		Path:   path,
		Args:   cmd.Args,
		Dir:    s.Dir,
		Env:    s.Environ(),
		Stdout: s.Stdio.Out,
		Stderr: s.Stdio.Err,
	}
	// The batch file belongs to the read loop; children only inherit a
	// real terminal.
	if f, ok := core.File(s.Stdio.In); ok && !s.Batch {
		child.Stdin = f
	}

	if err := child.Start(); err != nil {
		if spawnFailed(err) {
			return fatalf("start %s: %w", path, err)
		}
		return fmt.Errorf("%w: %v", ErrExec, err)
	}
	if cmd.Background && s.config.Background && detachable(child) {
		s.debugf("started %s pid=%d in background", path, child.Process.Pid)
		go func() { _ = child.Wait() }()
		return nil
	}

	err = child.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		s.debugf("%s exited with %d", path, exitErr.ExitCode())
		return nil
	}
	return err
}

// detachable reports whether the child writes straight to files. Other
// writers are fed by copy goroutines that must finish before the session
// writes again.
func detachable(child *exec.Cmd) bool {
	_, out := core.File(child.Stdout)
	_, errOut := core.File(child.Stderr)
	return out && errOut
}
