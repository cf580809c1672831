package whoosh

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rcarmo/go-whoosh/pkg/core"
	"github.com/rcarmo/go-whoosh/pkg/core/fs"
)

// Session is the state shared by every command of one shell run. Built-ins
// mutate the session rather than the process, so the working directory and
// search path seen by children are always Dir and Path.
type Session struct {
	Stdio *core.Stdio
	Dir   string
	Home  string
	Path  string
	// Batch is set when commands come from a file instead of a terminal.
	Batch bool

	ID     string
	config *Config
	env    []string
	logger *log.Logger
	closer io.Closer
}

// NewSession captures the process working directory and environment.
func NewSession(stdio *core.Stdio, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, fatalf("getwd: %w", err)
	}
	s := &Session{
		Stdio:  stdio,
		Dir:    dir,
		Home:   os.Getenv("HOME"),
		Path:   os.Getenv("PATH"),
		ID:     uuid.New().String(),
		config: cfg,
		env:    os.Environ(),
		logger: newDiscardLogger(),
	}
	if cfg.DebugLog != "" {
		f, err := os.OpenFile(cfg.DebugLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644) // #nosec G304 -- operator supplied log path
		if err != nil {
			return nil, fatalf("open debug log: %w", err)
		}
		s.closer = f
		s.logger = log.New(f, "whoosh["+s.ID[:8]+"] ", log.LstdFlags)
	}
	return s, nil
}

// Close releases the debug log, if any.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func newDiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func (s *Session) debugf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

// report writes the generic error message for err to the current stderr.
func (s *Session) report(err error) {
	s.debugf("error: %v", err)
	s.Stdio.Errorf("%s", s.config.ErrorMessage)
}

// resolve makes name absolute relative to the session directory.
func (s *Session) resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(s.Dir, name)
}

// chdir moves the session to dir after checking it can be entered.
func (s *Session) chdir(dir string) error {
	if dir == "" {
		return &os.PathError{Op: "chdir", Path: dir, Err: os.ErrNotExist}
	}
	target := s.resolve(dir)
	if err := fs.Searchable(target); err != nil {
		return err
	}
	if real, err := filepath.EvalSymlinks(target); err == nil {
		target = real
	}
	s.Dir = target
	return nil
}

// getwd returns Dir, failing once the directory has disappeared.
func (s *Session) getwd() (string, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New(s.Dir + ": not a directory")
	}
	return s.Dir, nil
}

// Environ returns the environment handed to child processes.
func (s *Session) Environ() []string {
	env := make([]string, 0, len(s.env)+2)
	for _, kv := range s.env {
		if strings.HasPrefix(kv, "PATH=") || strings.HasPrefix(kv, "PWD=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "PATH="+s.Path, "PWD="+s.Dir)
}
