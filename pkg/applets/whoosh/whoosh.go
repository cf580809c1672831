// Package whoosh implements a minimal line-oriented shell with the builtins
// cd, pwd, exit and path, external command execution and a single form of
// output redirection: "cmd > name" sends stdout to name.out and stderr to
// name.err.
//
// With no arguments the shell prompts on stdout and reads stdin. With one
// argument it reads commands from that file, echoing each line before
// running it.
package whoosh

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rcarmo/go-whoosh/pkg/core"
	"github.com/rcarmo/go-whoosh/pkg/core/fs"
	"github.com/rcarmo/go-whoosh/pkg/sandbox"
)

// Run executes the shell with the configuration named by $WHOOSH_CONFIG.
func Run(stdio *core.Stdio, args []string) int {
	cfg, err := LoadConfig(os.Getenv(ConfigEnv))
	if err != nil {
		stdio.Errorf("%s", defaultErrorMessage)
		return core.ExitFailure
	}
	return RunWithConfig(stdio, args, cfg)
}

// RunWithConfig executes the shell until end of input or exit and returns
// the process exit status.
func RunWithConfig(stdio *core.Stdio, args []string, cfg *Config) int {
	if len(args) > 1 {
		stdio.Errorf("%s", cfg.ErrorMessage)
		return core.ExitFailure
	}

	s, err := NewSession(&core.Stdio{In: stdio.In, Out: stdio.Out, Err: stdio.Err}, cfg)
	if err != nil {
		stdio.Errorf("%s", cfg.ErrorMessage)
		return core.ExitFailure
	}
	defer s.Close()

	if cfg.Sandbox.Enabled {
		if err := sandbox.Init(cfg.sandboxConfig(s.Dir)); err != nil {
			s.report(fatal(err))
			return core.ExitFailure
		}
		defer sandbox.Disable()
	}

	if len(args) == 1 {
		batch, err := fs.Open(s.resolve(args[0]))
		if err != nil {
			s.report(fatalf("open batch file: %w", err))
			return core.ExitFailure
		}
		defer batch.Close()
		s.Stdio.In = batch
		s.Batch = true
	}

	s.debugf("session started in %s (batch=%t)", s.Dir, s.Batch)
	return s.loop(s.newLineReader())
}

func (s *Session) loop(r lineReader) int {
	for {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return core.ExitSuccess
		}
		if err != nil {
			s.report(fatalf("read: %w", err))
			return core.ExitFailure
		}
		if len(line) > s.config.MaxLineLength {
			s.report(fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line)))
			continue
		}
		if code, done := s.execute(line); done {
			return code
		}
	}
}

// execute parses and dispatches one line. done is set when the shell must
// stop with code.
func (s *Session) execute(line string) (code int, done bool) {
	cmd, err := parseLine(line)
	if err == nil && cmd != nil {
		err = s.dispatch(cmd)
	}
	switch {
	case err == nil:
		return core.ExitSuccess, false
	case errors.Is(err, ErrExit):
		return core.ExitSuccess, true
	case IsFatal(err):
		s.report(err)
		return core.ExitFailure, true
	default:
		s.report(err)
		return core.ExitSuccess, false
	}
}
