package whoosh

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// dispatch runs one command. Errors that end the shell (fatal or exit) are
// returned; recoverable errors raised while redirected are reported on the
// redirected stderr and swallowed, all others are returned for the loop to
// report.
func (s *Session) dispatch(cmd *Command) error {
	if cmd.Redirect {
		if err := s.checkRedirect(cmd); err != nil {
			return err
		}
		restore, err := s.redirect(cmd.Target)
		if err != nil {
			return err
		}
		defer restore()
	}

	handler, ok := builtins[cmd.Name()]
	if !ok {
		handler = runExternal
	}
	err := handler(s, cmd)
	if err != nil && cmd.Redirect && !IsFatal(err) && !errors.Is(err, ErrExit) {
		s.report(err)
		return nil
	}
	return err
}

// checkRedirect rejects redirection for commands outside the allowed set
// and for arguments that name other directories.
func (s *Session) checkRedirect(cmd *Command) error {
	if !s.config.redirectable(cmd.Name()) {
		return fmt.Errorf("%w: %s cannot be redirected", ErrRedirect, cmd.Name())
	}
	for _, arg := range cmd.Args[1:] {
		if strings.ContainsRune(arg, filepath.Separator) {
			return fmt.Errorf("%w: argument %q contains a path separator", ErrRedirect, arg)
		}
	}
	return nil
}
