package whoosh

import (
	"fmt"
	"path/filepath"
	"strings"
)

type builtinFunc func(s *Session, cmd *Command) error

var builtins = map[string]builtinFunc{
	"cd":   runCd,
	"exit": runExit,
	"path": runPath,
	"pwd":  runPwd,
}

func runCd(s *Session, cmd *Command) error {
	var target string
	switch len(cmd.Args) {
	case 1:
		target = s.Home
	case 2:
		// no tilde expansion: "~" is an ordinary character
		target = cmd.Args[1]
	default:
		return fmt.Errorf("%w: cd takes at most one argument", ErrUsage)
	}
	if err := s.chdir(target); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	s.debugf("cd %s", s.Dir)
	return nil
}

func runPwd(s *Session, cmd *Command) error {
	if !cmd.Redirect && len(cmd.Args) != 1 {
		return fmt.Errorf("%w: pwd takes no arguments", ErrUsage)
	}
	dir, err := s.getwd()
	if err != nil {
		return fatalf("pwd: %w", err)
	}
	s.Stdio.Println(dir)
	return nil
}

func runExit(s *Session, cmd *Command) error {
	if len(cmd.Args) > 1 {
		return fatalf("%w: exit takes no arguments", ErrUsage)
	}
	return ErrExit
}

// runPath appends every argument to the search path.
func runPath(s *Session, cmd *Command) error {
	if len(cmd.Args) < 2 {
		return fatalf("%w: path needs at least one directory", ErrUsage)
	}
	dirs := make([]string, 0, len(cmd.Args))
	if s.Path != "" {
		dirs = append(dirs, s.Path)
	}
	dirs = append(dirs, cmd.Args[1:]...)
	s.Path = strings.Join(dirs, string(filepath.ListSeparator))
	s.debugf("path %s", s.Path)
	return nil
}
