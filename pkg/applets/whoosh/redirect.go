package whoosh

import (
	"fmt"
	"io"
	"os"

	"github.com/rcarmo/go-whoosh/pkg/core/fs"
)

const (
	outSuffix = ".out"
	errSuffix = ".err"
)

// redirect points the session stdout and stderr at <base>.out and
// <base>.err. The returned restore func must be called once the command is
// done; it is safe to call more than once.
func (s *Session) redirect(base string) (restore func(), err error) {
	outPath := s.resolve(base + outSuffix)
	errPath := s.resolve(base + errSuffix)

	if s.config.RequireExistingTargets {
		for _, path := range []string{outPath, errPath} {
			if !fs.Exists(path) {
				return nil, fmt.Errorf("%w: %s does not exist", ErrRedirect, path)
			}
		}
	}

	const flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	outFile, err := fs.OpenFile(outPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedirect, err)
	}
	errFile, err := fs.OpenFile(errPath, flags, 0644)
	if err != nil {
		_ = outFile.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedirect, err)
	}

	s.Stdio.Flush()
	savedOut, savedErr := s.Stdio.Out, s.Stdio.Err
	s.Stdio.Out, s.Stdio.Err = outFile, errFile
	s.debugf("redirect %s -> %s, %s", base, outPath, errPath)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		s.Stdio.Out, s.Stdio.Err = savedOut, savedErr
		closeQuietly(outFile)
		closeQuietly(errFile)
	}, nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
