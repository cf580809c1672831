//go:build unix

package whoosh

import (
	"errors"

	"golang.org/x/sys/unix"
)

// spawnFailed reports whether a Start error came from creating the process
// rather than from exec in the child.
func spawnFailed(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}
