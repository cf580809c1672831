//go:build unix

package fs

import "golang.org/x/sys/unix"

const (
	modeExists = 0 // F_OK
	modeExec   = unix.X_OK
)

func access(path string, mode uint32) error {
	return unix.Access(path, mode)
}
