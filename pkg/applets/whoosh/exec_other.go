//go:build !unix

package whoosh

import (
	"errors"
	"syscall"
)

func spawnFailed(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM)
}
