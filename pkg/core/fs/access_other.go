//go:build !unix

package fs

import "os"

const (
	modeExists = 0
	modeExec   = 1
)

// access approximates access(2) with os.Stat where it is unavailable.
func access(path string, mode uint32) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode == modeExec && !info.IsDir() && info.Mode().Perm()&0o111 == 0 {
		return os.ErrPermission
	}
	return nil
}
