// Package sandbox restricts which paths the shell may read from or write to.
// It is disabled unless configured; when enabled, every guarded operation must
// fall under one of the configured path rules.
package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Common sandbox errors.
var (
	ErrAccessDenied = errors.New("access denied: path not in sandbox")
	ErrReadOnly     = errors.New("write access denied: path is read-only")
)

// Permission represents file access permissions.
type Permission uint8

const (
	PermNone  Permission = 0
	PermRead  Permission = 1 << iota // Can read files and enter directories
	PermWrite                        // Can create or truncate files
)

// ParsePermission maps "r", "w", "rw" to a Permission.
func ParsePermission(s string) (Permission, error) {
	var perm Permission
	for _, c := range s {
		switch c {
		case 'r':
			perm |= PermRead
		case 'w':
			perm |= PermWrite
		default:
			return PermNone, errors.New("invalid access mode " + strings.TrimSpace(s))
		}
	}
	return perm, nil
}

// PathRule defines access rules for a path prefix.
type PathRule struct {
	Path       string     // Path prefix (resolved to absolute)
	Permission Permission // Allowed operations
}

// Config holds sandbox configuration.
type Config struct {
	// Paths to allow access to (with permissions)
	AllowedPaths []PathRule
	// Allow read/write access below Dir
	AllowCwd bool
	// Dir is the starting directory; defaults to the process working directory
	Dir string
}

type sandbox struct {
	mu      sync.RWMutex
	rules   []PathRule
	enabled bool
}

// Global sandbox instance (disabled by default).
var global = &sandbox{}

// Init enables the sandbox with the given configuration.
func Init(cfg *Config) error {
	dir := cfg.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}

	var rules []PathRule
	if cfg.AllowCwd {
		rules = append(rules, PathRule{Path: filepath.Clean(dir), Permission: PermRead | PermWrite})
	}
	for _, rule := range cfg.AllowedPaths {
		path := rule.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		rules = append(rules, PathRule{Path: filepath.Clean(path), Permission: rule.Permission})
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	global.rules = rules
	global.enabled = true
	return nil
}

// Disable disables the sandbox (allows all operations).
func Disable() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.enabled = false
	global.rules = nil
}

// IsEnabled returns whether the sandbox is enabled.
func IsEnabled() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.enabled
}

// Check verifies that path may be accessed with perm. Relative paths are
// resolved against the process working directory.
func Check(path string, perm Permission) error {
	global.mu.RLock()
	defer global.mu.RUnlock()

	if !global.enabled {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return ErrAccessDenied
	}

	denied := ErrAccessDenied
	for _, rule := range global.rules {
		if !within(absPath, rule.Path) {
			continue
		}
		if rule.Permission&perm == perm {
			return nil
		}
		if perm&PermWrite != 0 && rule.Permission&PermWrite == 0 {
			denied = ErrReadOnly
		}
	}
	return denied
}

func within(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if prefix == string(filepath.Separator) {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
