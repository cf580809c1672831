package whoosh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcarmo/go-whoosh/pkg/sandbox"
)

// ConfigEnv names the environment variable pointing at a YAML config file.
const ConfigEnv = "WHOOSH_CONFIG"

const (
	defaultPrompt        = "whoosh> "
	defaultErrorMessage  = "An error has occurred\n"
	defaultMaxLineLength = 128
)

// Config is a serialisable representation of the shell settings. The zero
// value is not usable; start from DefaultConfig.
type Config struct {
	Prompt        string `yaml:"prompt"`
	ErrorMessage  string `yaml:"errorMessage"`
	MaxLineLength int    `yaml:"maxLineLength"`
	// Redirectable lists the commands that may be combined with '>'.
	Redirectable []string `yaml:"redirectable"`
	// RequireExistingTargets refuses to redirect unless both <name>.out
	// and <name>.err already exist.
	RequireExistingTargets bool `yaml:"requireExistingTargets"`
	// Background lets a trailing '&' skip waiting for external commands.
	// It only applies while stdout and stderr are files; otherwise the
	// shell still waits.
	Background  bool          `yaml:"background"`
	LineEditing bool          `yaml:"lineEditing"`
	DebugLog    string        `yaml:"debugLog"`
	Sandbox     SandboxConfig `yaml:"sandbox"`
}

// SandboxConfig restricts the paths the shell reads and writes.
type SandboxConfig struct {
	Enabled  bool       `yaml:"enabled"`
	AllowCwd bool       `yaml:"allowCwd"`
	Paths    []PathRule `yaml:"paths"`
}

// PathRule grants access ("r", "w" or "rw") below Path.
type PathRule struct {
	Path   string `yaml:"path"`
	Access string `yaml:"access"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Prompt:        defaultPrompt,
		ErrorMessage:  defaultErrorMessage,
		MaxLineLength: defaultMaxLineLength,
		Redirectable:  []string{"exit", "ls", "cd", "pwd", "path"},
		LineEditing:   true,
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("maxLineLength must be > 0")
	}
	if c.ErrorMessage == "" {
		return fmt.Errorf("errorMessage must not be empty")
	}
	for _, rule := range c.Sandbox.Paths {
		if rule.Path == "" {
			return fmt.Errorf("sandbox path must not be empty")
		}
		if _, err := sandbox.ParsePermission(rule.Access); err != nil {
			return fmt.Errorf("sandbox path %s: %w", rule.Path, err)
		}
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied config path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) redirectable(name string) bool {
	for _, candidate := range c.Redirectable {
		if candidate == name {
			return true
		}
	}
	return false
}

// sandboxConfig converts the YAML rules for sandbox.Init.
func (c *Config) sandboxConfig(dir string) *sandbox.Config {
	cfg := &sandbox.Config{AllowCwd: c.Sandbox.AllowCwd, Dir: dir}
	for _, rule := range c.Sandbox.Paths {
		perm, _ := sandbox.ParsePermission(rule.Access)
		cfg.AllowedPaths = append(cfg.AllowedPaths, sandbox.PathRule{Path: rule.Path, Permission: perm})
	}
	return cfg
}
