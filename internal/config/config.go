// Package config loads the iowarp-hooks tool configuration from
// ~/.config/iowarp-hooks/config.toml. The file is optional; every field has
// a working default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/iowarp/iowarp-hooks/internal/constants"
)

// EnvHooksPath is a colon-separated list of hook set directories searched
// before the configured ones.
const EnvHooksPath = "IOWARP_HOOKS_PATH"

// Config holds the tool configuration.
type Config struct {
	// HooksDirs are directories searched for hook sets, in order.
	HooksDirs []string `toml:"hooks_dirs"`

	// DefaultScope is the install scope used when --install-type is not
	// given: "local" or "global".
	DefaultScope string `toml:"default_scope"`

	// DefaultTarget is the host application installed for when none is
	// named on the command line.
	DefaultTarget string `toml:"default_target"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultScope:  "local",
		DefaultTarget: constants.DefaultTarget,
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "iowarp-hooks", "config.toml"), nil
}

// Load reads the tool configuration. A missing file yields Default() without
// error; an unreadable or invalid file is an error.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.DefaultScope != "local" && cfg.DefaultScope != "global" {
		return Default(), fmt.Errorf("invalid default_scope %q: must be \"local\" or \"global\"", cfg.DefaultScope)
	}
	if cfg.DefaultTarget == "" {
		cfg.DefaultTarget = constants.DefaultTarget
	}

	for i, dir := range cfg.HooksDirs {
		expanded, err := expandPath(dir)
		if err != nil {
			return Default(), fmt.Errorf("expand hooks_dirs[%d]: %w", i, err)
		}
		cfg.HooksDirs[i] = expanded
	}

	return cfg, nil
}

// SearchDirs returns the hook set search path: IOWARP_HOOKS_PATH entries
// first, then configured directories, then the built-in fallbacks
// (./hooks and ~/.config/iowarp-hooks/hooks).
func (c Config) SearchDirs() []string {
	var dirs []string
	if env := os.Getenv(EnvHooksPath); env != "" {
		for _, d := range strings.Split(env, ":") {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	dirs = append(dirs, c.HooksDirs...)

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(cwd, constants.DirHooks))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "iowarp-hooks", constants.DirHooks))
	}
	return dirs
}

// expandPath expands a leading ~ to the user's home directory. Config files
// are not run through a shell, so the expansion happens here.
func expandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
