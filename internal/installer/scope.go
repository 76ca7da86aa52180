package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iowarp/iowarp-hooks/internal/constants"
)

// Scope selects where a hook set is installed.
type Scope string

const (
	// ScopeLocal installs into the current project's .claude directory.
	ScopeLocal Scope = "local"

	// ScopeGlobal installs into the user's home .claude directory.
	ScopeGlobal Scope = "global"
)

// ParseScope validates a scope name from the command line.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeLocal, ScopeGlobal:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("invalid install type %q (want local or global)", s)
	}
}

// ClaudeDir resolves the scope's .claude directory.
func (s Scope) ClaudeDir() (string, error) {
	switch s {
	case ScopeGlobal:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, constants.DirClaude), nil
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		return filepath.Join(cwd, constants.DirClaude), nil
	}
}

// PluginDir resolves the OpenCode plugin directory for the given scope.
func PluginDir(global bool) (string, error) {
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, constants.DirOpenCodePluginGlobal), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return filepath.Join(cwd, constants.DirOpenCodePluginLocal), nil
}
