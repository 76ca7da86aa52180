// Package constants defines shared constant values used throughout
// iowarp-hooks. Centralizing these magic strings keeps the installer,
// uninstaller, and doctor checks in agreement about on-disk layout.
package constants

// Directory names under an installation root.
const (
	// DirClaude is the Claude Code configuration directory.
	DirClaude = ".claude"

	// DirHooks is the hook script directory inside DirClaude. Each hook
	// set installs into its own subdirectory keyed by set name.
	DirHooks = "hooks"

	// DirOpenCodePluginLocal is the project-scope OpenCode plugin directory.
	DirOpenCodePluginLocal = ".opencode/plugin"

	// DirOpenCodePluginGlobal is the user-scope OpenCode plugin directory,
	// relative to the home directory.
	DirOpenCodePluginGlobal = ".config/opencode/plugin"
)

// File names for configuration and state.
const (
	// FileManifest is the manifest file inside each hook set directory.
	FileManifest = "config.yaml"

	// FileSettings is the host's settings document inside DirClaude.
	FileSettings = "settings.json"

	// FileMetadata is the install ledger inside DirClaude. It records which
	// hook sets are installed and which files they deployed.
	FileMetadata = ".hook_metadata.json"

	// FileEnv is the rendered environment file written beside installed
	// hook scripts.
	FileEnv = ".env"
)

// DefaultTarget is the host application hook sets install into when the
// manifest does not narrow the target list.
const DefaultTarget = "claude"
