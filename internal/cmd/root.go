// Package cmd implements the iowarp-hooks command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/style"
)

// Command group IDs for help output.
const (
	GroupHooks   = "hooks"
	GroupPlugins = "plugins"
	GroupMaint   = "maintenance"
)

var rootCmd = &cobra.Command{
	Use:   "iowarp-hooks",
	Short: "Install and manage hook sets for Claude Code and OpenCode",
	Long: `iowarp-hooks installs manifest-driven hook sets into Claude Code and
OpenCode configuration directories.

A hook set is a directory containing a config.yaml manifest, hook scripts,
and optional templates. Installing a set deploys its files, merges its
bindings into the host's settings.json, and records the install so it can
be cleanly removed later.

Hook sets are searched in the directories listed by IOWARP_HOOKS_PATH,
then hooks_dirs from ~/.config/iowarp-hooks/config.toml, then ./hooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupHooks, Title: "Hook Sets:"},
		&cobra.Group{ID: GroupPlugins, Title: "OpenCode Plugins:"},
		&cobra.Group{ID: GroupMaint, Title: "Maintenance:"},
	)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		os.Exit(1)
	}
}
