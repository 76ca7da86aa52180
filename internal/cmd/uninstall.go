package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/installer"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().StringVar(&uninstallType, "install-type", "", "Install scope: local or global (default from config)")
}

var uninstallType string

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <hookset>",
	GroupID: GroupHooks,
	Short:   "Uninstall a hook set",
	Long: `Remove a hook set's deployed files, retract its bindings from
settings.json, and drop its install record.

Only bindings whose commands still match what this manifest renders are
removed; hand-edited entries are left alone. Uninstalling a set that is
not installed is a no-op.

Examples:
  iowarp-hooks uninstall observability
  iowarp-hooks uninstall observability --install-type global`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := findHookSet(cfg, args[0])
	if err != nil {
		return err
	}

	scope, claudeDir, err := resolveScope(cfg, uninstallType)
	if err != nil {
		return err
	}

	if err := installer.Uninstall(m, claudeDir); err != nil {
		return err
	}
	fmt.Printf("%s Uninstalled %s %s\n", style.SuccessPrefix, style.Bold.Render(m.Name),
		style.Dim.Render(string(scope)))
	return nil
}
