package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/installer"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(installPluginCmd)
	rootCmd.AddCommand(uninstallPluginCmd)

	uninstallPluginCmd.Flags().BoolVar(&uninstallPluginGlobal, "global-install",
		false, "Uninstall from ~/.config/opencode/plugin instead of the project directory")
}

var uninstallPluginGlobal bool

var installPluginCmd = &cobra.Command{
	Use:     "install-opencode-plugin <plugin> [--param-name value ...]",
	GroupID: GroupPlugins,
	Short:   "Install an OpenCode plugin",
	Long: `Install a plugin manifest's declared files into the OpenCode plugin
directory. Files are flattened: each lands at its declared destination name
regardless of source subdirectories.

Flags:
  --global-install   Install into ~/.config/opencode/plugin
  --force            Overwrite conflicting files
  --yes              Skip prompts

Examples:
  iowarp-hooks install-opencode-plugin adapter --api-key KEY
  iowarp-hooks install-opencode-plugin adapter --global-install`,
	DisableFlagParsing: true,
	RunE:               runInstallPlugin,
}

var uninstallPluginCmd = &cobra.Command{
	Use:     "uninstall-opencode-plugin <plugin>",
	GroupID: GroupPlugins,
	Short:   "Uninstall an OpenCode plugin",
	Args:    cobra.ExactArgs(1),
	RunE:    runUninstallPlugin,
}

func runInstallPlugin(cmd *cobra.Command, args []string) error {
	parsed, err := parseInstallArgs(args)
	if err != nil {
		return err
	}
	if parsed.help || len(parsed.positionals) == 0 {
		return cmd.Help()
	}
	if len(parsed.positionals) > 1 {
		return fmt.Errorf("unexpected arguments: %v", parsed.positionals[1:])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := findHookSet(cfg, parsed.positionals[0])
	if err != nil {
		return err
	}

	pluginDir, err := installer.PluginDir(parsed.global)
	if err != nil {
		return err
	}

	res, err := installer.InstallPlugin(installer.PluginRequest{
		Manifest:     m,
		Values:       parsed.params,
		InputOptions: inputOptions(parsed.yes),
		PluginDir:    pluginDir,
		Force:        parsed.force,
		Warn:         warnf,
	})
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		fmt.Printf("  %s %s\n", style.SuccessPrefix, f)
	}
	fmt.Printf("%s Installed plugin %s into %s\n", style.SuccessPrefix,
		style.Bold.Render(m.Name), style.Dim.Render(pluginDir))
	return nil
}

func runUninstallPlugin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := findHookSet(cfg, args[0])
	if err != nil {
		return err
	}

	pluginDir, err := installer.PluginDir(uninstallPluginGlobal)
	if err != nil {
		return err
	}

	if err := installer.UninstallPlugin(m, pluginDir); err != nil {
		return err
	}
	fmt.Printf("%s Uninstalled plugin %s from %s\n", style.SuccessPrefix,
		style.Bold.Render(m.Name), style.Dim.Render(pluginDir))
	return nil
}
