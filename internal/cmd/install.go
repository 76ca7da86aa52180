package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/installer"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:     "install <hookset> [target] [--param-name value ...]",
	GroupID: GroupHooks,
	Short:   "Install a hook set",
	Long: `Install a hook set: deploy its files, merge its bindings into the
host's settings.json, and write its environment file.

Manifest inputs are passed as --param-name value pairs; any input not
supplied is prompted for when running interactively, or taken from its
manifest default otherwise.

Flags:
  --install-type local|global   Install scope (default from config)
  --force                       Overwrite conflicting files
  --yes                         Skip prompts and confirmation

Examples:
  iowarp-hooks install observability --project-name acme
  iowarp-hooks install observability claude --install-type global --yes`,
	DisableFlagParsing: true,
	RunE:               runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	parsed, err := parseInstallArgs(args)
	if err != nil {
		return err
	}
	if parsed.help || len(parsed.positionals) == 0 {
		return cmd.Help()
	}
	if len(parsed.positionals) > 2 {
		return fmt.Errorf("unexpected arguments: %v", parsed.positionals[2:])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := findHookSet(cfg, parsed.positionals[0])
	if err != nil {
		return err
	}

	target := cfg.DefaultTarget
	if len(parsed.positionals) == 2 {
		target = parsed.positionals[1]
	}

	scope, claudeDir, err := resolveScope(cfg, parsed.installType)
	if err != nil {
		return err
	}

	opts := inputOptions(parsed.yes)

	fmt.Printf("%s %s v%s %s %s\n", style.Bold.Render("Installing"), m.Name, m.Version,
		style.Dim.Render(string(scope)), style.Dim.Render(claudeDir))
	if events := m.EventNames(); len(events) > 0 {
		fmt.Printf("  %s %s\n", style.Dim.Render("events:"), strings.Join(events, ", "))
	}
	if !parsed.yes {
		ok, err := confirm(opts, fmt.Sprintf("Install %s?", m.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	res, err := installer.Install(installer.Request{
		Manifest:     m,
		Target:       target,
		Values:       parsed.params,
		InputOptions: opts,
		ClaudeDir:    claudeDir,
		Force:        parsed.force,
		Warn:         warnf,
	})
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		fmt.Printf("  %s %s\n", style.SuccessPrefix, f)
	}
	fmt.Printf("%s Installed %s (%d files, %d events)\n", style.SuccessPrefix,
		style.Bold.Render(m.Name), len(res.Files), len(res.Bindings))
	return nil
}
