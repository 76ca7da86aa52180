package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/constants"
	"github.com/iowarp/iowarp-hooks/internal/installer"
	"github.com/iowarp/iowarp-hooks/internal/metadata"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(installedCmd)
	installedCmd.Flags().BoolVar(&installedVerbose, "verbose", false, "Show deployed files per hook set")
}

var installedVerbose bool

var installedCmd = &cobra.Command{
	Use:     "installed",
	GroupID: GroupHooks,
	Short:   "Show installed hook sets",
	Long: `Show the hook sets recorded in the local and global install ledgers.

Examples:
  iowarp-hooks installed
  iowarp-hooks installed --verbose`,
	RunE: runInstalled,
}

func runInstalled(cmd *cobra.Command, args []string) error {
	for _, scope := range []installer.Scope{installer.ScopeLocal, installer.ScopeGlobal} {
		claudeDir, err := scope.ClaudeDir()
		if err != nil {
			return err
		}
		ledger, err := metadata.Load(filepath.Join(claudeDir, constants.FileMetadata))
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", style.Bold.Render(string(scope)), style.Dim.Render(claudeDir))
		names := ledger.Names()
		if len(names) == 0 {
			fmt.Println(style.Dim.Render("  (none)"))
			continue
		}
		for _, name := range names {
			entry, _ := ledger.Get(name)
			fmt.Printf("  %s %s v%s %s %s\n", style.SuccessPrefix, style.Bold.Render(name),
				entry.Version, style.Dim.Render(entry.Target),
				style.Dim.Render(entry.InstalledAt.Local().Format("2006-01-02 15:04")))
			if installedVerbose {
				for _, f := range entry.Files {
					fmt.Printf("      %s\n", style.Dim.Render(f))
				}
			}
		}
	}
	return nil
}
