package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupHooks,
	Short:   "List available hook sets",
	Long: `List every hook set found in the search directories.

Examples:
  iowarp-hooks list
  IOWARP_HOOKS_PATH=/srv/hooks iowarp-hooks list`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var sets []*manifest.Manifest
	for _, dir := range cfg.SearchDirs() {
		found, errs := manifest.List(dir)
		for _, err := range errs {
			style.PrintWarning("%v", err)
		}
		for _, m := range found {
			// Earlier search directories shadow later ones.
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			sets = append(sets, m)
		}
	}

	if len(sets) == 0 {
		fmt.Println("No hook sets found.")
		fmt.Println(style.Dim.Render("Searched: " + strings.Join(cfg.SearchDirs(), ", ")))
		return nil
	}

	fmt.Println(style.Bold.Render("Available hook sets:"))
	for _, m := range sets {
		fmt.Printf("  %s %s %s\n", style.Bold.Render(m.Name),
			style.Dim.Render("v"+m.Version), m.Description)
		if m.Inputs.Len() > 0 {
			fmt.Printf("    %s %s\n", style.Dim.Render("inputs:"),
				strings.Join(m.Inputs.Names(), ", "))
		}
		fmt.Printf("    %s %s\n", style.Dim.Render("targets:"), strings.Join(m.Targets, ", "))
	}
	return nil
}
