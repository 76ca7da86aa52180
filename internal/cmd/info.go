package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:     "info <hookset>",
	GroupID: GroupHooks,
	Short:   "Show hook set details and usage",
	Long: `Show a hook set's description, inputs, targets, and the events it
binds, plus a ready-to-copy install command.

Examples:
  iowarp-hooks info observability`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := findHookSet(cfg, args[0])
	if err != nil {
		return err
	}

	title := cases.Title(language.English)
	fmt.Printf("%s %s\n", style.Bold.Render(title.String(strings.ReplaceAll(m.Name, "_", " "))),
		style.Dim.Render("v"+m.Version))
	fmt.Println(m.Description)
	fmt.Printf("%s %s\n", style.Dim.Render("targets:"), strings.Join(m.Targets, ", "))
	if len(m.Dependencies) > 0 {
		fmt.Printf("%s %s\n", style.Dim.Render("dependencies:"), strings.Join(m.Dependencies, ", "))
	}

	if m.Inputs.Len() > 0 {
		fmt.Println()
		fmt.Println(style.Bold.Render("Inputs:"))
		for _, name := range m.Inputs.Names() {
			spec, _ := m.Inputs.Get(name)
			line := fmt.Sprintf("  --%s", strings.ReplaceAll(name, "_", "-"))
			switch {
			case spec.HasDefault():
				line += style.Dim.Render(fmt.Sprintf("  (default %q)", spec.DefaultValue()))
			case !spec.Required:
				line += style.Dim.Render("  (optional)")
			default:
				line += style.Dim.Render("  (required)")
			}
			fmt.Println(line)
			if spec.Prompt != "" {
				fmt.Printf("      %s\n", spec.Prompt)
			}
			if spec.Description != "" {
				fmt.Printf("      %s\n", style.Dim.Render(spec.Description))
			}
		}
	}

	if events := m.EventNames(); len(events) > 0 {
		fmt.Println()
		fmt.Println(style.Bold.Render("Events:"))
		for _, event := range events {
			var count int
			for _, g := range m.Hooks[event] {
				count += len(g.Hooks)
			}
			fmt.Printf("  %s %s\n", event, style.Dim.Render(fmt.Sprintf("(%d commands)", count)))
		}
	}

	fmt.Println()
	example := fmt.Sprintf("iowarp-hooks install %s", m.Name)
	for _, name := range m.Inputs.Names() {
		spec, _ := m.Inputs.Get(name)
		if spec.Required && !spec.HasDefault() {
			example += fmt.Sprintf(" --%s <value>", strings.ReplaceAll(name, "_", "-"))
		}
	}
	fmt.Printf("%s %s\n", style.ArrowPrefix, example)
	return nil
}
