// Package style defines shared terminal styles for iowarp-hooks output.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Base styles used across all commands.
var (
	// Bold is for headings and emphasis.
	Bold = lipgloss.NewStyle().Bold(true)

	// Dim is for secondary information like paths and hints.
	Dim = lipgloss.NewStyle().Faint(true)

	// Success renders green text for positive outcomes.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// Warning renders yellow text for non-fatal issues.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Error renders red text for failures.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Status prefixes for check and progress output.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Dim.Render("→")
)

// PrintWarning writes a formatted warning line to stderr.
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}

// PrintError writes a formatted error line to stderr.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorPrefix, fmt.Sprintf(format, args...))
}
