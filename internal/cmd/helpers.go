package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/inputs"
	"github.com/iowarp/iowarp-hooks/internal/installer"
	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

// findHookSet searches the configured hook set directories in order and
// loads the first manifest matching name.
func findHookSet(cfg config.Config, name string) (*manifest.Manifest, error) {
	var searched []string
	for _, dir := range cfg.SearchDirs() {
		m, err := manifest.Load(dir, name)
		if err == nil {
			return m, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
		searched = append(searched, dir)
	}
	return nil, fmt.Errorf("%w: %s (searched %v)", manifest.ErrNotFound, name, searched)
}

func isNotFound(err error) bool {
	return errors.Is(err, manifest.ErrNotFound)
}

// inputOptions builds the input resolution options for a command run:
// interactive prompting only when stdin is a terminal and --yes was not
// given.
func inputOptions(assumeYes bool) inputs.Options {
	if assumeYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		return inputs.Options{}
	}
	return inputs.Options{
		Interactive: true,
		Prompter:    inputs.NewTextInputPrompter(),
	}
}

// confirm asks the operator to proceed. Non-interactive runs proceed
// silently.
func confirm(opts inputs.Options, question string) (bool, error) {
	if !opts.Interactive || opts.Prompter == nil {
		return true, nil
	}
	return opts.Prompter.Confirm(question, true)
}

// resolveScope picks the install scope from the --install-type flag or the
// configured default, and returns its .claude directory.
func resolveScope(cfg config.Config, flag string) (installer.Scope, string, error) {
	name := flag
	if name == "" {
		name = cfg.DefaultScope
	}
	scope, err := installer.ParseScope(name)
	if err != nil {
		return "", "", err
	}
	dir, err := scope.ClaudeDir()
	if err != nil {
		return "", "", err
	}
	return scope, dir, nil
}

// warnf prints a styled warning line to stderr, matching the deployer's
// Warn callback signature.
func warnf(format string, args ...interface{}) {
	style.PrintWarning(format, args...)
}
