// Package inputs reconciles a manifest's declared inputs against CLI-supplied
// values, defaults, and interactive prompts.
//
// Prompting is isolated behind the Prompter interface so the resolver itself
// never touches the terminal; substituting a scripted prompter makes every
// resolution path testable.
package inputs

import (
	"errors"
	"fmt"

	"github.com/iowarp/iowarp-hooks/internal/manifest"
)

// ErrMissingRequired means a required input had no CLI value, no default,
// and no way to prompt for one.
var ErrMissingRequired = errors.New("missing required input")

// Prompter obtains a value for a single input from the operator. It is the
// only component allowed to prompt.
type Prompter interface {
	// Ask prompts with the spec's prompt text, offering the default if one
	// exists, and returns the raw line entered (possibly empty).
	Ask(name string, spec manifest.InputSpec) (string, error)

	// Confirm asks a yes/no question and returns the answer.
	Confirm(question string, def bool) (bool, error)
}

// Options controls how Resolve fills gaps the CLI left.
type Options struct {
	// Interactive permits prompting. When false, only supplied values and
	// declared defaults can satisfy an input.
	Interactive bool

	// Prompter supplies values in interactive mode. Required when
	// Interactive is true.
	Prompter Prompter
}

// Resolved is a fully-populated input set. It is constructed once per
// install run and never mutated afterwards.
type Resolved map[string]string

// Resolve produces a complete Resolved set for the manifest's declared
// inputs, in declaration order: a CLI-supplied value wins; otherwise the
// declared default (in non-interactive mode); otherwise an interactive
// prompt; otherwise ErrMissingRequired. An empty string supplied for a
// required input counts as absent, not as a valid empty value.
func Resolve(m *manifest.Manifest, supplied map[string]string, opts Options) (Resolved, error) {
	resolved := make(Resolved, m.Inputs.Len())

	for _, name := range m.Inputs.Names() {
		spec, _ := m.Inputs.Get(name)

		if val, ok := supplied[name]; ok && (val != "" || !spec.Required) {
			resolved[name] = val
			continue
		}

		if !opts.Interactive {
			switch {
			case spec.HasDefault():
				resolved[name] = spec.DefaultValue()
			case !spec.Required:
				resolved[name] = ""
			default:
				return nil, fmt.Errorf("%w: %s (pass --%s or run interactively)",
					ErrMissingRequired, name, flagName(name))
			}
			continue
		}

		val, err := prompt(opts.Prompter, name, spec)
		if err != nil {
			return nil, err
		}
		resolved[name] = val
	}

	return resolved, nil
}

// prompt asks until the answer is acceptable: blank input falls back to the
// default when one exists, is a valid empty value for optional inputs, and
// re-prompts for required inputs without a default.
func prompt(p Prompter, name string, spec manifest.InputSpec) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: %s (no prompter available)", ErrMissingRequired, name)
	}
	for {
		val, err := p.Ask(name, spec)
		if err != nil {
			return "", fmt.Errorf("prompting for %s: %w", name, err)
		}
		if val != "" {
			return val, nil
		}
		if spec.HasDefault() {
			return spec.DefaultValue(), nil
		}
		if !spec.Required {
			return "", nil
		}
		// Required, no default, blank answer: ask again.
	}
}

// flagName converts an input name to its CLI flag spelling
// (project_name → project-name).
func flagName(name string) string {
	out := []byte(name)
	for i := range out {
		if out[i] == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
