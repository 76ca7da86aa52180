// Package manifest loads and validates hook set and plugin manifests.
//
// A hook set lives in its own directory containing a config.yaml manifest and
// a hooks/ tree of script files. The manifest declares the set's inputs, the
// lifecycle events it binds commands to, and (for plugins) an explicit file
// list. Validation happens entirely at load time so that nothing is deployed
// from a broken manifest.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/iowarp/iowarp-hooks/internal/constants"
	"github.com/iowarp/iowarp-hooks/internal/template"
)

var (
	// ErrNotFound means the named hook set has no manifest in the search
	// directory.
	ErrNotFound = errors.New("hook set not found")

	// ErrInvalid means the manifest is missing required fields or references
	// an undeclared input.
	ErrInvalid = errors.New("invalid manifest")
)

// Manifest describes a hook set or plugin bundle.
type Manifest struct {
	// Name is the unique hook set identifier.
	Name string `yaml:"name"`

	// Description is a human-readable summary shown by list and info.
	Description string `yaml:"description"`

	// Version is the hook set version string.
	Version string `yaml:"version"`

	// Targets lists the host applications this set supports. Defaults to
	// ["claude"] when omitted.
	Targets []string `yaml:"targets"`

	// Inputs declares the parameters substituted into templates, in
	// manifest declaration order.
	Inputs Inputs `yaml:"inputs"`

	// Dependencies is an opaque list passed through to display; the
	// installer performs no dependency resolution.
	Dependencies []string `yaml:"dependencies"`

	// Hooks maps lifecycle event names to binding groups whose command
	// strings are templates over Inputs.
	Hooks map[string]BindingGroups `yaml:"hooks"`

	// EnvironmentTemplate, when set, is rendered into a key=value .env file
	// beside the installed hook scripts.
	EnvironmentTemplate string `yaml:"environment_template"`

	// Environment holds static key/value defaults (plugin manifests only).
	Environment map[string]string `yaml:"environment"`

	// Files is the explicit file list (plugin manifests only). Hook sets
	// deploy their hooks/ tree instead.
	Files []FileSpec `yaml:"files"`

	// Dir is the absolute path of the hook set directory. Set by Load, not
	// part of the YAML document.
	Dir string `yaml:"-"`
}

// InputSpec declares a single manifest input.
type InputSpec struct {
	// Prompt is shown when asking the operator for a value.
	Prompt string `yaml:"prompt"`

	// Required inputs must resolve to a value before rendering starts.
	// Defaults to true when omitted, matching the original manifests.
	Required bool `yaml:"required"`

	// Default, when non-nil, is used for non-interactive runs and offered
	// during prompts.
	Default *string `yaml:"default"`

	// Description is free-text help shown by the info command.
	Description string `yaml:"description"`
}

// UnmarshalYAML applies the required-by-default rule before decoding.
func (s *InputSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain InputSpec
	p := plain{Required: true}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = InputSpec(p)
	return nil
}

// HasDefault reports whether the input declares a default value.
func (s *InputSpec) HasDefault() bool {
	return s.Default != nil
}

// DefaultValue returns the declared default, or "" if there is none.
func (s *InputSpec) DefaultValue() string {
	if s.Default == nil {
		return ""
	}
	return *s.Default
}

// Inputs is an ordered mapping of input name to spec. YAML mappings lose
// declaration order under map decoding, and prompting must follow manifest
// order, so the order is captured explicitly.
type Inputs struct {
	order []string
	specs map[string]InputSpec
}

// UnmarshalYAML decodes a YAML mapping node, preserving key order.
func (in *Inputs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("inputs: expected mapping, got %s", node.Tag)
	}
	in.specs = make(map[string]InputSpec, len(node.Content)/2)
	in.order = make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		var spec InputSpec
		if err := node.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
		if _, dup := in.specs[name]; dup {
			return fmt.Errorf("input %q declared twice", name)
		}
		in.order = append(in.order, name)
		in.specs[name] = spec
	}
	return nil
}

// Names returns the input names in declaration order.
func (in *Inputs) Names() []string {
	return in.order
}

// Get returns the spec for name.
func (in *Inputs) Get(name string) (InputSpec, bool) {
	spec, ok := in.specs[name]
	return spec, ok
}

// Has reports whether name is a declared input.
func (in *Inputs) Has(name string) bool {
	_, ok := in.specs[name]
	return ok
}

// Len returns the number of declared inputs.
func (in *Inputs) Len() int {
	return len(in.order)
}

// BindingGroup is one matcher plus its command list for a lifecycle event.
type BindingGroup struct {
	// Matcher selects which tool or context the commands apply to. The
	// empty matcher applies to everything.
	Matcher string `yaml:"matcher"`

	// Hooks is the ordered command list for this matcher.
	Hooks []HookCommand `yaml:"hooks"`
}

// HookCommand is a single command binding. Command is a template string.
type HookCommand struct {
	Type    string `yaml:"type"`
	Command string `yaml:"command"`

	// Timeout is the optional per-command timeout in seconds understood by
	// the host.
	Timeout int `yaml:"timeout"`
}

// BindingGroups accepts either a single mapping or a sequence of mappings
// under an event key, since older manifests wrote one group inline.
type BindingGroups []BindingGroup

// UnmarshalYAML decodes a mapping as a one-element group list.
func (g *BindingGroups) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var one BindingGroup
		if err := node.Decode(&one); err != nil {
			return err
		}
		*g = BindingGroups{one}
		return nil
	case yaml.SequenceNode:
		var many []BindingGroup
		if err := node.Decode(&many); err != nil {
			return err
		}
		*g = BindingGroups(many)
		return nil
	default:
		return fmt.Errorf("hooks entry: expected mapping or sequence, got %s", node.Tag)
	}
}

// FileSpec maps one manifest-declared source file to its destination.
type FileSpec struct {
	// Src is the source path relative to the hook set directory.
	Src string `yaml:"src"`

	// Dest is the destination file name. Plugin installs flatten Dest into
	// the plugin directory regardless of Src subdirectories.
	Dest string `yaml:"dest"`

	// Executable marks the deployed file as executable.
	Executable bool `yaml:"executable"`
}

// Load reads and validates the manifest for the named hook set under dir.
// It returns ErrNotFound if the set has no manifest, and ErrInvalid for
// missing fields or undeclared input references.
func Load(dir, name string) (*Manifest, error) {
	setDir := filepath.Join(dir, name)
	path := filepath.Join(setDir, constants.FileManifest)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	m.Dir = setDir
	if m.Name == "" {
		m.Name = name
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate enforces required fields, referential integrity of template
// variables, and existence of declared plugin files.
func (m *Manifest) validate() error {
	if m.Version == "" {
		return fmt.Errorf("%w: %s: missing required field %q", ErrInvalid, m.Name, "version")
	}
	if m.Description == "" {
		return fmt.Errorf("%w: %s: missing required field %q", ErrInvalid, m.Name, "description")
	}
	if len(m.Targets) == 0 {
		m.Targets = []string{constants.DefaultTarget}
	}

	// Every variable referenced by a command or the environment template
	// must be a declared input. Catching this here keeps broken manifests
	// from deploying anything.
	for _, event := range m.EventNames() {
		for _, group := range m.Hooks[event] {
			for _, hook := range group.Hooks {
				for _, ref := range template.Vars(hook.Command) {
					if !m.Inputs.Has(ref) {
						return fmt.Errorf("%w: %s: hooks.%s command references undeclared input %q",
							ErrInvalid, m.Name, event, ref)
					}
				}
			}
		}
	}
	for _, ref := range template.Vars(m.EnvironmentTemplate) {
		if !m.Inputs.Has(ref) {
			return fmt.Errorf("%w: %s: environment_template references undeclared input %q",
				ErrInvalid, m.Name, ref)
		}
	}

	for _, f := range m.Files {
		if f.Src == "" || f.Dest == "" {
			return fmt.Errorf("%w: %s: files entries need both src and dest", ErrInvalid, m.Name)
		}
		src := filepath.Join(m.Dir, f.Src)
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("%w: %s: declared file %s does not exist", ErrInvalid, m.Name, f.Src)
		}
	}

	return nil
}

// EventNames returns the manifest's hook event names, sorted for
// deterministic iteration.
func (m *Manifest) EventNames() []string {
	names := make([]string, 0, len(m.Hooks))
	for event := range m.Hooks {
		names = append(names, event)
	}
	sort.Strings(names)
	return names
}

// HooksDir returns the hook set's script tree, the source of deployed files
// in hook-set mode.
func (m *Manifest) HooksDir() string {
	return filepath.Join(m.Dir, constants.DirHooks)
}

// SupportsTarget reports whether the manifest lists the given host
// application.
func (m *Manifest) SupportsTarget(target string) bool {
	for _, t := range m.Targets {
		if t == target {
			return true
		}
	}
	return false
}
