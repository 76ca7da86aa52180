// Package installer orchestrates hook set installs and uninstalls: input
// resolution, template rendering, file deployment, settings merging, and the
// install ledger, in that order.
//
// Everything that can fail for configuration reasons (missing inputs,
// unresolved template variables, a corrupt settings document) is checked
// before the first byte is written, so a failed install leaves no partial
// state behind.
package installer

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iowarp/iowarp-hooks/internal/constants"
	"github.com/iowarp/iowarp-hooks/internal/deploy"
	"github.com/iowarp/iowarp-hooks/internal/envfile"
	"github.com/iowarp/iowarp-hooks/internal/inputs"
	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/metadata"
	"github.com/iowarp/iowarp-hooks/internal/settings"
	"github.com/iowarp/iowarp-hooks/internal/template"
)

// Request describes one install run.
type Request struct {
	// Manifest is the loaded and validated hook set manifest.
	Manifest *manifest.Manifest

	// Target is the host application to install for.
	Target string

	// Values are input values supplied on the command line.
	Values map[string]string

	// InputOptions controls interactive prompting during resolution.
	InputOptions inputs.Options

	// ClaudeDir is the scope's .claude directory.
	ClaudeDir string

	// Force overwrites conflicting files instead of failing.
	Force bool

	// Warn receives overwrite warnings. Nil discards.
	Warn func(format string, args ...interface{})
}

// Result reports what an install did.
type Result struct {
	// Files are deployed paths relative to the .claude directory.
	Files []string

	// Bindings are the rendered settings bindings that were merged.
	Bindings settings.Bindings

	// Inputs are the resolved input values used.
	Inputs inputs.Resolved
}

// Install performs a full hook set install. Re-installing an already
// installed set refreshes its files and leaves settings unchanged.
func Install(req Request) (*Result, error) {
	m := req.Manifest
	if !m.SupportsTarget(req.Target) {
		return nil, fmt.Errorf("hook set %s does not support target %q (supports %v)",
			m.Name, req.Target, m.Targets)
	}

	resolved, err := inputs.Resolve(m, req.Values, req.InputOptions)
	if err != nil {
		return nil, err
	}

	bindings, err := RenderBindings(m, resolved)
	if err != nil {
		return nil, err
	}

	var envContent string
	if m.EnvironmentTemplate != "" {
		envContent, err = envfile.Render(m.EnvironmentTemplate, resolved)
		if err != nil {
			return nil, err
		}
	}

	settingsPath := filepath.Join(req.ClaudeDir, constants.FileSettings)
	doc, err := settings.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	metadataPath := filepath.Join(req.ClaudeDir, constants.FileMetadata)
	ledger, err := metadata.Load(metadataPath)
	if err != nil {
		return nil, err
	}

	// Deploy the hooks/ tree under a subdirectory keyed by set name, so
	// hook sets cannot collide with each other.
	setPrefix := path.Join(constants.DirHooks, m.Name)
	deployed, err := deploy.Tree(m.HooksDir(), filepath.Join(req.ClaudeDir, setPrefix), resolved, deploy.Options{
		Force: req.Force,
		Owned: func(rel string) bool { return ledger.OwnsFile(m.Name, path.Join(setPrefix, rel)) },
		Warn:  req.Warn,
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(deployed)+1)
	for _, rel := range deployed {
		files = append(files, path.Join(setPrefix, filepath.ToSlash(rel)))
	}

	if envContent != "" {
		envRel := path.Join(setPrefix, constants.FileEnv)
		if err := os.MkdirAll(filepath.Join(req.ClaudeDir, setPrefix), 0755); err != nil {
			return nil, err
		}
		if err := envfile.Write(filepath.Join(req.ClaudeDir, envRel), envContent); err != nil {
			return nil, err
		}
		files = append(files, envRel)
	}
	sort.Strings(files)

	doc.Merge(bindings)
	if err := doc.Save(settingsPath); err != nil {
		return nil, err
	}

	ledger.Record(m.Name, metadata.Entry{
		InstallID:   uuid.NewString(),
		Version:     m.Version,
		Description: m.Description,
		Target:      req.Target,
		InstalledAt: time.Now().UTC(),
		Files:       files,
		Inputs:      resolved,
	})
	if err := ledger.Save(metadataPath); err != nil {
		return nil, err
	}

	return &Result{Files: files, Bindings: bindings, Inputs: resolved}, nil
}

// Uninstall reverses an install: deployed files are removed, this set's
// bindings retracted from settings, and the ledger entry dropped.
// Uninstalling a set that is not installed is a no-op.
func Uninstall(m *manifest.Manifest, claudeDir string) error {
	metadataPath := filepath.Join(claudeDir, constants.FileMetadata)
	ledger, err := metadata.Load(metadataPath)
	if err != nil {
		return err
	}
	entry, installed := ledger.Get(m.Name)

	// The manifest stays the source of truth for what this set owns. The
	// ledger supplies the inputs used at install time so the rendered
	// commands match what was merged; without them, retraction is
	// best-effort over whatever placeholders can still be resolved.
	vars := entry.Inputs
	bindings := retractBindings(m, vars)

	files := entry.Files
	if !installed {
		if files, err = manifestFiles(m); err != nil {
			return err
		}
	}
	if err := deploy.Remove(claudeDir, files); err != nil {
		return err
	}

	settingsPath := filepath.Join(claudeDir, constants.FileSettings)
	if err := settings.Retract(settingsPath, bindings); err != nil {
		return err
	}

	if installed {
		ledger.Remove(m.Name)
		if err := ledger.Save(metadataPath); err != nil {
			return err
		}
	}
	return nil
}

// RenderBindings renders the manifest's hook commands into settings bindings.
// Every placeholder must resolve; a configuration error here precedes all
// file writes.
func RenderBindings(m *manifest.Manifest, vars map[string]string) (settings.Bindings, error) {
	bindings := make(settings.Bindings, len(m.Hooks))
	for _, event := range m.EventNames() {
		groups := make([]settings.BindingGroup, 0, len(m.Hooks[event]))
		for _, g := range m.Hooks[event] {
			entries := make([]settings.HookEntry, 0, len(g.Hooks))
			for _, h := range g.Hooks {
				command, err := template.Render(h.Command, vars)
				if err != nil {
					return nil, fmt.Errorf("hooks.%s: %w", event, err)
				}
				entries = append(entries, settings.HookEntry{
					Type:    hookType(h.Type),
					Command: command,
					Timeout: h.Timeout,
				})
			}
			groups = append(groups, settings.BindingGroup{Matcher: g.Matcher, Hooks: entries})
		}
		bindings[event] = groups
	}
	return bindings, nil
}

// retractBindings renders commands for retraction with whatever variables
// are known. Commands whose placeholders cannot be resolved will simply not
// match anything in settings and are left alone.
func retractBindings(m *manifest.Manifest, vars map[string]string) settings.Bindings {
	bindings := make(settings.Bindings, len(m.Hooks))
	for _, event := range m.EventNames() {
		groups := make([]settings.BindingGroup, 0, len(m.Hooks[event]))
		for _, g := range m.Hooks[event] {
			entries := make([]settings.HookEntry, 0, len(g.Hooks))
			for _, h := range g.Hooks {
				entries = append(entries, settings.HookEntry{
					Type:    hookType(h.Type),
					Command: template.RenderKnown(h.Command, vars),
					Timeout: h.Timeout,
				})
			}
			groups = append(groups, settings.BindingGroup{Matcher: g.Matcher, Hooks: entries})
		}
		bindings[event] = groups
	}
	return bindings
}

func hookType(t string) string {
	if t == "" {
		return "command"
	}
	return t
}

// manifestFiles lists the destinations the manifest maps to, relative to the
// .claude directory. Used when no ledger entry survives.
func manifestFiles(m *manifest.Manifest) ([]string, error) {
	setPrefix := path.Join(constants.DirHooks, m.Name)
	rels, err := deploy.ListTree(m.HooksDir())
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(rels)+1)
	for _, rel := range rels {
		files = append(files, path.Join(setPrefix, filepath.ToSlash(rel)))
	}
	if m.EnvironmentTemplate != "" {
		files = append(files, path.Join(setPrefix, constants.FileEnv))
	}
	sort.Strings(files)
	return files, nil
}
