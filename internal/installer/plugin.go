package installer

import (
	"fmt"
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
	"github.com/iowarp/iowarp-hooks/internal/template"
)

// PluginRequest describes one OpenCode plugin install run.
type PluginRequest struct {
	Manifest *manifest.Manifest

	// Values are input values supplied on the command line.
	Values map[string]string

	// InputOptions controls interactive prompting during resolution.
	InputOptions inputs.Options

	// PluginDir is the OpenCode plugin directory files flatten into.
	PluginDir string

	Force bool
	Warn  func(format string, args ...interface{})
}

// InstallPlugin flattens a plugin manifest's declared files into the plugin
// directory and writes its environment file beside them. Plugins do not
// touch the Claude settings document.
func InstallPlugin(req PluginRequest) (*Result, error) {
	m := req.Manifest
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("%s declares no files; not an OpenCode plugin manifest", m.Name)
	}

	resolved, err := inputs.Resolve(m, req.Values, req.InputOptions)
	if err != nil {
		return nil, err
	}

	envContent, err := pluginEnv(m, resolved)
	if err != nil {
		return nil, err
	}

	metadataPath := filepath.Join(req.PluginDir, constants.FileMetadata)
	ledger, err := metadata.Load(metadataPath)
	if err != nil {
		return nil, err
	}

	files, err := deploy.Flatten(m.Dir, m.Files, resolved, req.PluginDir, deploy.Options{
		Force: req.Force,
		Owned: func(rel string) bool { return ledger.OwnsFile(m.Name, rel) },
		Warn:  req.Warn,
	})
	if err != nil {
		return nil, err
	}

	if envContent != "" {
		if err := envfile.Write(filepath.Join(req.PluginDir, constants.FileEnv), envContent); err != nil {
			return nil, err
		}
		files = append(files, constants.FileEnv)
		sort.Strings(files)
	}

	ledger.Record(m.Name, metadata.Entry{
		InstallID:   uuid.NewString(),
		Version:     m.Version,
		Description: m.Description,
		Target:      "opencode",
		InstalledAt: time.Now().UTC(),
		Files:       files,
		Inputs:      resolved,
	})
	if err := ledger.Save(metadataPath); err != nil {
		return nil, err
	}

	return &Result{Files: files, Inputs: resolved}, nil
}

// UninstallPlugin removes a plugin's flattened files and its ledger entry.
// Uninstalling an absent plugin is a no-op.
func UninstallPlugin(m *manifest.Manifest, pluginDir string) error {
	metadataPath := filepath.Join(pluginDir, constants.FileMetadata)
	ledger, err := metadata.Load(metadataPath)
	if err != nil {
		return err
	}
	entry, installed := ledger.Get(m.Name)

	files := entry.Files
	if !installed {
		for _, f := range m.Files {
			files = append(files, f.Dest)
		}
		if len(m.Environment) > 0 || m.EnvironmentTemplate != "" {
			files = append(files, constants.FileEnv)
		}
	}
	if err := deploy.Remove(pluginDir, files); err != nil {
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

// pluginEnv combines the manifest's static environment map with its rendered
// environment template. Static values may themselves reference inputs.
func pluginEnv(m *manifest.Manifest, vars map[string]string) (string, error) {
	var content string
	if len(m.Environment) > 0 {
		env := make(map[string]string, len(m.Environment))
		for k, v := range m.Environment {
			rendered, err := template.Render(v, vars)
			if err != nil {
				return "", fmt.Errorf("environment.%s: %w", k, err)
			}
			env[k] = rendered
		}
		content = envfile.Lines(env)
	}
	if m.EnvironmentTemplate != "" {
		rendered, err := envfile.Render(m.EnvironmentTemplate, vars)
		if err != nil {
			return "", err
		}
		content += rendered
	}
	return content, nil
}
