// Package metadata maintains the install ledger: which hook sets are
// installed in a scope, and which files each one deployed.
//
// The ledger is advisory. The manifest remains the source of truth for what
// a hook set owns at uninstall time; the ledger exists so `installed` can
// report without re-reading manifests and so the deployer can tell its own
// previously-deployed files from foreign ones when checking for conflicts.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/iowarp/iowarp-hooks/internal/util"
)

// Ledger is the content of .hook_metadata.json in a scope's .claude
// directory.
type Ledger struct {
	InstalledHookSets map[string]Entry `json:"installed_hook_sets"`
}

// Entry records one installed hook set.
type Entry struct {
	// InstallID identifies this particular install run.
	InstallID string `json:"install_id"`

	// Version and Description mirror the manifest at install time.
	Version     string `json:"version"`
	Description string `json:"description"`

	// Target is the host application installed into.
	Target string `json:"target"`

	// InstalledAt is when the install completed.
	InstalledAt time.Time `json:"installed_at"`

	// Files lists deployed destination paths relative to the scope's
	// .claude directory (or plugin directory for plugins).
	Files []string `json:"files"`

	// Inputs records the resolved input values used, so a reinstall can
	// show what changed.
	Inputs map[string]string `json:"inputs,omitempty"`
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Ledger{InstalledHookSets: make(map[string]Entry)}, nil
		}
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("metadata %s is not valid JSON: %w", path, err)
	}
	if l.InstalledHookSets == nil {
		l.InstalledHookSets = make(map[string]Entry)
	}
	return &l, nil
}

// Save writes the ledger atomically, creating parent directories if needed.
func (l *Ledger) Save(path string) error {
	return util.EnsureDirAndWriteJSON(path, l)
}

// Record stores or replaces the entry for a hook set.
func (l *Ledger) Record(name string, e Entry) {
	l.InstalledHookSets[name] = e
}

// Remove drops the entry for a hook set. Removing an absent entry is a
// no-op.
func (l *Ledger) Remove(name string) {
	delete(l.InstalledHookSets, name)
}

// Get returns the entry for a hook set.
func (l *Ledger) Get(name string) (Entry, bool) {
	e, ok := l.InstalledHookSets[name]
	return e, ok
}

// OwnsFile reports whether the named hook set's entry lists the given
// destination path.
func (l *Ledger) OwnsFile(name, relPath string) bool {
	e, ok := l.InstalledHookSets[name]
	if !ok {
		return false
	}
	for _, f := range e.Files {
		if f == relPath {
			return true
		}
	}
	return false
}

// Names returns installed hook set names, sorted.
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.InstalledHookSets))
	for name := range l.InstalledHookSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
