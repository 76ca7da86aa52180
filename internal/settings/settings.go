// Package settings reads, merges, and retracts hook bindings in the host's
// settings document.
//
// The settings document is the host application's own JSON configuration
// file (for Claude Code, .claude/settings.json). This package owns only the
// "hooks" section; every other top-level key is carried through untouched.
// Ownership of a binding is structural: a hook set owns exactly the rendered
// command strings its manifest produces, so merge and retract compare
// event+matcher+command tuples and nothing else.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/iowarp/iowarp-hooks/internal/util"
)

// ErrCorrupt means the settings document exists but is not valid JSON. This
// is never auto-repaired; the operator must fix or remove the file.
var ErrCorrupt = errors.New("settings file is not valid JSON")

// hooksKey is the top-level key this package owns.
const hooksKey = "hooks"

// BindingGroup is one matcher with its ordered command list under an event.
// Fields this installer does not model are carried through extra so a group
// written by another tool survives a save byte-for-byte in content.
type BindingGroup struct {
	Matcher string      `json:"matcher"`
	Hooks   []HookEntry `json:"hooks"`

	extra map[string]json.RawMessage
}

// HookEntry is a single command binding in the settings document. Like
// BindingGroup, unknown fields are round-tripped via extra.
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`

	extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the known fields and keeps everything else verbatim.
func (g *BindingGroup) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["matcher"]; ok {
		if err := json.Unmarshal(v, &g.Matcher); err != nil {
			return err
		}
		delete(raw, "matcher")
	}
	if v, ok := raw["hooks"]; ok {
		if err := json.Unmarshal(v, &g.Hooks); err != nil {
			return err
		}
		delete(raw, "hooks")
	}
	if len(raw) > 0 {
		g.extra = raw
	}
	return nil
}

// MarshalJSON re-emits the known fields alongside the preserved unknown ones.
func (g BindingGroup) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(g.extra)+2)
	for k, v := range g.extra {
		out[k] = v
	}
	var err error
	if out["matcher"], err = json.Marshal(g.Matcher); err != nil {
		return nil, err
	}
	if out["hooks"], err = json.Marshal(g.Hooks); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the known fields and keeps everything else verbatim.
func (e *HookEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, dst := range map[string]interface{}{
		"type":    &e.Type,
		"command": &e.Command,
		"timeout": &e.Timeout,
	} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		e.extra = raw
	}
	return nil
}

// MarshalJSON re-emits the known fields alongside the preserved unknown ones.
func (e HookEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.extra)+3)
	for k, v := range e.extra {
		out[k] = v
	}
	var err error
	if out["type"], err = json.Marshal(e.Type); err != nil {
		return nil, err
	}
	if out["command"], err = json.Marshal(e.Command); err != nil {
		return nil, err
	}
	if e.Timeout != 0 {
		if out["timeout"], err = json.Marshal(e.Timeout); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// Bindings maps event names to binding groups, the shape this installer
// contributes to the document.
type Bindings map[string][]BindingGroup

// Document is a parsed settings file. Hooks holds the decoded hooks
// section; extra carries all other top-level keys verbatim so a save never
// drops configuration this tool does not understand.
type Document struct {
	Hooks Bindings

	extra map[string]json.RawMessage

	// existed records whether Load found a file, so Retract on a
	// never-installed scope does not create one.
	existed bool
}

// NewDocument returns an empty settings document.
func NewDocument() *Document {
	return &Document{
		Hooks: make(Bindings),
		extra: make(map[string]json.RawMessage),
	}
}

// Load reads the settings document at path. A missing file yields an empty
// document; malformed JSON yields ErrCorrupt.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	doc := NewDocument()
	doc.existed = true
	for key, val := range raw {
		if key != hooksKey {
			doc.extra[key] = val
			continue
		}
		if err := json.Unmarshal(val, &doc.Hooks); err != nil {
			return nil, fmt.Errorf("%w: %s: hooks section: %v", ErrCorrupt, path, err)
		}
	}
	return doc, nil
}

// Save writes the document to path atomically. The document on disk is
// always either the previous version or the new one, never a partial write.
func (d *Document) Save(path string) error {
	out := make(map[string]json.RawMessage, len(d.extra)+1)
	for key, val := range d.extra {
		out[key] = val
	}
	if len(d.Hooks) > 0 {
		hooks, err := json.Marshal(d.Hooks)
		if err != nil {
			return fmt.Errorf("encoding hooks section: %w", err)
		}
		out[hooksKey] = hooks
	}
	return util.EnsureDirAndWriteJSON(path, out)
}

// Merge folds bindings into the document. For each event and group, an
// existing group with the same matcher absorbs the new commands as a
// set-union on exact command-string equality: existing commands keep their
// order, new ones append at the end. Groups with no existing matcher append
// after the current groups. Merging the same bindings twice is a no-op.
func (d *Document) Merge(bindings Bindings) {
	for _, event := range sortedEvents(bindings) {
		for _, incoming := range bindings[event] {
			d.mergeGroup(event, incoming)
		}
	}
}

func (d *Document) mergeGroup(event string, incoming BindingGroup) {
	groups := d.Hooks[event]
	for i := range groups {
		if groups[i].Matcher != incoming.Matcher {
			continue
		}
		for _, hook := range incoming.Hooks {
			if !hasCommand(groups[i].Hooks, hook.Command) {
				groups[i].Hooks = append(groups[i].Hooks, hook)
			}
		}
		d.Hooks[event] = groups
		return
	}
	// No group with this matcher yet; append a copy so later merges cannot
	// alias the caller's slice.
	group := BindingGroup{Matcher: incoming.Matcher, Hooks: append([]HookEntry(nil), incoming.Hooks...)}
	d.Hooks[event] = append(groups, group)
}

// Retract removes exactly the event+matcher+command tuples in bindings.
// Groups emptied by the removal are dropped, and events with no remaining
// groups are dropped. Commands already absent are skipped, so retracting
// twice is a no-op.
func (d *Document) Retract(bindings Bindings) {
	for event, incoming := range bindings {
		groups, ok := d.Hooks[event]
		if !ok {
			continue
		}

		for _, target := range incoming {
			for i := range groups {
				if groups[i].Matcher != target.Matcher {
					continue
				}
				groups[i].Hooks = removeCommands(groups[i].Hooks, target.Hooks)
			}
		}

		kept := groups[:0]
		for _, g := range groups {
			if len(g.Hooks) > 0 {
				kept = append(kept, g)
			}
		}
		if len(kept) == 0 {
			delete(d.Hooks, event)
		} else {
			d.Hooks[event] = kept
		}
	}
}

// Contains reports whether the document already holds the given
// event+matcher+command tuple.
func (d *Document) Contains(event, matcher, command string) bool {
	for _, group := range d.Hooks[event] {
		if group.Matcher != matcher {
			continue
		}
		if hasCommand(group.Hooks, command) {
			return true
		}
	}
	return false
}

func hasCommand(hooks []HookEntry, command string) bool {
	for _, h := range hooks {
		if h.Command == command {
			return true
		}
	}
	return false
}

func removeCommands(hooks []HookEntry, targets []HookEntry) []HookEntry {
	kept := hooks[:0]
	for _, h := range hooks {
		if hasCommand(targets, h.Command) {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

func sortedEvents(b Bindings) []string {
	events := make([]string, 0, len(b))
	for event := range b {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}

// Merge is the package-level read-modify-atomic-write cycle: load the
// document at path (missing file treated as empty), fold in bindings, and
// save the result. This is the sole safeguard on the shared settings file;
// there is no lock, so two simultaneous installs race at whole-document
// granularity.
func Merge(path string, bindings Bindings) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	doc.Merge(bindings)
	return doc.Save(path)
}

// Retract is the inverse cycle: load, remove owned tuples, save. A missing
// document or already-absent tuples make this a no-op that still succeeds.
func Retract(path string, bindings Bindings) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	if !doc.existed {
		return nil
	}
	doc.Retract(bindings)
	return doc.Save(path)
}
