package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testBindings() Bindings {
	return Bindings{
		"PreToolUse": {
			{Matcher: "", Hooks: []HookEntry{
				{Type: "command", Command: "run hook.py --project acme"},
			}},
		},
	}
}

func TestLoad_MissingFile(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Hooks) != 0 {
		t.Errorf("Hooks = %v, want empty for missing file", doc.Hooks)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestMerge_NewDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := Merge(path, testBindings()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	groups := doc.Hooks["PreToolUse"]
	if len(groups) != 1 || groups[0].Matcher != "" {
		t.Fatalf("PreToolUse = %+v, want one group with empty matcher", groups)
	}
	if got := groups[0].Hooks[0].Command; got != "run hook.py --project acme" {
		t.Errorf("command = %q", got)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := Merge(path, testBindings()); err != nil {
		t.Fatalf("first Merge() error = %v", err)
	}
	if err := Merge(path, testBindings()); err != nil {
		t.Fatalf("second Merge() error = %v", err)
	}

	doc, _ := Load(path)
	groups := doc.Hooks["PreToolUse"]
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if len(groups[0].Hooks) != 1 {
		t.Errorf("hooks = %d, want 1 (no duplicate command entries)", len(groups[0].Hooks))
	}
}

func TestMerge_PreservesForeignGroups(t *testing.T) {
	doc := NewDocument()
	doc.Hooks["PreToolUse"] = []BindingGroup{
		{Matcher: "Bash", Hooks: []HookEntry{{Type: "command", Command: "other-set-guard.sh"}}},
	}

	doc.Merge(testBindings())

	groups := doc.Hooks["PreToolUse"]
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want foreign group plus new group", len(groups))
	}
	if groups[0].Matcher != "Bash" || groups[0].Hooks[0].Command != "other-set-guard.sh" {
		t.Errorf("foreign group altered: %+v", groups[0])
	}
	if groups[1].Matcher != "" {
		t.Errorf("new group matcher = %q, want \"\" appended after existing", groups[1].Matcher)
	}
}

func TestMerge_SameMatcherUnion(t *testing.T) {
	doc := NewDocument()
	doc.Hooks["Stop"] = []BindingGroup{
		{Matcher: "", Hooks: []HookEntry{{Type: "command", Command: "first.sh"}}},
	}

	doc.Merge(Bindings{"Stop": {
		{Matcher: "", Hooks: []HookEntry{
			{Type: "command", Command: "first.sh"},
			{Type: "command", Command: "second.sh"},
		}},
	}})

	groups := doc.Hooks["Stop"]
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1 (matcher match merges in place)", len(groups))
	}
	want := []string{"first.sh", "second.sh"}
	var got []string
	for _, h := range groups[0].Hooks {
		got = append(got, h.Command)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v (existing order kept, new appended)", got, want)
	}
}

func TestMerge_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	original := `{
  "model": "opus",
  "permissions": {"allow": ["Bash(ls:*)"]},
  "hooks": {}
}`
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Merge(path, testBindings()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("result not valid JSON: %v", err)
	}
	if string(out["model"]) != `"opus"` {
		t.Errorf("model key = %s, want preserved", out["model"])
	}
	if _, ok := out["permissions"]; !ok {
		t.Error("permissions key dropped by merge")
	}
}

func TestMerge_PreservesForeignGroupFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	original := `{
  "hooks": {
    "PreToolUse": [
      {
        "matcher": "Bash",
        "group_note": "added by another tool",
        "hooks": [
          {"type": "command", "command": "guard.sh", "custom_field": "keep-me"}
        ]
      }
    ]
  }
}`
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Touch a different event entirely; the foreign group must round-trip.
	if err := Merge(path, Bindings{"PostToolUse": {
		{Matcher: "", Hooks: []HookEntry{{Type: "command", Command: "log.sh"}}},
	}}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"group_note"`) {
		t.Error("group-level field from another tool dropped by merge")
	}
	if !strings.Contains(string(data), `"custom_field"`) {
		t.Error("entry-level field from another tool dropped by merge")
	}

	// And retracting our own binding must not disturb it either.
	if err := Retract(path, Bindings{"PostToolUse": {
		{Matcher: "", Hooks: []HookEntry{{Type: "command", Command: "log.sh"}}},
	}}); err != nil {
		t.Fatalf("Retract() error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), `"custom_field"`) {
		t.Error("entry-level field dropped by retract")
	}
}

func TestRetract_ExactInverse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	preexisting := Bindings{
		"PreToolUse": {
			{Matcher: "Bash", Hooks: []HookEntry{{Type: "command", Command: "foreign.sh"}}},
		},
	}
	if err := Merge(path, preexisting); err != nil {
		t.Fatalf("seed Merge() error = %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	// Install then uninstall this set's bindings.
	if err := Merge(path, testBindings()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := Retract(path, testBindings()); err != nil {
		t.Fatalf("Retract() error = %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var wantDoc, gotDoc map[string]interface{}
	if err := json.Unmarshal(before, &wantDoc); err != nil {
		t.Fatalf("before unmarshal: %v", err)
	}
	if err := json.Unmarshal(after, &gotDoc); err != nil {
		t.Fatalf("after unmarshal: %v", err)
	}
	if !reflect.DeepEqual(gotDoc, wantDoc) {
		t.Errorf("document after install+uninstall = %v, want %v", gotDoc, wantDoc)
	}
}

func TestRetract_DropsEmptyGroupAndEvent(t *testing.T) {
	doc := NewDocument()
	doc.Merge(testBindings())

	doc.Retract(testBindings())

	if _, ok := doc.Hooks["PreToolUse"]; ok {
		t.Errorf("PreToolUse key = %v, want removed once empty", doc.Hooks["PreToolUse"])
	}
}

func TestRetract_AbsentIsNoOp(t *testing.T) {
	doc := NewDocument()
	doc.Hooks["Stop"] = []BindingGroup{
		{Matcher: "", Hooks: []HookEntry{{Type: "command", Command: "keep.sh"}}},
	}

	doc.Retract(testBindings())
	doc.Retract(testBindings())

	if len(doc.Hooks["Stop"]) != 1 {
		t.Errorf("Stop = %+v, want untouched", doc.Hooks["Stop"])
	}
}

func TestRetract_MissingFileCreatesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := Retract(path, testBindings()); err != nil {
		t.Fatalf("Retract() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Retract on missing file created a settings document")
	}
}

func TestRetract_HandEditedCommandLeftAlone(t *testing.T) {
	// A hand-edited command no longer matches the rendered string, so
	// retract treats it as already absent.
	doc := NewDocument()
	doc.Hooks["PreToolUse"] = []BindingGroup{
		{Matcher: "", Hooks: []HookEntry{{Type: "command", Command: "run hook.py --project renamed"}}},
	}

	doc.Retract(testBindings())

	if len(doc.Hooks["PreToolUse"]) != 1 {
		t.Errorf("edited command removed, want left in place")
	}
}

func TestSave_Atomic_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	doc := NewDocument()
	doc.Merge(testBindings())

	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "settings.json" {
		t.Errorf("directory entries = %v, want only settings.json", entries)
	}
}

func TestMigrate_LegacyLedgerAndTags(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")
	metadataPath := filepath.Join(dir, ".hook_metadata.json")

	legacy := `{
  "installed_hook_sets": {"observability_log": {"version": "1.0.0"}},
  "hooks": {
    "PreToolUse": [
      {"matcher": "", "_hook_set": "observability_log", "hooks": [{"type": "command", "command": "x.sh"}]}
    ]
  }
}`
	if err := os.WriteFile(settingsPath, []byte(legacy), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	migrated, err := Migrate(settingsPath, metadataPath)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !migrated {
		t.Fatal("Migrate() = false, want true")
	}

	data, _ := os.ReadFile(settingsPath)
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("settings after migrate: %v", err)
	}
	if _, ok := out["installed_hook_sets"]; ok {
		t.Error("installed_hook_sets still in settings after migrate")
	}
	if strings.Contains(string(data), "_hook_set") {
		t.Error("_hook_set tag still in settings after migrate")
	}

	meta, err := os.ReadFile(metadataPath)
	if err != nil {
		t.Fatalf("metadata file: %v", err)
	}
	if !strings.Contains(string(meta), "observability_log") {
		t.Errorf("metadata = %s, want relocated ledger", meta)
	}

	// Second run has nothing to do.
	migrated, err = Migrate(settingsPath, metadataPath)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if migrated {
		t.Error("second Migrate() = true, want false")
	}
}

func TestMigrate_MissingFile(t *testing.T) {
	dir := t.TempDir()
	migrated, err := Migrate(filepath.Join(dir, "settings.json"), filepath.Join(dir, "meta.json"))
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if migrated {
		t.Error("Migrate() = true for missing file, want false")
	}
}
