package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iowarp/iowarp-hooks/internal/util"
)

// legacyLedgerKey is where early installer versions kept the install ledger:
// inside the settings document itself. Claude Code rejects unknown top-level
// keys in strict mode, so the ledger now lives in its own metadata file.
const legacyLedgerKey = "installed_hook_sets"

// Migrate moves legacy installer state out of the settings document at
// settingsPath: the installed_hook_sets ledger is relocated to metadataPath,
// and per-hook _hook_set tags are stripped. It reports whether anything
// changed. A missing settings file is a no-op.
func Migrate(settingsPath, metadataPath string) (bool, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading settings %s: %w", settingsPath, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, settingsPath, err)
	}

	changed := false

	if ledger, ok := raw[legacyLedgerKey]; ok {
		if err := relocateLedger(metadataPath, ledger); err != nil {
			return false, err
		}
		delete(raw, legacyLedgerKey)
		changed = true
	}

	if hooks, ok := raw[hooksKey]; ok {
		cleaned, stripped, err := stripHookSetTags(hooks)
		if err != nil {
			return false, fmt.Errorf("%w: %s: hooks section: %v", ErrCorrupt, settingsPath, err)
		}
		if stripped {
			raw[hooksKey] = cleaned
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	return true, util.AtomicWriteJSON(settingsPath, raw)
}

// NeedsMigration reports whether the settings document at path still carries
// legacy installer state, without modifying anything.
func NeedsMigration(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	if _, ok := raw[legacyLedgerKey]; ok {
		return true, nil
	}
	if hooks, ok := raw[hooksKey]; ok {
		if _, stripped, err := stripHookSetTags(hooks); err == nil && stripped {
			return true, nil
		}
	}
	return false, nil
}

// relocateLedger merges the legacy ledger into the metadata file, keeping
// any entries the metadata file already has.
func relocateLedger(metadataPath string, ledger json.RawMessage) error {
	meta := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(metadataPath); err == nil {
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("existing metadata %s is not valid JSON: %w", metadataPath, err)
		}
	}
	if _, ok := meta[legacyLedgerKey]; !ok {
		meta[legacyLedgerKey] = ledger
	}
	return util.EnsureDirAndWriteJSON(metadataPath, meta)
}

// stripHookSetTags removes the legacy "_hook_set" ownership tag from every
// binding group in the hooks section.
func stripHookSetTags(hooks json.RawMessage) (json.RawMessage, bool, error) {
	var events map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(hooks, &events); err != nil {
		return nil, false, err
	}

	stripped := false
	for _, groups := range events {
		for _, group := range groups {
			if _, ok := group["_hook_set"]; ok {
				delete(group, "_hook_set")
				stripped = true
			}
		}
	}
	if !stripped {
		return hooks, false, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(events); err != nil {
		return nil, false, err
	}
	return bytes.TrimSpace(buf.Bytes()), true, nil
}
