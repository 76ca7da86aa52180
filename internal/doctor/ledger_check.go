package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iowarp/iowarp-hooks/internal/constants"
	"github.com/iowarp/iowarp-hooks/internal/metadata"
)

// LedgerCheck cross-references the install ledger against the hook files on
// disk: every ledger-listed file should exist, and every file under hooks/
// should belong to some installed set.
type LedgerCheck struct {
	BaseCheck
}

// NewLedgerCheck creates the ledger/file consistency check.
func NewLedgerCheck() *LedgerCheck {
	return &LedgerCheck{
		BaseCheck: BaseCheck{
			CheckName:        "ledger",
			CheckDescription: "Install ledger matches deployed files",
		},
	}
}

// Run compares ledger entries with the hooks directory.
func (c *LedgerCheck) Run(ctx *CheckContext) *CheckResult {
	ledger, err := metadata.Load(ctx.MetadataPath())
	if err != nil {
		return &CheckResult{
			Status:  StatusError,
			Message: fmt.Sprintf("install ledger unreadable: %v", err),
			FixHint: fmt.Sprintf("inspect %s; reinstalling a hook set rewrites it", ctx.MetadataPath()),
		}
	}

	var details []string

	// Ledger files that no longer exist on disk.
	owned := make(map[string]bool)
	for _, name := range ledger.Names() {
		entry, _ := ledger.Get(name)
		for _, rel := range entry.Files {
			owned[rel] = true
			if _, err := os.Stat(filepath.Join(ctx.ClaudeDir, rel)); os.IsNotExist(err) {
				details = append(details, fmt.Sprintf("%s: recorded file %s is missing", name, rel))
			}
		}
	}

	// Files under hooks/ that no installed set claims.
	hooksDir := filepath.Join(ctx.ClaudeDir, constants.DirHooks)
	_ = filepath.WalkDir(hooksDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ctx.ClaudeDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !owned[rel] {
			details = append(details, fmt.Sprintf("orphan file %s belongs to no installed hook set", rel))
		}
		return nil
	})

	if len(details) > 0 {
		return &CheckResult{
			Status:  StatusWarning,
			Message: fmt.Sprintf("%d inconsistencies between ledger and disk", len(details)),
			Details: details,
			FixHint: "reinstall the affected hook sets, or remove the orphan files",
		}
	}

	return &CheckResult{
		Status:  StatusOK,
		Message: fmt.Sprintf("%d installed hook sets consistent with disk", len(ledger.Names())),
	}
}
