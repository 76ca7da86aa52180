package doctor

import (
	"github.com/iowarp/iowarp-hooks/internal/settings"
)

// LegacyCheck detects settings documents still carrying legacy installer
// state (an embedded install ledger or _hook_set ownership tags) and can fix
// them by running the migration.
type LegacyCheck struct {
	FixableCheck
}

// NewLegacyCheck creates the legacy settings check.
func NewLegacyCheck() *LegacyCheck {
	return &LegacyCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "legacy-settings",
				CheckDescription: "Settings document carries no legacy installer state",
			},
		},
	}
}

// Run checks for legacy state.
func (c *LegacyCheck) Run(ctx *CheckContext) *CheckResult {
	needed, err := settings.NeedsMigration(ctx.SettingsPath())
	if err != nil {
		// The settings check reports corruption; stay quiet here.
		return &CheckResult{
			Status:  StatusOK,
			Message: "skipped: settings document unreadable",
		}
	}
	if needed {
		return &CheckResult{
			Status:  StatusWarning,
			Message: "settings document carries legacy installer state",
			FixHint: "run `iowarp-hooks migrate-settings` or `iowarp-hooks doctor --fix`",
		}
	}
	return &CheckResult{
		Status:  StatusOK,
		Message: "no legacy installer state",
	}
}

// Fix migrates the legacy state into the metadata ledger.
func (c *LegacyCheck) Fix(ctx *CheckContext) error {
	_, err := settings.Migrate(ctx.SettingsPath(), ctx.MetadataPath())
	return err
}
