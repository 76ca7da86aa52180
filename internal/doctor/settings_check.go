package doctor

import (
	"fmt"
	"os"

	"github.com/iowarp/iowarp-hooks/internal/settings"
)

// SettingsCheck verifies that the scope's settings document is parseable
// JSON. A corrupt document blocks every install and uninstall and is never
// repaired automatically.
type SettingsCheck struct {
	BaseCheck
}

// NewSettingsCheck creates the settings validity check.
func NewSettingsCheck() *SettingsCheck {
	return &SettingsCheck{
		BaseCheck: BaseCheck{
			CheckName:        "settings",
			CheckDescription: "Settings document is valid JSON",
		},
	}
}

// Run checks that settings.json loads.
func (c *SettingsCheck) Run(ctx *CheckContext) *CheckResult {
	path := ctx.SettingsPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &CheckResult{
			Status:  StatusOK,
			Message: "no settings document yet",
		}
	}

	if _, err := settings.Load(path); err != nil {
		return &CheckResult{
			Status:  StatusError,
			Message: fmt.Sprintf("settings document is corrupt: %v", err),
			FixHint: fmt.Sprintf("repair or remove %s by hand; it will not be modified automatically", path),
		}
	}

	return &CheckResult{
		Status:  StatusOK,
		Message: "settings document parses",
	}
}
