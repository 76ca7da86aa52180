package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeClaudeFile(t *testing.T, claudeDir, rel, content string) {
	t.Helper()
	path := filepath.Join(claudeDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestSettingsCheck(t *testing.T) {
	ctx := &CheckContext{ClaudeDir: t.TempDir()}
	check := NewSettingsCheck()

	if result := check.Run(ctx); result.Status != StatusOK {
		t.Errorf("missing settings: status = %v, want OK", result.Status)
	}

	writeClaudeFile(t, ctx.ClaudeDir, "settings.json", `{"hooks": {}}`)
	if result := check.Run(ctx); result.Status != StatusOK {
		t.Errorf("valid settings: status = %v, want OK", result.Status)
	}

	writeClaudeFile(t, ctx.ClaudeDir, "settings.json", "{broken")
	result := check.Run(ctx)
	if result.Status != StatusError {
		t.Errorf("corrupt settings: status = %v, want Error", result.Status)
	}
	if check.CanFix() {
		t.Error("corrupt settings must never be auto-fixed")
	}
}

func TestLedgerCheck_Consistent(t *testing.T) {
	ctx := &CheckContext{ClaudeDir: t.TempDir()}
	writeClaudeFile(t, ctx.ClaudeDir, ".hook_metadata.json", `{
  "installed_hook_sets": {
    "observability": {"files": ["hooks/observability/send_event.py"]}
  }
}`)
	writeClaudeFile(t, ctx.ClaudeDir, "hooks/observability/send_event.py", "x\n")

	result := NewLedgerCheck().Run(ctx)
	if result.Status != StatusOK {
		t.Errorf("status = %v, details = %v", result.Status, result.Details)
	}
}

func TestLedgerCheck_MissingAndOrphan(t *testing.T) {
	ctx := &CheckContext{ClaudeDir: t.TempDir()}
	writeClaudeFile(t, ctx.ClaudeDir, ".hook_metadata.json", `{
  "installed_hook_sets": {
    "observability": {"files": ["hooks/observability/send_event.py"]}
  }
}`)
	// Recorded file absent, unrecorded file present.
	writeClaudeFile(t, ctx.ClaudeDir, "hooks/stray/leftover.py", "x\n")

	result := NewLedgerCheck().Run(ctx)
	if result.Status != StatusWarning {
		t.Fatalf("status = %v, want Warning", result.Status)
	}
	joined := strings.Join(result.Details, "\n")
	if !strings.Contains(joined, "send_event.py") {
		t.Errorf("details missing the lost file: %v", result.Details)
	}
	if !strings.Contains(joined, "leftover.py") {
		t.Errorf("details missing the orphan file: %v", result.Details)
	}
}

func TestLegacyCheck_FixMigrates(t *testing.T) {
	ctx := &CheckContext{ClaudeDir: t.TempDir()}
	writeClaudeFile(t, ctx.ClaudeDir, "settings.json", `{
  "installed_hook_sets": {"observability": {"version": "1.0.0"}},
  "hooks": {}
}`)

	check := NewLegacyCheck()
	if result := check.Run(ctx); result.Status != StatusWarning {
		t.Fatalf("status = %v, want Warning before fix", result.Status)
	}

	d := NewDoctor()
	d.RegisterAll(check)
	report := d.Fix(ctx)
	if report.HasErrors() || report.HasWarnings() {
		t.Fatalf("report after fix: %+v", report.Summary)
	}

	if result := check.Run(ctx); result.Status != StatusOK {
		t.Errorf("status = %v after fix, want OK", result.Status)
	}
	if _, err := os.Stat(filepath.Join(ctx.ClaudeDir, ".hook_metadata.json")); err != nil {
		t.Errorf("metadata ledger not created by fix: %v", err)
	}
}

func TestReport_Summary(t *testing.T) {
	report := NewReport()
	report.Add(&CheckResult{Name: "a", Status: StatusOK})
	report.Add(&CheckResult{Name: "b", Status: StatusWarning})
	report.Add(&CheckResult{Name: "c", Status: StatusError})

	if report.Summary.Total != 3 || report.Summary.OK != 1 || report.Summary.Warnings != 1 || report.Summary.Errors != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if !report.HasErrors() || !report.HasWarnings() || report.IsHealthy() {
		t.Error("report predicates inconsistent with summary")
	}

	var out strings.Builder
	report.Print(&out, false)
	if !strings.Contains(out.String(), "3 checks") {
		t.Errorf("Print output = %q", out.String())
	}
}
