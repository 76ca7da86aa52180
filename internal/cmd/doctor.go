package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/doctor"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt automatic fixes")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "Show details for passing checks too")
	doctorCmd.Flags().StringVar(&doctorType, "install-type", "", "Install scope: local or global (default from config)")
}

var (
	doctorFix     bool
	doctorVerbose bool
	doctorType    string
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupMaint,
	Short:   "Check the health of an installation scope",
	Long: `Run health checks against a scope's .claude directory:

  settings         settings.json parses (corruption is reported, never repaired)
  ledger           install ledger matches the files on disk
  legacy-settings  no legacy installer state left in settings.json (fixable)

Examples:
  iowarp-hooks doctor
  iowarp-hooks doctor --install-type global --fix`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, claudeDir, err := resolveScope(cfg, doctorType)
	if err != nil {
		return err
	}

	d := doctor.NewDoctor()
	d.RegisterAll(
		doctor.NewSettingsCheck(),
		doctor.NewLedgerCheck(),
		doctor.NewLegacyCheck(),
	)

	ctx := &doctor.CheckContext{ClaudeDir: claudeDir, Verbose: doctorVerbose}
	var report *doctor.Report
	if doctorFix {
		report = d.Fix(ctx)
	} else {
		report = d.Run(ctx)
	}

	report.Print(os.Stdout, doctorVerbose)
	if report.HasErrors() {
		return fmt.Errorf("doctor found problems in %s", claudeDir)
	}
	return nil
}
