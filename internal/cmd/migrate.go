package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iowarp/iowarp-hooks/internal/config"
	"github.com/iowarp/iowarp-hooks/internal/constants"
	"github.com/iowarp/iowarp-hooks/internal/settings"
	"github.com/iowarp/iowarp-hooks/internal/style"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateType, "install-type", "", "Install scope: local or global (default from config)")
}

var migrateType string

var migrateCmd = &cobra.Command{
	Use:     "migrate-settings",
	GroupID: GroupMaint,
	Short:   "Move legacy installer state out of settings.json",
	Long: `Early versions kept the install ledger inside settings.json and
tagged binding groups with _hook_set markers. This command relocates the
ledger into .hook_metadata.json and strips the tags.

Running it on an already-migrated scope changes nothing.

Examples:
  iowarp-hooks migrate-settings
  iowarp-hooks migrate-settings --install-type global`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, claudeDir, err := resolveScope(cfg, migrateType)
	if err != nil {
		return err
	}

	changed, err := settings.Migrate(
		filepath.Join(claudeDir, constants.FileSettings),
		filepath.Join(claudeDir, constants.FileMetadata),
	)
	if err != nil {
		return err
	}
	if changed {
		fmt.Printf("%s Migrated legacy installer state in %s\n", style.SuccessPrefix, claudeDir)
	} else {
		fmt.Printf("%s Nothing to migrate in %s\n", style.SuccessPrefix, claudeDir)
	}
	return nil
}
