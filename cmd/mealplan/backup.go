package mealplan

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/saadjs/mealplan-cli/internal/persist"
	"github.com/saadjs/mealplan-cli/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage snapshots of the storage slot",
}

var (
	backupOut   string
	backupDir   string
	restoreFile string
)

func resolveBackupDir() (string, error) {
	if backupDir != "" {
		return backupDir, nil
	}
	return app.DefaultBackupDir()
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write the current state to a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := backupOut
		if out == "" {
			dir, err := resolveBackupDir()
			if err != nil {
				return err
			}
			out = filepath.Join(dir, fmt.Sprintf("mealplan-%s.json", nowFunc().Format("20060102-150405")))
		}
		return withStore(cmd, func(s *session) error {
			payload, err := persist.Encode(s.store.Snapshot())
			if err != nil {
				return err
			}
			info, err := service.CreateBackup(payload, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveBackupDir()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "FILE\tSIZE\tCREATED\tCHECKSUM")
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", it.Path, it.SizeBytes, it.CreatedAt.Format(time.RFC3339), it.Checksum)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the current state with a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		payload, err := service.ReadBackup(restoreFile)
		if err != nil {
			return err
		}
		st, err := persist.Decode(payload)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			s.store.ApplyState(st)
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s\n", restoreFile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup output file path")
	backupCreateCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (used when --out is empty)")
	backupListCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: user config dir under backups/)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .json file path")
}
