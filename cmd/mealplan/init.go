package mealplan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/saadjs/mealplan-cli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config and storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := app.EnsureParentDir(path); err != nil {
				return err
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
		}
		return withStore(cmd, func(s *session) error {
			if err := s.boundary.Save(cmd.Context(), s.store.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized mealplan storage (%s)\n", s.where)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
