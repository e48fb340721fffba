package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/model"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Choose the color theme",
}

var themeSetCmd = &cobra.Command{
	Use:   "set <default|all-blue|colorful|dark>",
	Short: "Set the color theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		theme, err := model.ParseTheme(args[0])
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			s.store.SetTheme(theme)
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", s.renderer(cmd).ThemeSwatch())
			return nil
		})
	},
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), s.renderer(cmd).ThemeSwatch())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeSetCmd, themeShowCmd)
}
