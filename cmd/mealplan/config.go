package mealplan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/saadjs/mealplan-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mealplan configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key>=<value>...",
	Short: "Set configuration values",
	Long:  "Set configuration values by dotted key, e.g. `mealplan config set storage.driver=file history.limit=20`.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("set at least one key=value")
		}
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		updates := 0
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid argument %q (expected key=value)", arg)
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			updates++
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := app.EnsureParentDir(path); err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show current configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
		for _, k := range config.Keys() {
			v, _ := cfg.Get(k)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)
}
