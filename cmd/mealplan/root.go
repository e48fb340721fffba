package mealplan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dbPath  string
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "mealplan plans meals and exercise from your terminal",
	Long:  "mealplan is a local-first meal and exercise planner with undo/redo, a profile with BMI, themes, and a weather widget.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress warnings")
}
