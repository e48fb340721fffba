package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last change to day plans (within a shell session)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			if !s.store.Undo() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Undone")
			return nil
		})
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the last undone change (within a shell session)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			if !s.store.Redo() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to redo")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Redone")
			return nil
		})
	},
}

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show undo/redo depth and slot write count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			out := cmd.OutOrStdout()
			if historyClear {
				s.store.ClearHistory()
				fmt.Fprintln(out, "History cleared")
			}
			undo, redo := s.store.HistoryDepth()
			fmt.Fprintf(out, "Undo: %d\nRedo: %d\n", undo, redo)
			n, ok, err := s.boundary.SlotWrites(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "Slot writes: %d\n", n)
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Drop all undo and redo steps")
	rootCmd.AddCommand(undoCmd, redoCmd, historyCmd)
}
