package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			report := service.RunDoctor(s.store.DayPlans())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plans: %d\n", report.Plans)
			fmt.Fprintf(out, "Duplicate dates: %d\n", len(report.DuplicateDates))
			for _, d := range report.DuplicateDates {
				fmt.Fprintf(out, "  %s: %d plans\n", d.Date, len(d.PlanIDs))
			}
			fmt.Fprintf(out, "Invalid dates: %d\n", len(report.InvalidDates))
			fmt.Fprintf(out, "Misfiled meals: %d\n", report.MisfiledMeals)
			fmt.Fprintf(out, "Missing ids: %d\n", report.MissingIDs)
			fmt.Fprintf(out, "Empty plans: %d\n", report.EmptyPlans)
			if doctorFix && len(report.DuplicateDates) > 0 {
				merged, n := service.MergeDuplicateDates(s.store.DayPlans())
				s.store.ReplaceDayPlans(merged)
				fmt.Fprintf(out, "Merged plans: %d\n", n)
				// Re-check after fixes so exit status reflects final state.
				report = service.RunDoctor(s.store.DayPlans())
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Merge plans that share a date")
}
