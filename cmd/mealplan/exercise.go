package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Add exercise to day plans",
}

var (
	exType      string
	exDuration  float64
	exIntensity string
	exDate      string
	exNotes     string
	exRecurring string
	exDays      string
)

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an exercise session to a day plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags(cmd, "type", "duration"); err != nil {
			return err
		}
		date, err := resolveDate(exDate)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			ex, err := service.NormalizeExerciseInput(s.store.NewID(), service.ExerciseInput{
				Type:        exType,
				DurationMin: exDuration,
				Intensity:   exIntensity,
				Notes:       exNotes,
				Recurring:   exRecurring,
				Days:        exDays,
			})
			if err != nil {
				return err
			}
			s.store.AddExerciseToPlan(date, ex)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s exercise (%g min) on %s\n", ex.Type, ex.DurationMin, date)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)

	exerciseAddCmd.Flags().StringVar(&exType, "type", "", "cardio, strength, flexibility, sports or other")
	exerciseAddCmd.Flags().Float64Var(&exDuration, "duration", 0, "Duration in minutes")
	exerciseAddCmd.Flags().StringVar(&exIntensity, "intensity", "medium", "low, medium or high")
	exerciseAddCmd.Flags().StringVar(&exDate, "date", "", "Date (YYYY-MM-DD, default today)")
	exerciseAddCmd.Flags().StringVar(&exNotes, "notes", "", "Notes")
	exerciseAddCmd.Flags().StringVar(&exRecurring, "recurring", "", "daily or weekly")
	exerciseAddCmd.Flags().StringVar(&exDays, "days", "", "Weekdays for recurrence, e.g. 1,3,5 or mon,wed,fri")
}
