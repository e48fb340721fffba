package mealplan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var (
	summaryDate string
	summaryFrom string
	summaryTo   string
	summaryJSON bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize calories, macros and exercise for a day or a range",
	RunE: func(cmd *cobra.Command, args []string) error {
		ranged := strings.TrimSpace(summaryFrom) != "" || strings.TrimSpace(summaryTo) != ""
		if ranged {
			if summaryFrom == "" || summaryTo == "" {
				return fmt.Errorf("--from and --to are required together")
			}
			if summaryDate != "" {
				return fmt.Errorf("use either --date or --from/--to")
			}
		}
		return withStore(cmd, func(s *session) error {
			if ranged {
				report, err := service.AnalyticsRange(s.store.DayPlans(), strings.TrimSpace(summaryFrom), strings.TrimSpace(summaryTo))
				if err != nil {
					return err
				}
				if summaryJSON {
					return printJSON(cmd, report)
				}
				printRangeReport(cmd, report)
				return nil
			}

			date, err := resolveDate(summaryDate)
			if err != nil {
				return err
			}
			status := service.SummarizeDay(date, s.store.DayPlans())
			if summaryJSON {
				return printJSON(cmd, status)
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).Summary(status))
			return nil
		})
	},
}

func printRangeReport(cmd *cobra.Command, r *service.AnalyticsReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Range: %s to %s\n", r.FromDate, r.ToDate)
	fmt.Fprintf(out, "Days with plans: %d\n", r.DaysWithPlans)
	fmt.Fprintf(out, "Total calories: %.1f\n", r.TotalCalories)
	fmt.Fprintf(out, "Average calories/day: %.1f\n", r.AverageCaloriesPerDay)
	fmt.Fprintf(out, "Total macros: P %.1f C %.1f F %.1f\n", r.TotalProtein, r.TotalCarbs, r.TotalFat)
	fmt.Fprintf(out, "Exercise minutes: %.1f\n", r.TotalExerciseMinutes)
	if r.HighestDay != nil {
		fmt.Fprintf(out, "Highest day: %s (%.1f kcal)\n", r.HighestDay.Date, r.HighestDay.Calories)
	}
	if r.LowestDay != nil {
		fmt.Fprintf(out, "Lowest day: %s (%.1f kcal)\n", r.LowestDay.Date, r.LowestDay.Calories)
	}
	if len(r.ByExerciseType) > 0 {
		fmt.Fprintln(out, "TYPE\tSESSIONS\tMINUTES")
		for _, b := range r.ByExerciseType {
			fmt.Fprintf(out, "%s\t%d\t%.1f\n", b.Type, b.Sessions, b.Minutes)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Date (YYYY-MM-DD, default today)")
	summaryCmd.Flags().StringVar(&summaryFrom, "from", "", "Range start (YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryTo, "to", "", "Range end (YYYY-MM-DD)")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Output JSON")
}
