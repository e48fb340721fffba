package mealplan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show day plans",
}

var (
	planDate  string
	planFrom  string
	planTo    string
	planMonth string
)

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan for one date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(planDate)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			rd := s.renderer(cmd)
			plan, ok := s.store.PlanForDate(date)
			if !ok {
				fmt.Fprint(cmd.OutOrStdout(), rd.DayPlan(date, nil))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), rd.DayPlan(date, &plan))
			return nil
		})
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans in a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := strings.TrimSpace(planFrom), strings.TrimSpace(planTo)
		var err error
		if from != "" {
			if from, err = service.ParseDate(from); err != nil {
				return err
			}
		}
		if to != "" {
			if to, err = service.ParseDate(to); err != nil {
				return err
			}
		}
		if from != "" && to != "" && from > to {
			return fmt.Errorf("--from must be <= --to")
		}
		return withStore(cmd, func(s *session) error {
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).PlanList(s.store.PlansBetween(from, to)))
			return nil
		})
	},
}

var planCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar with planned days marked",
	RunE: func(cmd *cobra.Command, args []string) error {
		month := nowFunc()
		if strings.TrimSpace(planMonth) != "" {
			var err error
			if month, err = service.ParseMonth(planMonth); err != nil {
				return err
			}
		}
		return withStore(cmd, func(s *session) error {
			from := month.Format("2006-01") + "-01"
			to := month.Format("2006-01") + "-31"
			plans := s.store.PlansBetween(from, to)
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).Calendar(month, plans, today()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd, planListCmd, planCalendarCmd)

	planShowCmd.Flags().StringVar(&planDate, "date", "", "Date (YYYY-MM-DD, default today)")
	planListCmd.Flags().StringVar(&planFrom, "from", "", "Start date (YYYY-MM-DD)")
	planListCmd.Flags().StringVar(&planTo, "to", "", "End date (YYYY-MM-DD)")
	planCalendarCmd.Flags().StringVar(&planMonth, "month", "", "Month (YYYY-MM, default current month)")
}
