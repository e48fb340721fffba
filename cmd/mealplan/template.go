package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage reusable meal templates",
}

var (
	tplName     string
	tplSlot     string
	tplCalories float64
	tplProtein  float64
	tplCarbs    float64
	tplFat      float64
	tplPortions float64
	tplNotes    string
)

var templateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a meal template",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			meal, err := service.NormalizeMealInput(s.store.NewID(), service.MealInput{
				Name:     tplName,
				Slot:     tplSlot,
				Calories: optionalFloat(cmd, "calories", tplCalories),
				ProteinG: optionalFloat(cmd, "protein", tplProtein),
				CarbsG:   optionalFloat(cmd, "carbs", tplCarbs),
				FatG:     optionalFloat(cmd, "fat", tplFat),
				Portions: optionalFloat(cmd, "portions", tplPortions),
				Notes:    tplNotes,
			})
			if err != nil {
				return err
			}
			if _, exists := s.store.MealTemplate(meal.Name); exists {
				return fmt.Errorf("template %q already exists", meal.Name)
			}
			s.store.AddMealTemplate(meal)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s\n", meal.Name)
			return nil
		})
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meal templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tSLOT\tCALORIES\tPORTIONS")
			for _, t := range s.store.MealTemplates() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", t.Name, t.Type, optionalString(t.Calories), optionalString(t.Portions))
			}
			return nil
		})
	},
}

func optionalString(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateAddCmd, templateListCmd)

	templateAddCmd.Flags().StringVar(&tplName, "name", "", "Template name")
	templateAddCmd.Flags().StringVar(&tplSlot, "slot", "", "Meal slot: breakfast, lunch, dinner or snack")
	templateAddCmd.Flags().Float64Var(&tplCalories, "calories", 0, "Calories")
	templateAddCmd.Flags().Float64Var(&tplProtein, "protein", 0, "Protein grams")
	templateAddCmd.Flags().Float64Var(&tplCarbs, "carbs", 0, "Carbs grams")
	templateAddCmd.Flags().Float64Var(&tplFat, "fat", 0, "Fat grams")
	templateAddCmd.Flags().Float64Var(&tplPortions, "portions", 0, "Portions the macros are for")
	templateAddCmd.Flags().StringVar(&tplNotes, "notes", "", "Notes")
}
