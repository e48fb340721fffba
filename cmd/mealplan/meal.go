package mealplan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Add meals to day plans",
}

var (
	mealName         string
	mealSlot         string
	mealDate         string
	mealCalories     float64
	mealProtein      float64
	mealCarbs        float64
	mealFat          float64
	mealPortions     float64
	mealNotes        string
	mealTemplate     string
	mealSaveTemplate bool
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a meal to a day plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(mealDate)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			var meal model.Meal
			if strings.TrimSpace(mealTemplate) != "" {
				tpl, ok := s.store.MealTemplate(mealTemplate)
				if !ok {
					return fmt.Errorf("meal template %q not found", mealTemplate)
				}
				meal, err = service.MealFromTemplate(s.store.NewID(), tpl, mealSlot, optionalFloat(cmd, "portions", mealPortions))
				if err != nil {
					return err
				}
			} else {
				meal, err = service.NormalizeMealInput(s.store.NewID(), service.MealInput{
					Name:     mealName,
					Slot:     mealSlot,
					Calories: optionalFloat(cmd, "calories", mealCalories),
					ProteinG: optionalFloat(cmd, "protein", mealProtein),
					CarbsG:   optionalFloat(cmd, "carbs", mealCarbs),
					FatG:     optionalFloat(cmd, "fat", mealFat),
					Portions: optionalFloat(cmd, "portions", mealPortions),
					Notes:    mealNotes,
				})
				if err != nil {
					return err
				}
			}

			if plan, ok := s.store.PlanForDate(date); ok {
				s.store.UpdateDayPlan(plan.WithMeal(meal))
			} else {
				plan := model.DayPlan{ID: s.store.NewID(), Date: date, Meals: model.NewMeals(), Exercises: []model.Exercise{}}
				s.store.AddDayPlan(plan.WithMeal(meal))
			}
			if mealSaveTemplate {
				if _, exists := s.store.MealTemplate(meal.Name); exists {
					s.log.Warn("template %q already exists, not saved again", meal.Name)
				} else {
					tpl := meal.Clone()
					tpl.ID = s.store.NewID()
					s.store.AddMealTemplate(tpl)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s on %s\n", meal.Name, meal.Type, date)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd)

	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().StringVar(&mealSlot, "slot", "", "Meal slot: breakfast, lunch, dinner or snack (optional with --template)")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date (YYYY-MM-DD, default today)")
	mealAddCmd.Flags().Float64Var(&mealCalories, "calories", 0, "Calories")
	mealAddCmd.Flags().Float64Var(&mealProtein, "protein", 0, "Protein grams")
	mealAddCmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "Carbs grams")
	mealAddCmd.Flags().Float64Var(&mealFat, "fat", 0, "Fat grams")
	mealAddCmd.Flags().Float64Var(&mealPortions, "portions", 0, "Portions")
	mealAddCmd.Flags().StringVar(&mealNotes, "notes", "", "Notes")
	mealAddCmd.Flags().StringVar(&mealTemplate, "template", "", "Start from a saved meal template")
	mealAddCmd.Flags().BoolVar(&mealSaveTemplate, "save-template", false, "Also save this meal as a template")
}
