package mealplan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/service"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var (
	profileName   string
	profileAge    int
	profileHeight float64
	profileWeight float64
	profileUnit   string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set name, age, height and weight (BMI is derived)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFlags(cmd, "name", "height", "weight"); err != nil {
			return err
		}
		profile, err := service.NormalizeProfileInput(service.ProfileInput{
			Name:   profileName,
			Age:    profileAge,
			Height: profileHeight,
			Weight: profileWeight,
			Units:  profileUnit,
		})
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			stored := s.store.UpdateUserProfile(profile)
			system, err := displayUnits(cmd, s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).Profile(&stored, system))
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile and BMI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			system, err := displayUnits(cmd, s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).Profile(s.store.UserProfile(), system))
			return nil
		})
	},
}

// displayUnits prefers an explicit --unit over display.units from config.
func displayUnits(cmd *cobra.Command, s *session) (service.UnitSystem, error) {
	if cmd.Flags().Changed("unit") {
		return service.ParseUnitSystem(profileUnit)
	}
	return service.ParseUnitSystem(s.cfg.Display.Units)
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Name")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height (cm, or inches with --unit imperial)")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight (kg, or lb with --unit imperial)")
	profileSetCmd.Flags().StringVar(&profileUnit, "unit", "metric", "metric or imperial")
	profileShowCmd.Flags().StringVar(&profileUnit, "unit", "metric", "metric or imperial")
}
