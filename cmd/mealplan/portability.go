package mealplan

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export plans, templates, profile and theme (json or csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withStore(cmd, func(s *session) error {
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				b, err := service.EncodeExport(service.ExportDataSnapshot(s.store.Snapshot(), nowFunc()))
				if err != nil {
					return err
				}
				if err := os.WriteFile(exportOut, b, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
			case "csv":
				if err := writePlansCSV(exportOut, s.store.PlansBetween("", "")); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q (use json or csv)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a json export (merge or replace)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		incoming, err := service.DecodeExport(raw)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *session) error {
			next, report, err := service.PlanImport(s.store.Snapshot(), incoming, service.ImportOptions{Mode: mode, DryRun: importDryRun})
			if err != nil {
				return err
			}
			if !importDryRun {
				s.store.ApplyState(next)
			}
			prefix := "Import report"
			if importDryRun {
				prefix = "Import dry run"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted=%d updated=%d skipped=%d conflicts=%d\n", prefix, report.Inserted, report.Updated, report.Skipped, report.Conflicts)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		})
	},
}

func writePlansCSV(path string, plans []model.DayPlan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export csv: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "kind", "slot_or_type", "name", "calories", "protein_g", "carbs_g", "fat_g", "portions", "duration_min", "intensity", "notes"}); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	for _, p := range plans {
		for _, slot := range model.MealSlots {
			for _, m := range p.Meals[slot] {
				record := []string{p.Date, "meal", string(slot), m.Name, csvFloat(m.Calories), csvFloat(m.ProteinG), csvFloat(m.CarbsG), csvFloat(m.FatG), csvFloat(m.Portions), "", "", m.Notes}
				if err := w.Write(record); err != nil {
					return fmt.Errorf("write export csv row: %w", err)
				}
			}
		}
		for _, e := range p.Exercises {
			record := []string{p.Date, "exercise", string(e.Type), "", "", "", "", "", "", strconv.FormatFloat(e.DurationMin, 'f', -1, 64), string(e.Intensity), e.Notes}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("write export csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input json file path")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Import mode: merge or replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would change without writing")
}
