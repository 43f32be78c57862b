package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/resident-scheduler/pkg/core/services"
)

// InspectCmd creates the inspect command
func InspectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Validate the input datasets and summarise eligibility per level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.InspectInputs(app.Ctx, app.Datasets, app.Calendar, app.Logger)
			if err != nil {
				return err
			}

			printInspectResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printInspectResult(out io.Writer, result *services.InspectResult) {
	fmt.Fprintf(out, "\n✓ Inputs are valid\n\n")
	fmt.Fprintf(out, "Residents:            %d\n", len(result.Residents))
	fmt.Fprintf(out, "Rotations:            %d\n", len(result.Rotations))
	fmt.Fprintf(out, "Vacation preferences: %d\n", len(result.VacationPreferences))
	fmt.Fprintf(out, "Rotation preferences: %d\n\n", len(result.RotationPreferences))

	fmt.Fprintf(out, "%-7s %-10s %s\n", "Level", "Residents", "Eligible rotations (required subblocks)")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, level := range result.Levels {
		fmt.Fprintf(out, "PGY-%-3d %-10d %s\n", level.Level, level.Residents, formatEligible(level))
	}
	fmt.Fprintln(out)

	if len(result.Mismatches) == 0 {
		fmt.Fprintf(out, "%sNo unresolved references%s\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(out, "%s%d unresolved reference(s), ignored when generating:%s\n", colorYellow, len(result.Mismatches), colorReset)
	for _, m := range result.Mismatches {
		subject := m.Resident.String()
		if m.Value != "" {
			subject = fmt.Sprintf("%s %q", subject, m.Value)
		}
		fmt.Fprintf(out, "  %s row %d: %s: %s\n", m.Dataset, m.Row, subject, m.Reason)
	}
}

// formatEligible renders "Wards (2), Clinic" for one level
func formatEligible(level services.LevelSummary) string {
	if len(level.Eligible) == 0 {
		return colorDim + "none" + colorReset
	}

	parts := make([]string, 0, len(level.Eligible))
	for _, name := range level.Eligible {
		if required := level.Required[name]; required > 0 {
			parts = append(parts, fmt.Sprintf("%s (%d)", name, required))
			continue
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}
