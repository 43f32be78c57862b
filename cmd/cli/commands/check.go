package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/clients/csvclient"
	"github.com/jakechorley/resident-scheduler/pkg/core/services"
)

// CheckCmd creates the check command
func CheckCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [schedule.csv]",
		Short: "Check an exported schedule against the roster and rotation catalog",
		Long: `Check an exported (and possibly hand-edited) schedule against the current
roster and rotation catalog. Defaults to the configured output file.
Exits with an error when any rule is violated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Cfg.Output
			if len(args) > 0 {
				path = args[0]
			}
			hideGrid, _ := cmd.Flags().GetBool("no-grid")

			app.Logger.Debug("check command", zap.String("path", path))

			loader := csvclient.NewScheduleFile(app.CSV, path)
			result, err := services.CheckSchedule(app.Ctx, app.Datasets, loader, app.Calendar, app.Logger)
			if err != nil {
				return err
			}

			printCheckResult(cmd.OutOrStdout(), result, path, !hideGrid)

			if len(result.Violations) > 0 {
				return fmt.Errorf("schedule has %d rule violation(s)", len(result.Violations))
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-grid", false, "Print the findings only")

	return cmd
}

func printCheckResult(out io.Writer, result *services.CheckResult, path string, showGrid bool) {
	fmt.Fprintf(out, "\nChecked %s (%d row(s))\n\n", path, result.Grid.Len())

	if showGrid && result.Grid.Len() > 0 {
		printGrid(out, result.Grid, flaggedCells(result.Violations))
		printLegend(out)
		fmt.Fprintln(out)
	}

	printViolations(out, result.Violations)

	if len(result.MissingResidents) > 0 {
		fmt.Fprintf(out, "%s%d resident(s) on the roster have no row:%s\n", colorYellow, len(result.MissingResidents), colorReset)
		for _, id := range result.MissingResidents {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}

	printEmptyCells(out, result.EmptyCells)
	fmt.Fprintln(out)
}
