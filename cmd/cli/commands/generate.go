package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/clients/csvclient"
	"github.com/jakechorley/resident-scheduler/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schedule: vacations first, then rotations",
		Long: `Generate the schedule from the configured datasets.

The blank grid is built from the resident roster, vacation preferences are granted
one per half, then every empty cell is filled with a rotation. Use --through to stop
after an earlier pass and --seed to keep the cells of a previously exported schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			throughFlag, _ := cmd.Flags().GetString("through")
			seedPath, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			output, _ := cmd.Flags().GetString("output")
			hideGrid, _ := cmd.Flags().GetBool("no-grid")

			through, err := services.ParseStage(throughFlag)
			if err != nil {
				return err
			}

			return runGenerate(cmd.OutOrStdout(), app, services.GenerateOptions{
				Through: through,
				DryRun:  dryRun,
			}, output, seedPath, !hideGrid)
		},
	}

	cmd.Flags().String("through", string(services.StageRotations), "Last pass to run: blank, vacations or rotations")
	cmd.Flags().String("seed", "", "Previously exported schedule whose assigned cells are kept")
	cmd.Flags().Bool("dry-run", false, "Run without writing the schedule")
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the configured output)")
	cmd.Flags().Bool("no-grid", false, "Print the summary only")

	return cmd
}

// BlankCmd creates the blank command
func BlankCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blank",
		Short: "Write an empty schedule with one row per resident",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			output, _ := cmd.Flags().GetString("output")

			return runGenerate(cmd.OutOrStdout(), app, services.GenerateOptions{
				Through: services.StageBlank,
				DryRun:  dryRun,
			}, output, "", false)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without writing the schedule")
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the configured output)")

	return cmd
}

func runGenerate(out io.Writer, app *AppContext, opts services.GenerateOptions, output, seedPath string, showGrid bool) error {
	if output == "" {
		output = app.Cfg.Output
	}
	sink := csvclient.NewScheduleFile(app.CSV, output)

	if seedPath != "" {
		opts.Seed = csvclient.NewScheduleFile(app.CSV, seedPath)
	}

	app.Logger.Debug("generate command",
		zap.String("through", string(opts.Through)),
		zap.String("output", output),
		zap.String("seed", seedPath))

	result, err := services.GenerateSchedule(app.Ctx, app.Datasets, sink, app.Calendar, app.Logger, opts)
	if err != nil {
		return err
	}

	printGenerateResult(out, result, output, showGrid)
	return nil
}

func printGenerateResult(out io.Writer, result *services.GenerateResult, output string, showGrid bool) {
	fmt.Fprintf(out, "\n✓ Schedule generated through %s pass\n\n", result.Through)
	fmt.Fprintf(out, "Run ID:    %s\n", result.RunID)
	fmt.Fprintf(out, "Residents: %d\n", len(result.Residents))
	fmt.Fprintf(out, "Rotations: %d\n", len(result.Rotations))

	if result.SeededCells > 0 || len(result.DroppedSeedRows) > 0 {
		fmt.Fprintf(out, "Seeded:    %d cell(s) kept", result.SeededCells)
		if len(result.DroppedSeedRows) > 0 {
			fmt.Fprintf(out, ", %d row(s) dropped (not on roster)", len(result.DroppedSeedRows))
		}
		fmt.Fprintln(out)
	}

	if v := result.Vacations; v != nil {
		fmt.Fprintf(out, "Vacations: %d granted", len(v.Assigned))
		if len(v.Unsatisfied) > 0 {
			fmt.Fprintf(out, ", %s%d half(s) with no available choice%s", colorYellow, len(v.Unsatisfied), colorReset)
		}
		if v.UnusableChoices > 0 {
			fmt.Fprintf(out, ", %d choice(s) outside their half", v.UnusableChoices)
		}
		fmt.Fprintln(out)

		for _, id := range v.UnknownResidents {
			fmt.Fprintf(out, "  %s⚠ vacation preferences for unknown resident %s%s\n", colorYellow, id, colorReset)
		}
	}

	if r := result.RotationPass; r != nil {
		fmt.Fprintf(out, "Assigned:  %d rotation cell(s)\n", r.Assigned)
	}
	fmt.Fprintln(out)

	if showGrid && result.Grid != nil && result.Grid.Len() > 0 {
		printGrid(out, result.Grid, flaggedCells(result.Violations))
		printLegend(out)
		fmt.Fprintln(out)
	}

	printViolations(out, result.Violations)
	if result.Through == services.StageRotations {
		printEmptyCells(out, result.EmptyCells)
	}
	fmt.Fprintln(out)

	if result.Written {
		fmt.Fprintf(out, "Schedule written to %s\n", output)
	} else {
		fmt.Fprintln(out, "Dry run: schedule not written")
	}
}
