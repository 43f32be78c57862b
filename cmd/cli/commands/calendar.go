package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
)

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List the subblocks of the academic year with their start dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startFlag, _ := cmd.Flags().GetString("start")

			start, hasStart := app.Cfg.YearStart()
			if startFlag != "" {
				parsed, err := time.Parse("2006-01-02", startFlag)
				if err != nil {
					return fmt.Errorf("start must be a date in YYYY-MM-DD format, got: %s", startFlag)
				}
				start, hasStart = parsed, true
			}

			var dates []time.Time
			if hasStart {
				var err error
				dates, err = app.Calendar.Dates(start, app.Cfg.SubblockRule())
				if err != nil {
					return err
				}
			}

			printCalendar(cmd.OutOrStdout(), app.Calendar, dates)
			return nil
		},
	}

	cmd.Flags().String("start", "", "Academic year start date (overrides calendar.academicYearStart)")

	return cmd
}

// printCalendar lists every subblock; dates may be nil when no start date is known
func printCalendar(out io.Writer, cal *calendar.Calendar, dates []time.Time) {
	fmt.Fprintf(out, "\n%-10s %-6s %-5s %s\n", "Subblock", "Block", "Half", "Starts")
	fmt.Fprintln(out, strings.Repeat("-", 42))

	for i, sb := range cal.Subblocks() {
		starts := colorDim + "-" + colorReset
		if i < len(dates) {
			starts = dates[i].Format("Mon 2006-01-02")
		}
		fmt.Fprintf(out, "%-10s %-6d %-5s %s\n", sb.Label, sb.Block, cal.HalfOf(i), starts)
	}

	if dates == nil {
		fmt.Fprintln(out, "\nNo start date configured: set calendar.academicYearStart or pass --start")
	}
	fmt.Fprintln(out)
}
