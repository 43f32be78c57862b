package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jakechorley/resident-scheduler/pkg/core/allocator"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

const (
	minNameWidth = 20
	maxCellWidth = 10
	emptyCell    = "-"
)

type cellKey struct {
	resident model.ResidentID
	label    string
}

// printGrid prints one line per resident with one column per subblock.
// Vacation is green, empty cells are dim and cells named in flagged are red.
func printGrid(out io.Writer, grid *schedule.Grid, flagged map[cellKey]bool) {
	labels := grid.Calendar().Labels()

	nameColWidth := minNameWidth
	for _, row := range grid.Rows() {
		if len(row.Resident.String()) > nameColWidth {
			nameColWidth = len(row.Resident.String())
		}
	}
	nameColWidth += 2
	cellColWidth := columnWidth(grid)

	fmt.Fprintf(out, "%-*s", nameColWidth, "")
	for _, label := range labels {
		fmt.Fprintf(out, "%-*s", cellColWidth, strings.TrimPrefix(label, "Block"))
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, strings.Repeat("-", nameColWidth+cellColWidth*len(labels)))
	fmt.Fprintln(out)

	for _, row := range grid.Rows() {
		fmt.Fprintf(out, "%-*s", nameColWidth, row.Resident.String())
		for col, cell := range row.Cells {
			text := truncate(cell, maxCellWidth)
			switch {
			case flagged[cellKey{row.Resident, labels[col]}]:
				fmt.Fprintf(out, "%s%-*s%s", colorRed, cellColWidth, text, colorReset)
			case cell == "":
				fmt.Fprintf(out, "%s%-*s%s", colorDim, cellColWidth, emptyCell, colorReset)
			case cell == model.VacationLabel:
				fmt.Fprintf(out, "%s%-*s%s", colorGreen, cellColWidth, text, colorReset)
			default:
				fmt.Fprintf(out, "%-*s", cellColWidth, text)
			}
		}
		fmt.Fprintln(out)
	}
}

// columnWidth fits the longest cell (capped) and the shortened subblock labels
func columnWidth(grid *schedule.Grid) int {
	width := len("13B")
	for _, row := range grid.Rows() {
		for _, cell := range row.Cells {
			if n := len(truncate(cell, maxCellWidth)); n > width {
				width = n
			}
		}
	}
	return width + 1
}

func truncate(value string, width int) string {
	if len(value) <= width {
		return value
	}
	if width <= 1 {
		return value[:width]
	}
	return value[:width-1] + "~"
}

// flaggedCells indexes violations by cell for highlighting
func flaggedCells(violations []allocator.CellValidationError) map[cellKey]bool {
	flagged := make(map[cellKey]bool, len(violations))
	for _, v := range violations {
		if v.Label != "" {
			flagged[cellKey{v.Resident, v.Label}] = true
		}
	}
	return flagged
}

func printViolations(out io.Writer, violations []allocator.CellValidationError) {
	if len(violations) == 0 {
		fmt.Fprintf(out, "%sNo rule violations%s\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(out, "%s%d rule violation(s):%s\n", colorRed, len(violations), colorReset)
	for _, v := range violations {
		if v.Label == "" {
			fmt.Fprintf(out, "  %s [%s] %s\n", v.Resident, v.Rule, v.Description)
			continue
		}
		fmt.Fprintf(out, "  %s %s [%s] %s\n", v.Resident, v.Label, v.Rule, v.Description)
	}
}

// printEmptyCells lists residents with unassigned cells, most incomplete first
func printEmptyCells(out io.Writer, emptyCells map[model.ResidentID]int) {
	if len(emptyCells) == 0 {
		fmt.Fprintf(out, "%sSchedule complete: every cell assigned%s\n", colorGreen, colorReset)
		return
	}

	ids := make([]model.ResidentID, 0, len(emptyCells))
	for id := range emptyCells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if emptyCells[ids[i]] != emptyCells[ids[j]] {
			return emptyCells[ids[i]] > emptyCells[ids[j]]
		}
		return ids[i].String() < ids[j].String()
	})

	fmt.Fprintf(out, "%sSchedule incomplete:%s\n", colorYellow, colorReset)
	for _, id := range ids {
		fmt.Fprintf(out, "  %-30s %d empty subblock(s)\n", id.String(), emptyCells[id])
	}
}

func printLegend(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Legend:")
	fmt.Fprintf(out, "  %sVacation%s = granted vacation\n", colorGreen, colorReset)
	fmt.Fprintf(out, "  %s%s%s        = unassigned\n", colorDim, emptyCell, colorReset)
	fmt.Fprintf(out, "  %sRed%s      = rule violation\n", colorRed, colorReset)
}
