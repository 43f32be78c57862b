package schedule

import (
	"fmt"
	"slices"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
)

// Row is one resident's line of the schedule, one cell per subblock.
// An empty string is an unassigned cell.
type Row struct {
	Resident model.ResidentID
	Cells    []string
}

// Grid is the schedule: one row per resident, one column per subblock
type Grid struct {
	calendar *calendar.Calendar
	rows     []*Row
	index    map[model.ResidentID]int
}

// CellRef addresses a single cell
type CellRef struct {
	Resident model.ResidentID
	Row      int
	Column   int
	Label    string
}

// NewGrid builds an empty schedule with one row per resident in roster order
func NewGrid(cal *calendar.Calendar, residents []model.Resident) (*Grid, error) {
	ids := make([]model.ResidentID, len(residents))
	for i, resident := range residents {
		ids[i] = resident.ID
	}

	grid, err := newGrid(cal, ids, model.DatasetResidents)
	if err != nil {
		return nil, err
	}

	for _, row := range grid.rows {
		row.Cells = make([]string, cal.Len())
	}

	return grid, nil
}

// FromRows rebuilds a grid from previously exported rows. Cells are copied.
func FromRows(cal *calendar.Calendar, rows []Row) (*Grid, error) {
	ids := make([]model.ResidentID, len(rows))
	for i, row := range rows {
		ids[i] = row.Resident
	}

	grid, err := newGrid(cal, ids, model.DatasetSchedule)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if len(row.Cells) != cal.Len() {
			return nil, &model.ValidationError{
				Dataset: model.DatasetSchedule,
				Row:     i + 1,
				Field:   "cells",
				Reason:  fmt.Sprintf("has %d subblocks, calendar has %d", len(row.Cells), cal.Len()),
			}
		}
		grid.rows[i].Cells = slices.Clone(row.Cells)
	}

	return grid, nil
}

func newGrid(cal *calendar.Calendar, ids []model.ResidentID, dataset string) (*Grid, error) {
	grid := &Grid{
		calendar: cal,
		rows:     make([]*Row, 0, len(ids)),
		index:    make(map[model.ResidentID]int, len(ids)),
	}

	for i, id := range ids {
		if id.LastName == "" {
			return nil, &model.ValidationError{Dataset: dataset, Row: i + 1, Field: "Last Name", Reason: "is required"}
		}
		if id.FirstName == "" {
			return nil, &model.ValidationError{Dataset: dataset, Row: i + 1, Field: "First Name", Reason: "is required"}
		}
		if first, exists := grid.index[id]; exists {
			return nil, &model.ValidationError{
				Dataset: dataset,
				Row:     i + 1,
				Field:   "Last Name",
				Reason:  fmt.Sprintf("duplicate resident %s (first seen on row %d)", id, first+1),
			}
		}

		grid.index[id] = i
		grid.rows = append(grid.rows, &Row{Resident: id})
	}

	return grid, nil
}

// Calendar returns the calendar the grid columns follow
func (g *Grid) Calendar() *calendar.Calendar {
	return g.calendar
}

// Len returns the number of rows
func (g *Grid) Len() int {
	return len(g.rows)
}

// Rows returns the rows in roster order
func (g *Grid) Rows() []*Row {
	return g.rows
}

// RowIndex resolves a resident to its row
func (g *Grid) RowIndex(id model.ResidentID) (int, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// Cell returns the value of a cell
func (g *Grid) Cell(row, col int) string {
	return g.rows[row].Cells[col]
}

// IsEmpty returns true if the cell has not been assigned
func (g *Grid) IsEmpty(row, col int) bool {
	return g.rows[row].Cells[col] == ""
}

// Fill writes value into the cell if it is empty.
// Returns false, leaving the grid untouched, if the cell was already assigned.
func (g *Grid) Fill(row, col int, value string) bool {
	if !g.IsEmpty(row, col) {
		return false
	}
	g.rows[row].Cells[col] = value
	return true
}

// EmptyCells returns every unassigned cell in row then calendar order
func (g *Grid) EmptyCells() []CellRef {
	var refs []CellRef
	for i, row := range g.rows {
		for j, cell := range row.Cells {
			if cell == "" {
				refs = append(refs, CellRef{
					Resident: row.Resident,
					Row:      i,
					Column:   j,
					Label:    g.calendar.Subblocks()[j].Label,
				})
			}
		}
	}
	return refs
}

// Count returns how many cells of the row hold value
func (g *Grid) Count(row int, value string) int {
	count := 0
	for _, cell := range g.rows[row].Cells {
		if cell == value {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		calendar: g.calendar,
		rows:     make([]*Row, len(g.rows)),
		index:    make(map[model.ResidentID]int, len(g.index)),
	}
	for i, row := range g.rows {
		clone.rows[i] = &Row{Resident: row.Resident, Cells: slices.Clone(row.Cells)}
	}
	for id, idx := range g.index {
		clone.index[id] = idx
	}
	return clone
}
