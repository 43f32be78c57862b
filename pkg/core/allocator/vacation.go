package allocator

import (
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// VacationAssignment records a vacation cell written by the pass
type VacationAssignment struct {
	Resident model.ResidentID
	Half     calendar.Half
	Label    string

	// Choice is the 1-based rank of the preference that was granted
	Choice int
}

// VacationOutcome represents the result of a vacation pass
type VacationOutcome struct {
	Assigned []VacationAssignment

	// UnknownResidents are preference records naming a resident with no row in the grid
	UnknownResidents []model.ResidentID

	// UnusableChoices counts non-blank choices that were not a label of their half
	UnusableChoices int

	// Unsatisfied lists resident halves where no choice could be granted
	Unsatisfied []VacationAssignment
}

// AssignVacations grants each resident the first satisfiable vacation choice in each half.
//
// Per preference record and per half, choices are tried in rank order; the first choice
// that is a label of that half and whose cell is empty becomes "Vacation".
// A half in which the resident already has a vacation is left alone, so a resident
// never holds more than one vacation per half and repeated runs change nothing.
// Preferences for unknown residents and unknown labels are skipped without error.
func AssignVacations(grid *schedule.Grid, prefs []model.VacationPreference) *VacationOutcome {
	outcome := &VacationOutcome{
		Assigned:         []VacationAssignment{},
		UnknownResidents: []model.ResidentID{},
	}

	for _, pref := range prefs {
		rowIdx, ok := grid.RowIndex(pref.Resident)
		if !ok {
			outcome.UnknownResidents = append(outcome.UnknownResidents, pref.Resident)
			continue
		}

		assignHalf(grid, rowIdx, pref.Resident, calendar.FirstHalf, pref.FirstHalf, outcome)
		assignHalf(grid, rowIdx, pref.Resident, calendar.SecondHalf, pref.SecondHalf, outcome)
	}

	return outcome
}

func assignHalf(grid *schedule.Grid, rowIdx int, id model.ResidentID, half calendar.Half, choices [3]string, outcome *VacationOutcome) {
	cal := grid.Calendar()

	if hasVacationInHalf(grid, rowIdx, half) {
		return
	}

	requested := false
	for rank, label := range choices {
		if label == "" {
			continue
		}
		requested = true

		col, ok := cal.HalfIndex(label, half)
		if !ok {
			outcome.UnusableChoices++
			continue
		}

		if grid.Fill(rowIdx, col, model.VacationLabel) {
			outcome.Assigned = append(outcome.Assigned, VacationAssignment{
				Resident: id,
				Half:     half,
				Label:    label,
				Choice:   rank + 1,
			})
			return
		}
	}

	if requested {
		outcome.Unsatisfied = append(outcome.Unsatisfied, VacationAssignment{Resident: id, Half: half})
	}
}

func hasVacationInHalf(grid *schedule.Grid, rowIdx int, half calendar.Half) bool {
	cal := grid.Calendar()
	for col, cell := range grid.Rows()[rowIdx].Cells {
		if cell == model.VacationLabel && cal.HalfOf(col) == half {
			return true
		}
	}
	return false
}
