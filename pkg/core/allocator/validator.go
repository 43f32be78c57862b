package allocator

import (
	"fmt"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// Rule names reported in CellValidationError
const (
	RuleActiveRange     = "ActiveRange"
	RuleEligibility     = "Eligibility"
	RuleUnknownRotation = "UnknownRotation"
	RuleVacationPerHalf = "VacationPerHalf"
	RuleUnknownResident = "UnknownResident"
)

// CellValidationError represents a rule violation found in a finished schedule
type CellValidationError struct {
	Resident    model.ResidentID
	Label       string
	Rule        string
	Description string
}

// ValidateSchedule checks a schedule against the roster and catalog.
// Returns a slice of violations; an empty slice means the schedule is consistent.
//
// Checked:
//   - rotation cells lie inside the resident's active block range
//   - rotation cells name a catalog rotation eligible at the resident's level
//   - at most one vacation per resident per half
//   - every grid row belongs to a roster resident
//
// Empty cells are not violations.
func ValidateSchedule(grid *schedule.Grid, residents []model.Resident, catalog []model.Rotation) []CellValidationError {
	var errors []CellValidationError

	cal := grid.Calendar()
	subblocks := cal.Subblocks()

	rotationsByName := make(map[string]model.Rotation, len(catalog))
	for _, rotation := range catalog {
		rotationsByName[rotation.Name] = rotation
	}

	residentsByID := make(map[model.ResidentID]model.Resident, len(residents))
	for _, resident := range residents {
		residentsByID[resident.ID] = resident
	}

	for _, row := range grid.Rows() {
		resident, ok := residentsByID[row.Resident]
		if !ok {
			errors = append(errors, CellValidationError{
				Resident:    row.Resident,
				Rule:        RuleUnknownResident,
				Description: "Schedule row has no matching resident on the roster",
			})
			continue
		}

		startBlock, endBlock := resident.ActiveBlocks(cal.LastBlock())
		vacations := map[calendar.Half]int{}

		for col, cell := range row.Cells {
			label := subblocks[col].Label

			switch cell {
			case "":
				continue
			case model.VacationLabel:
				half := cal.HalfOf(col)
				vacations[half]++
				if vacations[half] == 2 {
					errors = append(errors, CellValidationError{
						Resident:    row.Resident,
						Label:       label,
						Rule:        RuleVacationPerHalf,
						Description: fmt.Sprintf("More than one vacation in %s", half),
					})
				}
				continue
			}

			rotation, known := rotationsByName[cell]
			if !known {
				errors = append(errors, CellValidationError{
					Resident:    row.Resident,
					Label:       label,
					Rule:        RuleUnknownRotation,
					Description: fmt.Sprintf("Rotation %q is not in the catalog", cell),
				})
				continue
			}

			if block := subblocks[col].Block; block < startBlock || block > endBlock {
				errors = append(errors, CellValidationError{
					Resident:    row.Resident,
					Label:       label,
					Rule:        RuleActiveRange,
					Description: fmt.Sprintf("Block %d is outside active range %d-%d", block, startBlock, endBlock),
				})
			}

			if !rotation.IsEligible(resident.Level) {
				errors = append(errors, CellValidationError{
					Resident:    row.Resident,
					Label:       label,
					Rule:        RuleEligibility,
					Description: fmt.Sprintf("Rotation %q is not eligible at PGY-%d", cell, resident.Level),
				})
			}
		}
	}

	return errors
}
