package allocator

import (
	"context"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// RotationAssigner fills empty cells with rotations, one resident at a time.
// The fairness counts it owns persist across residents for the lifetime of the assigner.
type RotationAssigner struct {
	catalog  []model.Rotation
	criteria []Criterion
	fairness *FairnessTracker
}

// ResidentOutcome reports what the rotation pass did for one resident
type ResidentOutcome struct {
	Resident model.ResidentID

	// Assigned is the number of cells filled with a rotation
	Assigned int

	// Unfilled is the number of empty cells in the active range left without a rotation
	Unfilled int

	// UnmetRequirements maps rotation name to required subblocks still owed after the pass
	UnmetRequirements map[string]int
}

// RotationOutcome represents the result of a rotation pass
type RotationOutcome struct {
	Residents []ResidentOutcome

	// MissingResidents are roster entries with no row in the grid (skipped)
	MissingResidents []model.ResidentID

	// Assigned is the total number of cells filled
	Assigned int
}

// NewRotationAssigner creates an assigner over the catalog.
// DefaultCriteria is used when no criteria are given.
func NewRotationAssigner(catalog []model.Rotation, criteria ...Criterion) *RotationAssigner {
	if len(criteria) == 0 {
		criteria = DefaultCriteria()
	}
	return &RotationAssigner{
		catalog:  catalog,
		criteria: criteria,
		fairness: NewFairnessTracker(),
	}
}

// Fairness returns the per-level usage counts accumulated so far
func (a *RotationAssigner) Fairness() *FairnessTracker {
	return a.fairness
}

// AssignResident walks the calendar for one resident and fills every empty cell inside
// the resident's active range with the best ranked candidate rotation.
// Returns ok=false if the resident has no row in the grid.
func (a *RotationAssigner) AssignResident(grid *schedule.Grid, resident model.Resident) (ResidentOutcome, bool) {
	outcome := ResidentOutcome{Resident: resident.ID}

	rowIdx, ok := grid.RowIndex(resident.ID)
	if !ok {
		return outcome, false
	}

	cal := grid.Calendar()
	startBlock, endBlock := resident.ActiveBlocks(cal.LastBlock())

	state := &ResidentState{
		Resident:     resident,
		Requirements: NewRequirementTracker(resident.Level, a.catalog, grid.Rows()[rowIdx].Cells),
		Fairness:     a.fairness,
	}

	for _, subblock := range cal.Subblocks() {
		if !grid.IsEmpty(rowIdx, subblock.Index) {
			continue
		}

		block, err := calendar.ParseBlockNumber(subblock.Label)
		if err != nil || block < startBlock || block > endBlock {
			continue
		}

		candidates := eligibleRotations(state, a.catalog)
		rotation, found := selectRotation(state, candidates, a.criteria)
		if !found {
			outcome.Unfilled++
			continue
		}

		grid.Fill(rowIdx, subblock.Index, rotation.Name)
		a.fairness.Record(resident.Level, rotation.Name)
		state.Requirements.Consume(rotation.Name)
		outcome.Assigned++
	}

	outcome.UnmetRequirements = state.Requirements.Outstanding()

	return outcome, true
}

// AssignRotations runs the rotation pass over the roster in order with a fresh assigner
func AssignRotations(grid *schedule.Grid, residents []model.Resident, catalog []model.Rotation) *RotationOutcome {
	// Background context is never cancelled
	outcome, _ := AssignRotationsContext(context.Background(), grid, residents, catalog)
	return outcome
}

// AssignRotationsContext is AssignRotations with cancellation checked between residents.
// On cancellation the residents processed so far stay assigned and ctx.Err() is returned
// with the partial outcome.
func AssignRotationsContext(ctx context.Context, grid *schedule.Grid, residents []model.Resident, catalog []model.Rotation, criteria ...Criterion) (*RotationOutcome, error) {
	assigner := NewRotationAssigner(catalog, criteria...)
	outcome := &RotationOutcome{
		Residents:        []ResidentOutcome{},
		MissingResidents: []model.ResidentID{},
	}

	for _, resident := range residents {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		residentOutcome, ok := assigner.AssignResident(grid, resident)
		if !ok {
			outcome.MissingResidents = append(outcome.MissingResidents, resident.ID)
			continue
		}

		outcome.Residents = append(outcome.Residents, residentOutcome)
		outcome.Assigned += residentOutcome.Assigned
	}

	return outcome, nil
}
