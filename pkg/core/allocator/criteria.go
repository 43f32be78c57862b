package allocator

import "github.com/jakechorley/resident-scheduler/pkg/core/model"

// Criterion contributes one component of the ordering key used to pick a rotation for a cell.
// Keys are compared component by component in criteria order; lower ranks win.
// Rotation preferences would slot in here as an extra criterion ahead of fairness.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// Rank scores a candidate rotation for the resident. Lower values are preferred.
	Rank(state *ResidentState, rotation model.Rotation) int
}

// DefaultCriteria returns the ordering used by the rotation pass:
// outstanding requirements first, then least-used rotation at the resident's level
func DefaultCriteria() []Criterion {
	return []Criterion{
		RequirementCriterion{},
		FairnessCriterion{},
	}
}

// RequirementCriterion prefers rotations that still owe the resident a required subblock.
//
// Rank:
//   - 0 if the resident has an outstanding requirement for the rotation
//   - 1 otherwise (requirement met, or never required)
type RequirementCriterion struct{}

func (RequirementCriterion) Name() string {
	return "Requirement"
}

func (RequirementCriterion) Rank(state *ResidentState, rotation model.Rotation) int {
	if state.Requirements.IsMet(rotation.Name) {
		return 1
	}
	return 0
}

// FairnessCriterion balances load across residents of the same level by preferring
// the rotation assigned the fewest times at that level so far in the run.
type FairnessCriterion struct{}

func (FairnessCriterion) Name() string {
	return "Fairness"
}

func (FairnessCriterion) Rank(state *ResidentState, rotation model.Rotation) int {
	return state.Fairness.Count(state.Resident.Level, rotation.Name)
}
