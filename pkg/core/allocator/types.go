package allocator

import (
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
)

// FairnessTracker counts, per level, how many subblocks each rotation has been assigned
// during one run. It is shared by every resident processed by the same RotationAssigner.
type FairnessTracker struct {
	counts map[int]map[string]int
}

// NewFairnessTracker creates an empty tracker
func NewFairnessTracker() *FairnessTracker {
	return &FairnessTracker{counts: make(map[int]map[string]int)}
}

// Count returns how many times the rotation has been assigned at the given level so far
func (f *FairnessTracker) Count(level int, rotation string) int {
	return f.counts[level][rotation]
}

// Record increments the usage count of the rotation at the given level
func (f *FairnessTracker) Record(level int, rotation string) {
	if f.counts[level] == nil {
		f.counts[level] = make(map[string]int)
	}
	f.counts[level][rotation]++
}

// Snapshot returns a copy of the counts for one level
func (f *FairnessTracker) Snapshot(level int) map[string]int {
	snapshot := make(map[string]int, len(f.counts[level]))
	for name, count := range f.counts[level] {
		snapshot[name] = count
	}
	return snapshot
}

// RequirementTracker holds one resident's remaining required count per rotation
type RequirementTracker struct {
	remaining map[string]int
}

// NewRequirementTracker records the required count of every rotation required at the level.
// Subblocks already holding a rotation in existing count toward its requirement, so a
// partially filled row is not asked for the same requirement twice.
func NewRequirementTracker(level int, catalog []model.Rotation, existing []string) *RequirementTracker {
	tracker := &RequirementTracker{remaining: make(map[string]int)}

	for _, rotation := range catalog {
		if required := rotation.RequiredAt(level); required > 0 {
			tracker.remaining[rotation.Name] = required
		}
	}

	for _, cell := range existing {
		tracker.Consume(cell)
	}

	return tracker
}

// Remaining returns the outstanding required count for a rotation (0 if not required)
func (r *RequirementTracker) Remaining(rotation string) int {
	return r.remaining[rotation]
}

// IsMet returns true if the resident owes no further subblocks of the rotation
func (r *RequirementTracker) IsMet(rotation string) bool {
	return r.remaining[rotation] == 0
}

// Consume decrements the outstanding count for the rotation, never below zero.
// Returns true if a requirement was consumed.
func (r *RequirementTracker) Consume(rotation string) bool {
	if r.remaining[rotation] <= 0 {
		return false
	}
	r.remaining[rotation]--
	return true
}

// Outstanding returns every rotation with a remaining requirement
func (r *RequirementTracker) Outstanding() map[string]int {
	outstanding := make(map[string]int)
	for name, count := range r.remaining {
		if count > 0 {
			outstanding[name] = count
		}
	}
	return outstanding
}

// ResidentState is the view of one resident that criteria rank candidates against
type ResidentState struct {
	Resident     model.Resident
	Requirements *RequirementTracker
	Fairness     *FairnessTracker
}
