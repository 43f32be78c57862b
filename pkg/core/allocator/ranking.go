package allocator

import (
	"slices"

	"github.com/jakechorley/resident-scheduler/pkg/core/model"
)

// eligibleRotations returns the rotations the resident can be given in a free subblock,
// in catalog order.
//
// A rotation is a candidate if it is eligible at the resident's level
// (required or optional count > 0). A rotation that is required but not optional
// at the level stops being a candidate once the resident's requirement is met.
func eligibleRotations(state *ResidentState, catalog []model.Rotation) []model.Rotation {
	level := state.Resident.Level
	candidates := make([]model.Rotation, 0, len(catalog))

	for _, rotation := range catalog {
		if !rotation.IsEligible(level) {
			continue
		}

		if rotation.OptionalAt(level) == 0 && state.Requirements.IsMet(rotation.Name) {
			continue
		}

		candidates = append(candidates, rotation)
	}

	return candidates
}

// rankingKey builds the ordering key of a candidate, one component per criterion
func rankingKey(state *ResidentState, rotation model.Rotation, criteria []Criterion) []int {
	key := make([]int, len(criteria))
	for i, criterion := range criteria {
		key[i] = criterion.Rank(state, rotation)
	}
	return key
}

// selectRotation picks the candidate with the lexicographically smallest key.
// Ties keep catalog order. Returns false if there are no candidates.
func selectRotation(state *ResidentState, candidates []model.Rotation, criteria []Criterion) (model.Rotation, bool) {
	var best model.Rotation
	var bestKey []int
	found := false

	for _, candidate := range candidates {
		key := rankingKey(state, candidate, criteria)
		if !found || slices.Compare(key, bestKey) < 0 {
			best = candidate
			bestKey = key
			found = true
		}
	}

	return best, found
}
