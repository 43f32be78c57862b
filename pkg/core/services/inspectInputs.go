package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
)

// LevelSummary describes the rotations open to one PGY level
type LevelSummary struct {
	Level     int
	Residents int

	// Eligible lists rotation names with a required or optional count at this level, in catalog order
	Eligible []string

	// Required maps rotation name to required subblocks at this level
	Required map[string]int
}

// Mismatch is a reference in the input data that does not resolve. Mismatches are
// reported for display only; the assignment passes skip them.
type Mismatch struct {
	Dataset  string
	Row      int
	Resident model.ResidentID
	Value    string
	Reason   string
}

// InspectResult contains the loaded inputs and their summary for display
type InspectResult struct {
	Residents           []model.Resident
	Rotations           []model.Rotation
	VacationPreferences []model.VacationPreference
	RotationPreferences []model.RotationPreference

	Levels     []LevelSummary
	Mismatches []Mismatch
}

// InspectInputs loads and validates the inputs and reports, per level, the eligible
// rotations and, per preference row, any reference to an unknown resident, subblock
// label or rotation
func InspectInputs(ctx context.Context, source ScheduleSource, cal *calendar.Calendar, logger *zap.Logger) (*InspectResult, error) {
	inputs, err := loadInputs(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		Residents:           inputs.Residents,
		Rotations:           inputs.Rotations,
		VacationPreferences: inputs.VacationPreferences,
		RotationPreferences: inputs.RotationPreferences,
		Mismatches:          []Mismatch{},
	}

	for level := model.MinLevel; level <= model.MaxLevel; level++ {
		summary := LevelSummary{Level: level, Eligible: []string{}, Required: map[string]int{}}
		for _, resident := range inputs.Residents {
			if resident.Level == level {
				summary.Residents++
			}
		}
		for _, rotation := range inputs.Rotations {
			if rotation.IsEligible(level) {
				summary.Eligible = append(summary.Eligible, rotation.Name)
			}
			if required := rotation.RequiredAt(level); required > 0 {
				summary.Required[rotation.Name] = required
			}
		}
		result.Levels = append(result.Levels, summary)
	}

	residentsByID := make(map[model.ResidentID]model.Resident, len(inputs.Residents))
	for _, resident := range inputs.Residents {
		residentsByID[resident.ID] = resident
	}
	rotationsByName := make(map[string]model.Rotation, len(inputs.Rotations))
	for _, rotation := range inputs.Rotations {
		rotationsByName[rotation.Name] = rotation
	}

	for i, resident := range inputs.Residents {
		for _, name := range resident.EligibleRotations {
			if _, ok := rotationsByName[name]; !ok {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Dataset:  model.DatasetResidents,
					Row:      i + 1,
					Resident: resident.ID,
					Value:    name,
					Reason:   "unknown rotation in Eligible Rotations",
				})
			}
		}
	}

	for i, pref := range inputs.VacationPreferences {
		if pref.Resident.IsZero() {
			continue
		}
		mismatch := Mismatch{Dataset: model.DatasetVacationPreferences, Row: i + 1, Resident: pref.Resident}

		if _, ok := residentsByID[pref.Resident]; !ok {
			mismatch.Reason = "unknown resident"
			result.Mismatches = append(result.Mismatches, mismatch)
			continue
		}

		for _, half := range []calendar.Half{calendar.FirstHalf, calendar.SecondHalf} {
			choices := pref.FirstHalf
			if half == calendar.SecondHalf {
				choices = pref.SecondHalf
			}
			for _, label := range choices {
				if label == "" {
					continue
				}
				if _, ok := cal.IndexOf(label); !ok {
					mismatch.Value, mismatch.Reason = label, "unknown subblock label"
					result.Mismatches = append(result.Mismatches, mismatch)
				} else if _, ok := cal.HalfIndex(label, half); !ok {
					mismatch.Value, mismatch.Reason = label, fmt.Sprintf("not a %s subblock", half)
					result.Mismatches = append(result.Mismatches, mismatch)
				}
			}
		}
	}

	for i, pref := range inputs.RotationPreferences {
		if pref.Resident.IsZero() {
			continue
		}
		mismatch := Mismatch{Dataset: model.DatasetRotationPreferences, Row: i + 1, Resident: pref.Resident}

		resident, ok := residentsByID[pref.Resident]
		if !ok {
			mismatch.Reason = "unknown resident"
			result.Mismatches = append(result.Mismatches, mismatch)
			continue
		}

		for _, choice := range pref.Choices {
			rotation, ok := rotationsByName[choice]
			if !ok {
				mismatch.Value, mismatch.Reason = choice, "unknown rotation"
				result.Mismatches = append(result.Mismatches, mismatch)
			} else if !rotation.IsEligible(resident.Level) {
				mismatch.Value, mismatch.Reason = choice, fmt.Sprintf("not eligible at PGY-%d", resident.Level)
				result.Mismatches = append(result.Mismatches, mismatch)
			}
		}
	}

	logger.Info("Inputs inspected",
		zap.Int("residents", len(result.Residents)),
		zap.Int("rotations", len(result.Rotations)),
		zap.Int("mismatches", len(result.Mismatches)))

	return result, nil
}
