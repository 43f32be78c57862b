package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/core/allocator"
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// ScheduleSource defines the dataset reads needed to build a schedule
type ScheduleSource interface {
	LoadResidents(ctx context.Context) ([]model.Resident, error)
	LoadRotations(ctx context.Context) ([]model.Rotation, error)
	LoadVacationPreferences(ctx context.Context) ([]model.VacationPreference, error)
	LoadRotationPreferences(ctx context.Context) ([]model.RotationPreference, error)
}

// ScheduleLoader reads a previously exported schedule
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context, cal *calendar.Calendar) ([]schedule.Row, error)
}

// ScheduleSink persists a finished schedule
type ScheduleSink interface {
	WriteSchedule(ctx context.Context, grid *schedule.Grid) error
}

// loadInputs fetches the four datasets concurrently and validates them together
func loadInputs(ctx context.Context, source ScheduleSource, logger *zap.Logger) (allocator.Inputs, error) {
	var (
		inputs allocator.Inputs
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   = make(map[string]error)
	)

	load := func(dataset string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs[dataset] = err
				mu.Unlock()
			}
		}()
	}

	load(model.DatasetResidents, func() (err error) {
		inputs.Residents, err = source.LoadResidents(ctx)
		return err
	})
	load(model.DatasetRotations, func() (err error) {
		inputs.Rotations, err = source.LoadRotations(ctx)
		return err
	})
	load(model.DatasetVacationPreferences, func() (err error) {
		inputs.VacationPreferences, err = source.LoadVacationPreferences(ctx)
		return err
	})
	load(model.DatasetRotationPreferences, func() (err error) {
		inputs.RotationPreferences, err = source.LoadRotationPreferences(ctx)
		return err
	})

	wg.Wait()

	// Report in a fixed order
	for _, dataset := range []string{
		model.DatasetResidents,
		model.DatasetRotations,
		model.DatasetVacationPreferences,
		model.DatasetRotationPreferences,
	} {
		if err, ok := errs[dataset]; ok {
			return allocator.Inputs{}, fmt.Errorf("failed to load %s: %w", dataset, err)
		}
	}

	logger.Debug("Inputs loaded",
		zap.Int("residents", len(inputs.Residents)),
		zap.Int("rotations", len(inputs.Rotations)),
		zap.Int("vacation_preferences", len(inputs.VacationPreferences)),
		zap.Int("rotation_preferences", len(inputs.RotationPreferences)))

	if err := allocator.ValidateInputs(inputs); err != nil {
		return allocator.Inputs{}, fmt.Errorf("failed to validate inputs: %w", err)
	}

	return inputs, nil
}

// emptyCellsByResident counts unassigned cells per resident, omitting complete rows
func emptyCellsByResident(grid *schedule.Grid) map[model.ResidentID]int {
	counts := make(map[model.ResidentID]int)
	for _, ref := range grid.EmptyCells() {
		counts[ref.Resident]++
	}
	return counts
}
