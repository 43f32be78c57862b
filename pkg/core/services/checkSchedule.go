package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/core/allocator"
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// CheckResult represents the result of checking an exported schedule
type CheckResult struct {
	Grid       *schedule.Grid
	Violations []allocator.CellValidationError

	// MissingResidents are roster residents with no row in the schedule
	MissingResidents []model.ResidentID

	EmptyCells map[model.ResidentID]int
}

// CheckSchedule validates an exported schedule against the current roster and catalog
func CheckSchedule(ctx context.Context, source ScheduleSource, loader ScheduleLoader, cal *calendar.Calendar, logger *zap.Logger) (*CheckResult, error) {
	inputs, err := loadInputs(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	rows, err := loader.LoadSchedule(ctx, cal)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	grid, err := schedule.FromRows(cal, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	result := &CheckResult{
		Grid:             grid,
		Violations:       allocator.ValidateSchedule(grid, inputs.Residents, inputs.Rotations),
		MissingResidents: []model.ResidentID{},
		EmptyCells:       emptyCellsByResident(grid),
	}

	for _, resident := range inputs.Residents {
		if _, ok := grid.RowIndex(resident.ID); !ok {
			result.MissingResidents = append(result.MissingResidents, resident.ID)
		}
	}

	logger.Info("Schedule checked",
		zap.Int("rows", grid.Len()),
		zap.Int("violations", len(result.Violations)),
		zap.Int("missing_residents", len(result.MissingResidents)))

	return result, nil
}
