package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/core/allocator"
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// Stage is the last pass a generate run performs
type Stage string

const (
	StageBlank     Stage = "blank"
	StageVacations Stage = "vacations"
	StageRotations Stage = "rotations"
)

var stageOrder = map[Stage]int{
	StageBlank:     0,
	StageVacations: 1,
	StageRotations: 2,
}

// ParseStage converts a flag value to a Stage. Empty means every pass.
func ParseStage(value string) (Stage, error) {
	if value == "" {
		return StageRotations, nil
	}
	stage := Stage(value)
	if _, ok := stageOrder[stage]; !ok {
		return "", fmt.Errorf("unknown stage %q (expected blank, vacations or rotations)", value)
	}
	return stage, nil
}

// includes returns true if running through s also runs other
func (s Stage) includes(other Stage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// GenerateOptions controls a generate run
type GenerateOptions struct {
	// Through is the last pass to run (default StageRotations)
	Through Stage

	// Seed, if set, supplies previously assigned cells that are kept as they are
	Seed ScheduleLoader

	// DryRun skips writing the schedule
	DryRun bool
}

// GenerateResult represents the result of a generate run
type GenerateResult struct {
	RunID   string
	Through Stage
	Grid    *schedule.Grid

	Residents []model.Resident
	Rotations []model.Rotation

	// SeededCells is the number of cells copied from the seed schedule
	SeededCells int

	// DroppedSeedRows are seed rows whose resident is no longer on the roster
	DroppedSeedRows []model.ResidentID

	Vacations    *allocator.VacationOutcome // nil when the vacation pass did not run
	RotationPass *allocator.RotationOutcome // nil when the rotation pass did not run

	Violations []allocator.CellValidationError

	// EmptyCells counts unassigned cells per resident (incomplete schedule)
	EmptyCells map[model.ResidentID]int

	Written bool
}

// GenerateSchedule builds a schedule from the input datasets.
// It loads and validates the inputs, builds a blank (or seeded) grid, runs the vacation
// and rotation passes up to opts.Through, checks the result and writes it unless DryRun is set.
// Cancellation is checked between residents of the rotation pass; nothing is written
// for a cancelled run.
func GenerateSchedule(
	ctx context.Context,
	source ScheduleSource,
	sink ScheduleSink,
	cal *calendar.Calendar,
	logger *zap.Logger,
	opts GenerateOptions,
) (*GenerateResult, error) {
	through := opts.Through
	if through == "" {
		through = StageRotations
	}
	if _, ok := stageOrder[through]; !ok {
		return nil, fmt.Errorf("unknown stage %q", through)
	}

	result := &GenerateResult{
		RunID:   uuid.New().String(),
		Through: through,
	}
	logger = logger.With(zap.String("run_id", result.RunID))

	logger.Info("Generating schedule",
		zap.String("through", string(through)),
		zap.Bool("seeded", opts.Seed != nil),
		zap.Bool("dry_run", opts.DryRun))

	// Step 1: Load and validate inputs
	inputs, err := loadInputs(ctx, source, logger)
	if err != nil {
		return nil, err
	}
	result.Residents = inputs.Residents
	result.Rotations = inputs.Rotations

	// Step 2: Build the grid
	grid, err := schedule.NewGrid(cal, inputs.Residents)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule grid: %w", err)
	}
	result.Grid = grid
	logger.Debug("Blank schedule built", zap.Int("rows", grid.Len()), zap.Int("subblocks", cal.Len()))

	if opts.Seed != nil {
		if err := applySeed(ctx, opts.Seed, grid, result); err != nil {
			return nil, err
		}
		logger.Info("Seed schedule applied",
			zap.Int("cells", result.SeededCells),
			zap.Int("dropped_rows", len(result.DroppedSeedRows)))
		for _, id := range result.DroppedSeedRows {
			logger.Warn("Seed row has no resident on the roster", zap.String("resident", id.String()))
		}
	}

	// Step 3: Vacations
	if through.includes(StageVacations) {
		result.Vacations = allocator.AssignVacations(grid, inputs.VacationPreferences)
		logger.Info("Vacation pass complete",
			zap.Int("assigned", len(result.Vacations.Assigned)),
			zap.Int("unsatisfied", len(result.Vacations.Unsatisfied)),
			zap.Int("unusable_choices", result.Vacations.UnusableChoices))
		for _, id := range result.Vacations.UnknownResidents {
			if !id.IsZero() {
				logger.Warn("Vacation preference for unknown resident", zap.String("resident", id.String()))
			}
		}
	}

	// Step 4: Rotations
	if through.includes(StageRotations) {
		result.RotationPass, err = allocator.AssignRotationsContext(ctx, grid, inputs.Residents, inputs.Rotations)
		if err != nil {
			return nil, fmt.Errorf("rotation pass interrupted: %w", err)
		}
		logger.Info("Rotation pass complete", zap.Int("assigned", result.RotationPass.Assigned))
		for _, outcome := range result.RotationPass.Residents {
			if len(outcome.UnmetRequirements) > 0 {
				logger.Warn("Requirements not met",
					zap.String("resident", outcome.Resident.String()),
					zap.Any("outstanding", outcome.UnmetRequirements))
			}
		}
	}

	// Step 5: Check the result
	result.Violations = allocator.ValidateSchedule(grid, inputs.Residents, inputs.Rotations)
	for _, violation := range result.Violations {
		logger.Warn("Schedule violation",
			zap.String("resident", violation.Resident.String()),
			zap.String("subblock", violation.Label),
			zap.String("rule", violation.Rule),
			zap.String("description", violation.Description))
	}

	result.EmptyCells = emptyCellsByResident(grid)
	if len(result.EmptyCells) > 0 && through.includes(StageRotations) {
		total := 0
		for _, count := range result.EmptyCells {
			total += count
		}
		logger.Warn("Schedule incomplete",
			zap.Int("residents", len(result.EmptyCells)),
			zap.Int("empty_cells", total))
	}

	// Step 6: Write
	if opts.DryRun {
		logger.Info("Dry run: schedule not written")
		return result, nil
	}

	if err := sink.WriteSchedule(ctx, grid); err != nil {
		return nil, fmt.Errorf("failed to write schedule: %w", err)
	}
	result.Written = true
	logger.Info("Schedule written")

	return result, nil
}

// applySeed copies the non-empty cells of a previously exported schedule into grid.
// Rows for residents no longer on the roster are dropped.
func applySeed(ctx context.Context, loader ScheduleLoader, grid *schedule.Grid, result *GenerateResult) error {
	rows, err := loader.LoadSchedule(ctx, grid.Calendar())
	if err != nil {
		return fmt.Errorf("failed to load seed schedule: %w", err)
	}

	// Shape and identity checks
	seed, err := schedule.FromRows(grid.Calendar(), rows)
	if err != nil {
		return fmt.Errorf("failed to load seed schedule: %w", err)
	}

	for _, row := range seed.Rows() {
		rowIdx, ok := grid.RowIndex(row.Resident)
		if !ok {
			result.DroppedSeedRows = append(result.DroppedSeedRows, row.Resident)
			continue
		}
		for col, cell := range row.Cells {
			if cell != "" && grid.Fill(rowIdx, col, cell) {
				result.SeededCells++
			}
		}
	}

	return nil
}
