package services

import (
	"context"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// mockSource implements ScheduleSource
type mockSource struct {
	residents           []model.Resident
	rotations           []model.Rotation
	vacationPreferences []model.VacationPreference
	rotationPreferences []model.RotationPreference
	residentsErr        error
	rotationsErr        error
}

func (m *mockSource) LoadResidents(ctx context.Context) ([]model.Resident, error) {
	if m.residentsErr != nil {
		return nil, m.residentsErr
	}
	return m.residents, nil
}

func (m *mockSource) LoadRotations(ctx context.Context) ([]model.Rotation, error) {
	if m.rotationsErr != nil {
		return nil, m.rotationsErr
	}
	return m.rotations, nil
}

func (m *mockSource) LoadVacationPreferences(ctx context.Context) ([]model.VacationPreference, error) {
	return m.vacationPreferences, nil
}

func (m *mockSource) LoadRotationPreferences(ctx context.Context) ([]model.RotationPreference, error) {
	return m.rotationPreferences, nil
}

// mockSink implements ScheduleSink
type mockSink struct {
	written *schedule.Grid
	writes  int
	err     error
}

func (m *mockSink) WriteSchedule(ctx context.Context, grid *schedule.Grid) error {
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.written = grid.Clone()
	return nil
}

// mockLoader implements ScheduleLoader
type mockLoader struct {
	rows []schedule.Row
	err  error
}

func (m *mockLoader) LoadSchedule(ctx context.Context, cal *calendar.Calendar) ([]schedule.Row, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func newResident(last, first string, level int) model.Resident {
	return model.Resident{
		ID:             model.ResidentID{LastName: last, FirstName: first},
		Level:          level,
		TotalSubblocks: 26,
	}
}

func rotationAt(name string, level, required, optional int) model.Rotation {
	rotation := model.Rotation{Name: name, Duration: 2}
	rotation.Required[level-1] = required
	rotation.Optional[level-1] = optional
	return rotation
}

// scheduleRow builds a 26-cell row with the given label -> value assignments
func scheduleRow(id model.ResidentID, cells map[string]string) schedule.Row {
	cal := calendar.Default()
	row := schedule.Row{Resident: id, Cells: make([]string, cal.Len())}
	for label, value := range cells {
		idx, ok := cal.IndexOf(label)
		if !ok {
			panic("unknown label " + label)
		}
		row.Cells[idx] = value
	}
	return row
}

// standardSource is two PGY-1 residents, one catalog rotation that can fill
// every subblock, and one vacation preference
func standardSource() *mockSource {
	doe := newResident("Doe", "Jane", 1)
	smith := newResident("Smith", "John", 1)

	return &mockSource{
		residents: []model.Resident{doe, smith},
		rotations: []model.Rotation{rotationAt("Wards", 1, 2, 1)},
		vacationPreferences: []model.VacationPreference{
			{Resident: doe.ID, FirstHalf: [3]string{"Block2A"}},
			{},
		},
		rotationPreferences: []model.RotationPreference{},
	}
}
