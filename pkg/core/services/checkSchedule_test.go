package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/pkg/core/allocator"
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

func TestCheckSchedule_GeneratedScheduleIsClean(t *testing.T) {
	source := standardSource()
	sink := &mockSink{}

	_, err := GenerateSchedule(context.Background(), source, sink, calendar.Default(), zap.NewNop(), GenerateOptions{})
	require.NoError(t, err)

	var rows []schedule.Row
	for _, row := range sink.written.Rows() {
		rows = append(rows, *row)
	}

	result, err := CheckSchedule(context.Background(), source, &mockLoader{rows: rows}, calendar.Default(), zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, result.Violations)
	assert.Empty(t, result.MissingResidents)
	assert.Empty(t, result.EmptyCells)
}

func TestCheckSchedule_ReportsProblems(t *testing.T) {
	source := standardSource()
	doe := source.residents[0].ID
	smith := source.residents[1].ID

	loader := &mockLoader{rows: []schedule.Row{
		scheduleRow(doe, map[string]string{
			"Block1A": "Wards",
			"Block1B": "Surgery",
			"Block2A": model.VacationLabel,
			"Block3A": model.VacationLabel,
		}),
	}}

	result, err := CheckSchedule(context.Background(), source, loader, calendar.Default(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, result.Violations, 2)
	assert.Equal(t, allocator.RuleUnknownRotation, result.Violations[0].Rule)
	assert.Equal(t, "Block1B", result.Violations[0].Label)
	assert.Equal(t, allocator.RuleVacationPerHalf, result.Violations[1].Rule)
	assert.Equal(t, "Block3A", result.Violations[1].Label)

	assert.Equal(t, []model.ResidentID{smith}, result.MissingResidents)
	assert.Equal(t, map[model.ResidentID]int{doe: 22}, result.EmptyCells)
}

func TestCheckSchedule_LoadErrors(t *testing.T) {
	doe := model.ResidentID{LastName: "Doe", FirstName: "Jane"}
	short := schedule.Row{Resident: doe, Cells: make([]string, 10)}

	tests := []struct {
		name   string
		loader *mockLoader
	}{
		{"loader failure", &mockLoader{err: errors.New("no such file")}},
		{"wrong width", &mockLoader{rows: []schedule.Row{short}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckSchedule(context.Background(), standardSource(), tt.loader, calendar.Default(), zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load schedule")
		})
	}
}
