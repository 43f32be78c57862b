package csvclient

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

const residentsCSV = `Last Name,First Name,PGY,Total Subblocks,Home Program,Eligible Rotations,Start Block,End Block
Doe,Jane,2,26,General Surgery,"ICU, Wards",1,13
,,,,,,,
Smith,John,1.0,24,Urology,Clinic;Trauma,5,
`

const rotationsCSV = `Rotation Name,Duration,PGY-1 Req,PGY-1 Opt,PGY-2 Req,PGY-2 Opt,PGY-3 Req,PGY-3 Opt,PGY-4 Req,PGY-4 Opt,PGY-5 Req,PGY-5 Opt,Total Needed,Flexible,Rotation Type,Difficulty
ICU,2,0,0,1,0,0,0,0,0,0,0,4,No,Critical Care,3
Wards,2,2,1,0,1,0,0,0,0,0,0,6,Yes,Inpatient,2
`

func requireValidationError(t *testing.T, err error) *model.ValidationError {
	t.Helper()
	require.Error(t, err)

	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected a ValidationError, got %v", err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	return validationErr
}

func TestReadResidents(t *testing.T) {
	client := NewClient(',')

	residents, err := client.ReadResidents(strings.NewReader(residentsCSV))
	require.NoError(t, err)
	require.Len(t, residents, 2)

	assert.Equal(t, model.Resident{
		ID:                model.ResidentID{LastName: "Doe", FirstName: "Jane"},
		Level:             2,
		TotalSubblocks:    26,
		HomeProgram:       "General Surgery",
		EligibleRotations: []string{"ICU", "Wards"},
		StartBlock:        1,
		EndBlock:          13,
	}, residents[0])

	smith := residents[1]
	assert.Equal(t, 1, smith.Level)
	assert.Equal(t, []string{"Clinic", "Trauma"}, smith.EligibleRotations)
	assert.Equal(t, 5, smith.StartBlock)
	assert.Equal(t, 0, smith.EndBlock, "blank end block falls back to the calendar")
}

func TestReadResidents_OptionalColumns(t *testing.T) {
	input := "Last Name,First Name,PGY\nDoe,Jane,3\n"

	residents, err := NewClient(',').ReadResidents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, residents, 1)

	start, end := residents[0].ActiveBlocks(calendar.BlockCount)
	assert.Equal(t, 1, start)
	assert.Equal(t, 13, end)
	assert.Empty(t, residents[0].EligibleRotations)
}

func TestReadResidents_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		row   int
		field string
	}{
		{
			name:  "missing column",
			input: "Last Name,First Name,Total Subblocks\nDoe,Jane,26\n",
			row:   0,
			field: "PGY",
		},
		{
			name:  "non-numeric level",
			input: "Last Name,First Name,PGY\nDoe,Jane,2\n,,\nSmith,John,two\n",
			row:   3,
			field: "PGY",
		},
		{
			name:  "blank level",
			input: "Last Name,First Name,PGY\nDoe,Jane,\n",
			row:   1,
			field: "PGY",
		},
		{
			name:  "fractional block",
			input: "Last Name,First Name,PGY,Start Block\nDoe,Jane,2,1.5\n",
			row:   1,
			field: "Start Block",
		},
		{
			name:  "empty file",
			input: "",
			row:   0,
			field: "Last Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(',').ReadResidents(strings.NewReader(tt.input))

			validationErr := requireValidationError(t, err)
			assert.Equal(t, model.DatasetResidents, validationErr.Dataset)
			assert.Equal(t, tt.row, validationErr.Row)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestReadResidents_HeaderOnly(t *testing.T) {
	residents, err := NewClient(',').ReadResidents(strings.NewReader("Last Name,First Name,PGY\n"))
	require.NoError(t, err)
	assert.Empty(t, residents)
}

func TestReadRotations(t *testing.T) {
	rotations, err := NewClient(',').ReadRotations(strings.NewReader(rotationsCSV))
	require.NoError(t, err)
	require.Len(t, rotations, 2)

	icu := rotations[0]
	assert.Equal(t, "ICU", icu.Name)
	assert.Equal(t, 2, icu.Duration)
	assert.Equal(t, [model.MaxLevel]int{0, 1, 0, 0, 0}, icu.Required)
	assert.Equal(t, [model.MaxLevel]int{}, icu.Optional)
	assert.Equal(t, 4, icu.TotalNeeded)
	assert.False(t, icu.Flexible)
	assert.Equal(t, "Critical Care", icu.Type)
	assert.Equal(t, 3, icu.Difficulty)

	wards := rotations[1]
	assert.Equal(t, [model.MaxLevel]int{2, 0, 0, 0, 0}, wards.Required)
	assert.Equal(t, [model.MaxLevel]int{1, 1, 0, 0, 0}, wards.Optional)
	assert.True(t, wards.Flexible)
}

func TestReadRotations_Errors(t *testing.T) {
	header := "Rotation Name,PGY-1 Req,PGY-1 Opt,PGY-2 Req,PGY-2 Opt,PGY-3 Req,PGY-3 Opt,PGY-4 Req,PGY-4 Opt,PGY-5 Req,PGY-5 Opt,Flexible\n"

	tests := []struct {
		name  string
		input string
		row   int
		field string
	}{
		{"missing level column", "Rotation Name,PGY-1 Req,PGY-1 Opt\nICU,1,0\n", 0, "PGY-2 Req"},
		{"non-numeric count", header + "ICU,1,0,0,0,x,0,0,0,0,0,No\n", 1, "PGY-3 Req"},
		{"bad flexible", header + "ICU,1,0,0,0,0,0,0,0,0,0,No\nWards,1,0,0,0,0,0,0,0,0,0,Maybe\n", 2, "Flexible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(',').ReadRotations(strings.NewReader(tt.input))

			validationErr := requireValidationError(t, err)
			assert.Equal(t, model.DatasetRotations, validationErr.Dataset)
			assert.Equal(t, tt.row, validationErr.Row)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestReadVacationPreferences_Delimiter(t *testing.T) {
	input := "Last Name;First Name;PGY;Pref1 (H1);Pref2 (H1);Pref3 (H1);Pref1 (H2);Pref2 (H2);Pref3 (H2)\n" +
		"Doe;Jane;2;Block2A;Block3B;;Block8A;;\n" +
		";;;Block1A;;;;;\n"

	prefs, err := NewClient(';').ReadVacationPreferences(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	assert.Equal(t, model.VacationPreference{
		Resident:   model.ResidentID{LastName: "Doe", FirstName: "Jane"},
		Level:      2,
		FirstHalf:  [3]string{"Block2A", "Block3B", ""},
		SecondHalf: [3]string{"Block8A", "", ""},
	}, prefs[0])

	// Rows without a name are kept; the vacation pass skips them
	assert.True(t, prefs[1].Resident.IsZero())
}

func TestReadRotationPreferences(t *testing.T) {
	input := "Last Name,First Name,PGY,Preferred Rotation 1,Preferred Rotation 2,Preferred Rotation 3\n" +
		"Doe,Jane,2,ICU,,Wards\n"

	prefs, err := NewClient(',').ReadRotationPreferences(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, []string{"ICU", "Wards"}, prefs[0].Choices)
	assert.Equal(t, 2, prefs[0].Level)
}

func TestWriteSchedule_HeaderAndRows(t *testing.T) {
	cal := calendar.Default()
	grid, err := schedule.NewGrid(cal, []model.Resident{
		{ID: model.ResidentID{LastName: "Doe", FirstName: "Jane"}, Level: 1},
	})
	require.NoError(t, err)
	grid.Fill(0, 0, "ICU")
	grid.Fill(0, 25, model.VacationLabel)

	var buf bytes.Buffer
	require.NoError(t, NewClient(',').WriteSchedule(&buf, grid))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Last Name,First Name,"+strings.Join(cal.Labels(), ","), lines[0])
	assert.Equal(t, "Doe,Jane,ICU"+strings.Repeat(",", 25)+"Vacation", lines[1])

	rows, err := NewClient(',').ReadSchedule(&buf, cal)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, grid.Rows()[0].Cells, rows[0].Cells)
}

func TestWriteSchedule_EmptyGridKeepsHeader(t *testing.T) {
	cal := calendar.Default()
	grid, err := schedule.NewGrid(cal, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewClient(',').WriteSchedule(&buf, grid))
	assert.True(t, strings.HasPrefix(buf.String(), "Last Name,First Name,Block1A,"))
}

func TestReadSchedule_MissingSubblockColumn(t *testing.T) {
	_, err := NewClient(',').ReadSchedule(strings.NewReader("Last Name,First Name,Block1A\nDoe,Jane,ICU\n"), calendar.Default())

	validationErr := requireValidationError(t, err)
	assert.Equal(t, model.DatasetSchedule, validationErr.Dataset)
	assert.Equal(t, "Block1B", validationErr.Field)
}

func TestDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	residentsPath := filepath.Join(dir, "residents.csv")
	rotationsPath := filepath.Join(dir, "rotations.csv")
	require.NoError(t, os.WriteFile(residentsPath, []byte(residentsCSV), 0644))
	require.NoError(t, os.WriteFile(rotationsPath, []byte(rotationsCSV), 0644))

	files := NewDatasetFiles(NewClient(','), Paths{Residents: residentsPath, Rotations: rotationsPath})
	ctx := context.Background()

	residents, err := files.LoadResidents(ctx)
	require.NoError(t, err)
	assert.Len(t, residents, 2)

	rotations, err := files.LoadRotations(ctx)
	require.NoError(t, err)
	assert.Len(t, rotations, 2)

	vacationPrefs, err := files.LoadVacationPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, vacationPrefs)

	rotationPrefs, err := files.LoadRotationPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, rotationPrefs)
}

func TestDatasetFiles_MissingFile(t *testing.T) {
	files := NewDatasetFiles(NewClient(','), Paths{Residents: filepath.Join(t.TempDir(), "nope.csv")})

	_, err := files.LoadResidents(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestDatasetFiles_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := NewDatasetFiles(NewClient(','), Paths{Residents: "residents.csv"})
	_, err := files.LoadResidents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduleFile_WriteAndLoad(t *testing.T) {
	cal := calendar.Default()
	path := filepath.Join(t.TempDir(), "out", "schedule.csv")
	file := NewScheduleFile(NewClient(','), path)

	grid, err := schedule.NewGrid(cal, []model.Resident{
		{ID: model.ResidentID{LastName: "Doe", FirstName: "Jane"}, Level: 1},
		{ID: model.ResidentID{LastName: "Smith", FirstName: "John"}, Level: 2},
	})
	require.NoError(t, err)
	grid.Fill(1, 3, "Wards")

	require.NoError(t, file.WriteSchedule(context.Background(), grid))

	rows, err := file.LoadSchedule(context.Background(), cal)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.ResidentID{LastName: "Smith", FirstName: "John"}, rows[1].Resident)
	assert.Equal(t, "Wards", rows[1].Cells[3])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}
