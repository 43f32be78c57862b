package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

func TestAssignVacations_FirstChoiceGranted(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)

	prefs := []model.VacationPreference{{
		Resident:  doe.ID,
		FirstHalf: [3]string{"Block2A", "", ""},
	}}

	outcome := AssignVacations(grid, prefs)

	assert.Equal(t, map[string]string{"Block2A": model.VacationLabel}, filledLabels(grid, 0))
	require.Len(t, outcome.Assigned, 1)
	assert.Equal(t, VacationAssignment{Resident: doe.ID, Half: calendar.FirstHalf, Label: "Block2A", Choice: 1}, outcome.Assigned[0])

	// Same preferences again: nothing changes
	before := grid.Clone()
	again := AssignVacations(grid, prefs)
	assert.Equal(t, before.Rows(), grid.Rows())
	assert.Empty(t, again.Assigned)
}

func TestAssignVacations_BothHalvesIndependent(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)

	AssignVacations(grid, []model.VacationPreference{{
		Resident:   doe.ID,
		FirstHalf:  [3]string{"Block3B", "Block4A", "Block5A"},
		SecondHalf: [3]string{"Block13B", "Block8A", ""},
	}})

	assert.Equal(t, map[string]string{
		"Block3B":  model.VacationLabel,
		"Block13B": model.VacationLabel,
	}, filledLabels(grid, 0))
}

func TestAssignVacations_FallsBackToNextChoice(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)

	col, ok := grid.Calendar().IndexOf("Block2A")
	require.True(t, ok)
	grid.Fill(0, col, "ICU")

	outcome := AssignVacations(grid, []model.VacationPreference{{
		Resident:  doe.ID,
		FirstHalf: [3]string{"Block2A", "Block7A", "Block4B"},
	}})

	// Block2A taken, Block7A belongs to the second half
	assert.Equal(t, map[string]string{
		"Block2A": "ICU",
		"Block4B": model.VacationLabel,
	}, filledLabels(grid, 0))
	require.Len(t, outcome.Assigned, 1)
	assert.Equal(t, 3, outcome.Assigned[0].Choice)
	assert.Equal(t, 1, outcome.UnusableChoices)
}

func TestAssignVacations_WrongHalfLabelsIgnored(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)

	outcome := AssignVacations(grid, []model.VacationPreference{{
		Resident:   doe.ID,
		FirstHalf:  [3]string{"Block7A", "Block12B", "Nope"},
		SecondHalf: [3]string{"Block6B", "", ""},
	}})

	assert.Empty(t, filledLabels(grid, 0))
	assert.Equal(t, 4, outcome.UnusableChoices)
	assert.Len(t, outcome.Unsatisfied, 2)
}

func TestAssignVacations_UnknownResidentSkipped(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)
	ghost := model.ResidentID{LastName: "Ghost", FirstName: "Gary"}

	outcome := AssignVacations(grid, []model.VacationPreference{{
		Resident:  ghost,
		FirstHalf: [3]string{"Block1A", "", ""},
	}})

	assert.Empty(t, filledLabels(grid, 0))
	assert.Equal(t, []model.ResidentID{ghost}, outcome.UnknownResidents)
}

func TestAssignVacations_AtMostOnePerHalf(t *testing.T) {
	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid := buildGrid(t, doe)

	prefs := []model.VacationPreference{
		{Resident: doe.ID, FirstHalf: [3]string{"Block1A", "Block2A", "Block3A"}},
		{Resident: doe.ID, FirstHalf: [3]string{"Block4A", "", ""}},
	}

	AssignVacations(grid, prefs)
	AssignVacations(grid, prefs)

	assert.Equal(t, 1, grid.Count(0, model.VacationLabel))
	assert.Equal(t, map[string]string{"Block1A": model.VacationLabel}, filledLabels(grid, 0))
}

func TestAssignVacations_NeverOverwrites(t *testing.T) {
	residents := []model.Resident{
		newResident("Adams", "Alice", 1, 1, 13),
		newResident("Brown", "Bob", 2, 1, 13),
	}
	grid := buildGrid(t, residents...)
	grid.Fill(0, 0, "ICU")
	grid.Fill(1, 14, "Wards")
	before := grid.Clone()

	AssignVacations(grid, []model.VacationPreference{
		{Resident: residents[0].ID, FirstHalf: [3]string{"Block1A"}, SecondHalf: [3]string{"Block8A"}},
		{Resident: residents[1].ID, FirstHalf: [3]string{"Block1A"}, SecondHalf: [3]string{"Block8A", "Block8B"}},
	})

	for i, row := range before.Rows() {
		for j, cell := range row.Cells {
			if cell != "" {
				assert.Equal(t, cell, grid.Cell(i, j), "non-empty cell %d,%d changed", i, j)
			}
		}
	}

	assert.Equal(t, "ICU", grid.Cell(0, 0))
	assert.Equal(t, model.VacationLabel, grid.Cell(0, 14))
	assert.Equal(t, model.VacationLabel, grid.Cell(1, 0))
	assert.Equal(t, "Wards", grid.Cell(1, 14))
	assert.Equal(t, model.VacationLabel, grid.Cell(1, 15))
}

func TestAssignVacations_EvenSplitCalendar(t *testing.T) {
	cal, err := calendar.New(13)
	require.NoError(t, err)

	doe := newResident("Doe", "Jane", 1, 1, 13)
	grid, err := schedule.NewGrid(cal, []model.Resident{doe})
	require.NoError(t, err)

	AssignVacations(grid, []model.VacationPreference{{
		Resident:  doe.ID,
		FirstHalf: [3]string{"Block7A", "", ""},
	}})

	assert.Equal(t, map[string]string{"Block7A": model.VacationLabel}, filledLabels(grid, 0))
}
