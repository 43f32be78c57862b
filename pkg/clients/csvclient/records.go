package csvclient

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// nameList is a list cell separated by ';' or ','
type nameList []string

func (n *nameList) UnmarshalCSV(value string) error {
	*n = nil
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' }) {
		if name := strings.TrimSpace(part); name != "" {
			*n = append(*n, name)
		}
	}
	return nil
}

type residentRecord struct {
	LastName          string   `csv:"Last Name"`
	FirstName         string   `csv:"First Name"`
	PGY               string   `csv:"PGY"`
	TotalSubblocks    string   `csv:"Total Subblocks"`
	HomeProgram       string   `csv:"Home Program"`
	EligibleRotations nameList `csv:"Eligible Rotations"`
	StartBlock        string   `csv:"Start Block"`
	EndBlock          string   `csv:"End Block"`
}

func (r *residentRecord) toModel(line int) (model.Resident, error) {
	p := fieldParser{dataset: model.DatasetResidents, row: line}

	resident := model.Resident{
		ID:                model.ResidentID{LastName: r.LastName, FirstName: r.FirstName},
		Level:             p.requiredInt("PGY", r.PGY),
		TotalSubblocks:    p.optionalInt("Total Subblocks", r.TotalSubblocks),
		HomeProgram:       r.HomeProgram,
		EligibleRotations: []string(r.EligibleRotations),
		StartBlock:        p.optionalInt("Start Block", r.StartBlock),
		EndBlock:          p.optionalInt("End Block", r.EndBlock),
	}

	return resident, p.err
}

type rotationRecord struct {
	Name        string `csv:"Rotation Name"`
	Duration    string `csv:"Duration"`
	PGY1Req     string `csv:"PGY-1 Req"`
	PGY1Opt     string `csv:"PGY-1 Opt"`
	PGY2Req     string `csv:"PGY-2 Req"`
	PGY2Opt     string `csv:"PGY-2 Opt"`
	PGY3Req     string `csv:"PGY-3 Req"`
	PGY3Opt     string `csv:"PGY-3 Opt"`
	PGY4Req     string `csv:"PGY-4 Req"`
	PGY4Opt     string `csv:"PGY-4 Opt"`
	PGY5Req     string `csv:"PGY-5 Req"`
	PGY5Opt     string `csv:"PGY-5 Opt"`
	TotalNeeded string `csv:"Total Needed"`
	Flexible    string `csv:"Flexible"`
	Type        string `csv:"Rotation Type"`
	Difficulty  string `csv:"Difficulty"`
}

func (r *rotationRecord) toModel(line int) (model.Rotation, error) {
	p := fieldParser{dataset: model.DatasetRotations, row: line}

	required := [model.MaxLevel]string{r.PGY1Req, r.PGY2Req, r.PGY3Req, r.PGY4Req, r.PGY5Req}
	optional := [model.MaxLevel]string{r.PGY1Opt, r.PGY2Opt, r.PGY3Opt, r.PGY4Opt, r.PGY5Opt}

	rotation := model.Rotation{
		Name:        r.Name,
		Duration:    p.optionalInt("Duration", r.Duration),
		TotalNeeded: p.optionalInt("Total Needed", r.TotalNeeded),
		Flexible:    p.yesNo("Flexible", r.Flexible),
		Type:        r.Type,
		Difficulty:  p.optionalInt("Difficulty", r.Difficulty),
	}

	for i := 0; i < model.MaxLevel; i++ {
		rotation.Required[i] = p.optionalInt(fmt.Sprintf("PGY-%d Req", i+1), required[i])
		rotation.Optional[i] = p.optionalInt(fmt.Sprintf("PGY-%d Opt", i+1), optional[i])
	}

	return rotation, p.err
}

type vacationPreferenceRecord struct {
	LastName  string `csv:"Last Name"`
	FirstName string `csv:"First Name"`
	PGY       string `csv:"PGY"`
	Pref1H1   string `csv:"Pref1 (H1)"`
	Pref2H1   string `csv:"Pref2 (H1)"`
	Pref3H1   string `csv:"Pref3 (H1)"`
	Pref1H2   string `csv:"Pref1 (H2)"`
	Pref2H2   string `csv:"Pref2 (H2)"`
	Pref3H2   string `csv:"Pref3 (H2)"`
}

func (r *vacationPreferenceRecord) toModel(line int) (model.VacationPreference, error) {
	p := fieldParser{dataset: model.DatasetVacationPreferences, row: line}

	pref := model.VacationPreference{
		Resident:   model.ResidentID{LastName: r.LastName, FirstName: r.FirstName},
		Level:      p.optionalInt("PGY", r.PGY),
		FirstHalf:  [3]string{r.Pref1H1, r.Pref2H1, r.Pref3H1},
		SecondHalf: [3]string{r.Pref1H2, r.Pref2H2, r.Pref3H2},
	}

	return pref, p.err
}

type rotationPreferenceRecord struct {
	LastName  string `csv:"Last Name"`
	FirstName string `csv:"First Name"`
	PGY       string `csv:"PGY"`
	Choice1   string `csv:"Preferred Rotation 1"`
	Choice2   string `csv:"Preferred Rotation 2"`
	Choice3   string `csv:"Preferred Rotation 3"`
}

func (r *rotationPreferenceRecord) toModel(line int) (model.RotationPreference, error) {
	p := fieldParser{dataset: model.DatasetRotationPreferences, row: line}

	pref := model.RotationPreference{
		Resident: model.ResidentID{LastName: r.LastName, FirstName: r.FirstName},
		Level:    p.optionalInt("PGY", r.PGY),
	}
	for _, choice := range []string{r.Choice1, r.Choice2, r.Choice3} {
		if choice != "" {
			pref.Choices = append(pref.Choices, choice)
		}
	}

	return pref, p.err
}

type scheduleRecord struct {
	LastName  string `csv:"Last Name"`
	FirstName string `csv:"First Name"`
	Block1A   string `csv:"Block1A"`
	Block1B   string `csv:"Block1B"`
	Block2A   string `csv:"Block2A"`
	Block2B   string `csv:"Block2B"`
	Block3A   string `csv:"Block3A"`
	Block3B   string `csv:"Block3B"`
	Block4A   string `csv:"Block4A"`
	Block4B   string `csv:"Block4B"`
	Block5A   string `csv:"Block5A"`
	Block5B   string `csv:"Block5B"`
	Block6A   string `csv:"Block6A"`
	Block6B   string `csv:"Block6B"`
	Block7A   string `csv:"Block7A"`
	Block7B   string `csv:"Block7B"`
	Block8A   string `csv:"Block8A"`
	Block8B   string `csv:"Block8B"`
	Block9A   string `csv:"Block9A"`
	Block9B   string `csv:"Block9B"`
	Block10A  string `csv:"Block10A"`
	Block10B  string `csv:"Block10B"`
	Block11A  string `csv:"Block11A"`
	Block11B  string `csv:"Block11B"`
	Block12A  string `csv:"Block12A"`
	Block12B  string `csv:"Block12B"`
	Block13A  string `csv:"Block13A"`
	Block13B  string `csv:"Block13B"`
}

// cells returns pointers to the subblock fields in calendar order
func (r *scheduleRecord) cells() []*string {
	return []*string{
		&r.Block1A, &r.Block1B, &r.Block2A, &r.Block2B, &r.Block3A, &r.Block3B,
		&r.Block4A, &r.Block4B, &r.Block5A, &r.Block5B, &r.Block6A, &r.Block6B,
		&r.Block7A, &r.Block7B, &r.Block8A, &r.Block8B, &r.Block9A, &r.Block9B,
		&r.Block10A, &r.Block10B, &r.Block11A, &r.Block11B, &r.Block12A, &r.Block12B,
		&r.Block13A, &r.Block13B,
	}
}

func newScheduleRecord(row *schedule.Row) *scheduleRecord {
	record := &scheduleRecord{LastName: row.Resident.LastName, FirstName: row.Resident.FirstName}
	for i, cell := range record.cells() {
		if i < len(row.Cells) {
			*cell = row.Cells[i]
		}
	}
	return record
}

func (r *scheduleRecord) toRow() schedule.Row {
	fields := r.cells()
	row := schedule.Row{
		Resident: model.ResidentID{LastName: r.LastName, FirstName: r.FirstName},
		Cells:    make([]string, len(fields)),
	}
	for i, cell := range fields {
		row.Cells[i] = *cell
	}
	return row
}

// fieldParser converts text cells and keeps the first failure as a ValidationError
type fieldParser struct {
	dataset string
	row     int
	err     error
}

func (p *fieldParser) fail(field, reason string) {
	if p.err == nil {
		p.err = &model.ValidationError{Dataset: p.dataset, Row: p.row, Field: field, Reason: reason}
	}
}

func (p *fieldParser) requiredInt(field, value string) int {
	if value == "" {
		p.fail(field, "is required")
		return 0
	}
	return p.optionalInt(field, value)
}

// optionalInt parses a whole number; blank is 0. Spreadsheet exports such as "2.0" are accepted.
func (p *fieldParser) optionalInt(field, value string) int {
	if value == "" {
		return 0
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		p.fail(field, fmt.Sprintf("must be a whole number, got %q", value))
		return 0
	}
	return int(f)
}

func (p *fieldParser) yesNo(field, value string) bool {
	switch strings.ToLower(value) {
	case "yes", "y", "true", "1":
		return true
	case "", "no", "n", "false", "0":
		return false
	default:
		p.fail(field, fmt.Sprintf("must be Yes or No, got %q", value))
		return false
	}
}
