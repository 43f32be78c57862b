package csvclient

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// Client decodes and encodes the scheduling datasets as delimited text with a header row
type Client struct {
	delimiter rune
}

// NewClient creates a client using the given field delimiter (',' if zero)
func NewClient(delimiter rune) *Client {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Client{delimiter: delimiter}
}

// Column sets that must be present in each dataset. Other columns are optional.
var (
	residentColumns           = []string{"Last Name", "First Name", "PGY"}
	rotationColumns           = []string{"Rotation Name", "PGY-1 Req", "PGY-1 Opt", "PGY-2 Req", "PGY-2 Opt", "PGY-3 Req", "PGY-3 Opt", "PGY-4 Req", "PGY-4 Opt", "PGY-5 Req", "PGY-5 Opt"}
	vacationPreferenceColumns = []string{"Last Name", "First Name", "Pref1 (H1)", "Pref2 (H1)", "Pref3 (H1)", "Pref1 (H2)", "Pref2 (H2)", "Pref3 (H2)"}
	rotationPreferenceColumns = []string{"Last Name", "First Name", "Preferred Rotation 1"}
)

// ReadResidents decodes the resident roster
func (c *Client) ReadResidents(r io.Reader) ([]model.Resident, error) {
	var records []*residentRecord
	lines, err := c.decode(r, model.DatasetResidents, residentColumns, &records)
	if err != nil {
		return nil, err
	}

	residents := make([]model.Resident, 0, len(records))
	for i, record := range records {
		resident, err := record.toModel(lines[i])
		if err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}

	return residents, nil
}

// ReadRotations decodes the rotation catalog
func (c *Client) ReadRotations(r io.Reader) ([]model.Rotation, error) {
	var records []*rotationRecord
	lines, err := c.decode(r, model.DatasetRotations, rotationColumns, &records)
	if err != nil {
		return nil, err
	}

	rotations := make([]model.Rotation, 0, len(records))
	for i, record := range records {
		rotation, err := record.toModel(lines[i])
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, rotation)
	}

	return rotations, nil
}

// ReadVacationPreferences decodes the vacation preference dataset
func (c *Client) ReadVacationPreferences(r io.Reader) ([]model.VacationPreference, error) {
	var records []*vacationPreferenceRecord
	lines, err := c.decode(r, model.DatasetVacationPreferences, vacationPreferenceColumns, &records)
	if err != nil {
		return nil, err
	}

	prefs := make([]model.VacationPreference, 0, len(records))
	for i, record := range records {
		pref, err := record.toModel(lines[i])
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}

	return prefs, nil
}

// ReadRotationPreferences decodes the rotation preference dataset
func (c *Client) ReadRotationPreferences(r io.Reader) ([]model.RotationPreference, error) {
	var records []*rotationPreferenceRecord
	lines, err := c.decode(r, model.DatasetRotationPreferences, rotationPreferenceColumns, &records)
	if err != nil {
		return nil, err
	}

	prefs := make([]model.RotationPreference, 0, len(records))
	for i, record := range records {
		pref, err := record.toModel(lines[i])
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}

	return prefs, nil
}

// ReadSchedule decodes a previously exported schedule into rows in file order
func (c *Client) ReadSchedule(r io.Reader, cal *calendar.Calendar) ([]schedule.Row, error) {
	columns := append([]string{"Last Name", "First Name"}, cal.Labels()...)

	var records []*scheduleRecord
	if _, err := c.decode(r, model.DatasetSchedule, columns, &records); err != nil {
		return nil, err
	}

	rows := make([]schedule.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.toRow())
	}

	return rows, nil
}

// WriteSchedule encodes the grid with the Last Name, First Name, Block1A..Block13B header
func (c *Client) WriteSchedule(w io.Writer, grid *schedule.Grid) error {
	if columns := len(new(scheduleRecord).cells()); grid.Calendar().Len() != columns {
		return fmt.Errorf("schedule export supports %d subblocks, calendar has %d", columns, grid.Calendar().Len())
	}

	records := make([]*scheduleRecord, 0, grid.Len())
	for _, row := range grid.Rows() {
		records = append(records, newScheduleRecord(row))
	}

	writer := csv.NewWriter(w)
	writer.Comma = c.delimiter

	if err := gocsv.MarshalCSV(&records, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}

// decode reads every record, checks the header for the required columns, drops blank
// rows and unmarshals the rest into out. Returns the 1-based data row number of each
// decoded record.
func (c *Client) decode(r io.Reader, dataset string, required []string, out any) ([]int, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataset, err)
	}

	if len(rows) == 0 {
		return nil, &model.ValidationError{Dataset: dataset, Field: required[0], Reason: "missing header row"}
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	for _, column := range required {
		if !slices.Contains(header, column) {
			return nil, &model.ValidationError{Dataset: dataset, Field: column, Reason: "column is missing"}
		}
	}

	records := [][]string{header}
	var lines []int
	for i, row := range rows[1:] {
		normalized := make([]string, len(header))
		for j := range normalized {
			if j < len(row) {
				normalized[j] = strings.TrimSpace(row[j])
			}
		}
		if isBlank(normalized) {
			continue
		}
		records = append(records, normalized)
		lines = append(lines, i+1)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	if err := gocsv.UnmarshalCSV(&recordReader{records: records}, out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", dataset, err)
	}

	return lines, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// recordReader serves already normalized records to gocsv
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	record := r.records[r.pos]
	r.pos++
	return record, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	if r.pos >= len(r.records) {
		return nil, nil
	}
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
