package csvclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
	"github.com/jakechorley/resident-scheduler/pkg/core/model"
	"github.com/jakechorley/resident-scheduler/pkg/core/schedule"
)

// Paths locates the input datasets. Preference paths are optional.
type Paths struct {
	Residents           string
	Rotations           string
	VacationPreferences string
	RotationPreferences string
}

// DatasetFiles loads the input datasets from files on disk
type DatasetFiles struct {
	client *Client
	paths  Paths
}

// NewDatasetFiles creates a file-backed dataset source
func NewDatasetFiles(client *Client, paths Paths) *DatasetFiles {
	return &DatasetFiles{client: client, paths: paths}
}

// LoadResidents reads the resident roster file
func (d *DatasetFiles) LoadResidents(ctx context.Context) ([]model.Resident, error) {
	var residents []model.Resident
	err := readFile(ctx, d.paths.Residents, func(r io.Reader) (err error) {
		residents, err = d.client.ReadResidents(r)
		return err
	})
	return residents, err
}

// LoadRotations reads the rotation catalog file
func (d *DatasetFiles) LoadRotations(ctx context.Context) ([]model.Rotation, error) {
	var rotations []model.Rotation
	err := readFile(ctx, d.paths.Rotations, func(r io.Reader) (err error) {
		rotations, err = d.client.ReadRotations(r)
		return err
	})
	return rotations, err
}

// LoadVacationPreferences reads the vacation preference file, or returns none if no path is set
func (d *DatasetFiles) LoadVacationPreferences(ctx context.Context) ([]model.VacationPreference, error) {
	if d.paths.VacationPreferences == "" {
		return []model.VacationPreference{}, nil
	}

	var prefs []model.VacationPreference
	err := readFile(ctx, d.paths.VacationPreferences, func(r io.Reader) (err error) {
		prefs, err = d.client.ReadVacationPreferences(r)
		return err
	})
	return prefs, err
}

// LoadRotationPreferences reads the rotation preference file, or returns none if no path is set
func (d *DatasetFiles) LoadRotationPreferences(ctx context.Context) ([]model.RotationPreference, error) {
	if d.paths.RotationPreferences == "" {
		return []model.RotationPreference{}, nil
	}

	var prefs []model.RotationPreference
	err := readFile(ctx, d.paths.RotationPreferences, func(r io.Reader) (err error) {
		prefs, err = d.client.ReadRotationPreferences(r)
		return err
	})
	return prefs, err
}

// ScheduleFile reads and writes one schedule file
type ScheduleFile struct {
	client *Client
	path   string
}

// NewScheduleFile creates a schedule file handle
func NewScheduleFile(client *Client, path string) *ScheduleFile {
	return &ScheduleFile{client: client, path: path}
}

// Path returns the location of the schedule file
func (s *ScheduleFile) Path() string {
	return s.path
}

// LoadSchedule reads the schedule rows laid out on the given calendar
func (s *ScheduleFile) LoadSchedule(ctx context.Context, cal *calendar.Calendar) ([]schedule.Row, error) {
	var rows []schedule.Row
	err := readFile(ctx, s.path, func(r io.Reader) (err error) {
		rows, err = s.client.ReadSchedule(r, cal)
		return err
	})
	return rows, err
}

// WriteSchedule replaces the file with the grid, creating parent directories as needed.
// The grid is written to a temporary file first so a failed write leaves the old file intact.
func (s *ScheduleFile) WriteSchedule(ctx context.Context, grid *schedule.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create schedule file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set schedule file mode: %w", err)
	}

	if err := s.client.WriteSchedule(tmp, grid); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close schedule file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace schedule file: %w", err)
	}

	return nil
}

func readFile(ctx context.Context, path string, read func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return read(file)
}
