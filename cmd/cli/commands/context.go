package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/internal/config"
	"github.com/jakechorley/resident-scheduler/pkg/clients/csvclient"
	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Calendar *calendar.Calendar
	CSV      *csvclient.Client
	Datasets *csvclient.DatasetFiles
	Logger   *zap.Logger
	Ctx      context.Context
}

// NewAppContext wires the CSV client and dataset files from the loaded configuration
func NewAppContext(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*AppContext, error) {
	cal, err := calendar.New(cfg.FirstHalfSize())
	if err != nil {
		return nil, err
	}

	client := csvclient.NewClient(cfg.CSVDelimiter())

	return &AppContext{
		Cfg:      cfg,
		Calendar: cal,
		CSV:      client,
		Datasets: csvclient.NewDatasetFiles(client, csvclient.Paths{
			Residents:           cfg.Inputs.Residents,
			Rotations:           cfg.Inputs.Rotations,
			VacationPreferences: cfg.Inputs.VacationPreferences,
			RotationPreferences: cfg.Inputs.RotationPreferences,
		}),
		Logger: logger,
		Ctx:    ctx,
	}, nil
}
