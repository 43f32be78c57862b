package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/resident-scheduler/cmd/cli/commands"
	"github.com/jakechorley/resident-scheduler/internal/config"
	"github.com/jakechorley/resident-scheduler/pkg/utils/logging"
)

var (
	env        string
	configPath string
	logsDir    string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Commands hold this pointer; initApp fills it in before any RunE
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Resident Scheduler CLI - Build residency block schedules",
		Long: `A CLI tool for building a residency program's annual block schedule from a roster,
a rotation catalog and vacation preferences.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(ctx, app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: schedule_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs", "logs", "Directory for JSON log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")

	rootCmd.AddCommand(commands.BlankCmd(app))
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.InspectCmd(app))
	rootCmd.AddCommand(commands.CheckCmd(app))
	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, calendar and CSV datasets
func initApp(ctx context.Context, app *commands.AppContext) error {
	logger, logFile, err := logging.InitLogger(env, logging.Options{
		Dir:     logsDir,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))
	logger.Debug("Logging to file", zap.String("path", logFile))

	logger.Info("Loading configuration")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded successfully",
		zap.String("residents", cfg.Inputs.Residents),
		zap.String("rotations", cfg.Inputs.Rotations),
		zap.String("output", cfg.Output))

	loaded, err := commands.NewAppContext(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	*app = *loaded

	return nil
}
