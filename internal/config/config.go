package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/resident-scheduler/pkg/core/calendar"
)

const (
	configBaseName = "schedule_config"
	dateLayout     = "2006-01-02"
)

// Inputs holds the paths of the CSV datasets
type Inputs struct {
	Residents           string `yaml:"residents" validate:"required"`
	Rotations           string `yaml:"rotations" validate:"required"`
	VacationPreferences string `yaml:"vacationPreferences,omitempty"`
	RotationPreferences string `yaml:"rotationPreferences,omitempty"`
}

// Calendar configures the academic year layout
type Calendar struct {
	AcademicYearStart  string `yaml:"academicYearStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SubblockRRule      string `yaml:"subblockRRule,omitempty"`
	FirstHalfSubblocks *int   `yaml:"firstHalfSubblocks,omitempty" validate:"omitempty,min=0,max=26"`
}

// Config represents the application configuration
type Config struct {
	Inputs    Inputs   `yaml:"inputs"`
	Output    string   `yaml:"output" validate:"required"`
	Delimiter string   `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	Calendar  Calendar `yaml:"calendar,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from schedule_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads schedule_config.<env>.yaml, falling back to schedule_config.yaml
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Relative dataset paths are resolved against the directory of the config file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.resolvePaths(filepath.Dir(path))

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Calendar.SubblockRRule != "" {
		if _, err := rrule.StrToRRule(cfg.Calendar.SubblockRRule); err != nil {
			return fmt.Errorf("invalid rrule in calendar.subblockRRule: %w", err)
		}
	}

	return nil
}

// FirstHalfSize returns the configured first half size or the calendar default
func (c *Config) FirstHalfSize() int {
	if c.Calendar.FirstHalfSubblocks == nil {
		return calendar.DefaultFirstHalfSize
	}
	return *c.Calendar.FirstHalfSubblocks
}

// SubblockRule returns the configured subblock recurrence rule or the calendar default
func (c *Config) SubblockRule() string {
	if c.Calendar.SubblockRRule == "" {
		return calendar.DefaultSubblockRule
	}
	return c.Calendar.SubblockRRule
}

// CSVDelimiter returns the field delimiter for every CSV dataset
func (c *Config) CSVDelimiter() rune {
	if c.Delimiter == "" {
		return ','
	}
	return rune(c.Delimiter[0])
}

// YearStart returns the academic year start date, if configured
func (c *Config) YearStart() (time.Time, bool) {
	if c.Calendar.AcademicYearStart == "" {
		return time.Time{}, false
	}
	// Already checked by the datetime tag
	start, err := time.Parse(dateLayout, c.Calendar.AcademicYearStart)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

func (c *Config) resolvePaths(baseDir string) {
	for _, path := range []*string{
		&c.Inputs.Residents,
		&c.Inputs.Rotations,
		&c.Inputs.VacationPreferences,
		&c.Inputs.RotationPreferences,
		&c.Output,
	} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(baseDir, *path)
		}
	}
}

// findConfigFile searches the current directory and then the home directory.
// In each location schedule_config.<env>.yaml wins over schedule_config.yaml.
func findConfigFile(env string) (string, error) {
	names := []string{configBaseName + ".yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("%s.%s.yaml", configBaseName, env)}, names...)
	}

	dirs := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
