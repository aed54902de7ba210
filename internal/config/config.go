package config

import (
	"benritz/ustreasury/internal/collect"
	"benritz/ustreasury/internal/types"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "TREASURY"

type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"   yaml:"solver"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Source   SourceConfig   `mapstructure:"source"   yaml:"source"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

type SolverConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"      yaml:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
}

// CalendarConfig lists settlement holidays, inline and/or from a sheet whose
// first column holds the dates.
type CalendarConfig struct {
	HolidayFile string   `mapstructure:"holiday_file" yaml:"holiday_file"`
	Holidays    []string `mapstructure:"holidays"     yaml:"holidays"`
	DateLayout  string   `mapstructure:"date_layout"  yaml:"date_layout"` // Go layout, e.g. 02-01-2006
}

type SourceConfig struct {
	SheetDateLayout string `mapstructure:"sheet_date_layout" yaml:"sheet_date_layout"`
	HTMLSelector    string `mapstructure:"html_selector"     yaml:"html_selector"`
}

type OutputConfig struct {
	Destination string `mapstructure:"destination" yaml:"destination"` // local path or s3://bucket/prefix
	Profile     string `mapstructure:"profile"     yaml:"profile"`     // AWS shared config profile
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads the configuration from file and environment variables. When path
// is empty the file is searched for in:
//  1. ./config/treasury.yaml
//  2. ~/.treasury/treasury.yaml
//
// and a missing file is not an error.
//
// Environment variables override file values, e.g. TREASURY_SOLVER_TOLERANCE.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("treasury")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".treasury"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.tolerance", types.DefaultTolerance)
	v.SetDefault("solver.max_iterations", types.DefaultMaxIterations)

	v.SetDefault("calendar.holiday_file", "")
	v.SetDefault("calendar.holidays", []string{})
	v.SetDefault("calendar.date_layout", types.HolidayLayoutDMY)

	v.SetDefault("source.sheet_date_layout", types.DateLayoutISO)
	v.SetDefault("source.html_selector", collect.DefaultTableSelector)

	v.SetDefault("output.destination", "")
	v.SetDefault("output.profile", "default")

	v.SetDefault("logging.level", "info")
}

func (c *Config) SolverSettings() types.Solver {
	return types.Solver{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

// Holidays merges the inline holidays with those read from the holiday file.
func (c *Config) Holidays() (types.HolidaySet, error) {
	h, err := types.ParseHolidays(c.Calendar.Holidays, c.Calendar.DateLayout)
	if err != nil {
		return types.HolidaySet{}, err
	}

	if c.Calendar.HolidayFile == "" {
		return h, nil
	}

	fromFile, err := collect.LoadHolidays(c.Calendar.HolidayFile, c.Calendar.DateLayout)
	if err != nil {
		return types.HolidaySet{}, fmt.Errorf("failed to load holidays from %s: %w", c.Calendar.HolidayFile, err)
	}

	return h.Merge(fromFile), nil
}
