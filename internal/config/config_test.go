package config

import (
	"benritz/ustreasury/internal/types"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, types.DefaultSolver, cfg.SolverSettings())
	assert.Equal(t, types.HolidayLayoutDMY, cfg.Calendar.DateLayout)
	assert.Equal(t, types.DateLayoutISO, cfg.Source.SheetDateLayout)
	assert.Equal(t, "table.securities tbody tr", cfg.Source.HTMLSelector)
	assert.Equal(t, "default", cfg.Output.Profile)
	assert.Equal(t, "info", cfg.Logging.Level)

	h, err := cfg.Holidays()
	require.NoError(t, err)
	assert.Zero(t, h.Len())
}

func TestLoad_File(t *testing.T) {
	holidayFile := writeConfig(t, "holidays.csv", "date,holiday\n03-09-2007,Labor Day\n08-10-2007,Columbus Day\n")
	path := writeConfig(t, "treasury.yaml", `
solver:
  tolerance: 0.000001
  max_iterations: 50
calendar:
  holiday_file: `+holidayFile+`
  holidays:
    - 25-12-2007
output:
  destination: s3://treasury-data/daily
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, types.Solver{Tolerance: 1e-6, MaxIterations: 50}, cfg.SolverSettings())
	assert.Equal(t, "s3://treasury-data/daily", cfg.Output.Destination)
	assert.Equal(t, "debug", cfg.Logging.Level)

	h, err := cfg.Holidays()
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	assert.True(t, h.Contains(civil.Date{Year: 2007, Month: 9, Day: 3}))
	assert.True(t, h.Contains(civil.Date{Year: 2007, Month: 12, Day: 25}))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TREASURY_SOLVER_MAX_ITERATIONS", "7")
	t.Setenv("TREASURY_OUTPUT_DESTINATION", "/var/lib/treasury")

	cfg, err := Load(writeConfig(t, "treasury.yaml", "solver:\n  max_iterations: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Solver.MaxIterations)
	assert.Equal(t, "/var/lib/treasury", cfg.Output.Destination)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHolidays_Invalid(t *testing.T) {
	cfg := &Config{Calendar: CalendarConfig{Holidays: []string{"2007-12-25"}, DateLayout: types.HolidayLayoutDMY}}

	_, err := cfg.Holidays()
	assert.ErrorIs(t, err, types.ErrInvalidHolidayDate)

	cfg = &Config{Calendar: CalendarConfig{HolidayFile: filepath.Join(t.TempDir(), "missing.csv")}}
	_, err = cfg.Holidays()
	assert.Error(t, err)
}
