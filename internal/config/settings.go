package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadSettings.
const (
	EnvPreset  = "STAIRCASE_PRESET"
	EnvLogDir  = "STAIRCASE_LOG_DIR"
	EnvNoLog   = "STAIRCASE_NO_LOG"
	EnvVerbose = "STAIRCASE_VERBOSE"
	EnvJobs    = "STAIRCASE_JOBS"
)

// Settings holds CLI defaults that can come from the environment.
type Settings struct {
	Preset  Preset
	LogDir  string
	NoLog   bool
	Verbose bool
	Jobs    int
}

// DefaultSettings returns Settings with built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Preset: DefaultPreset,
		LogDir: "logs",
		Jobs:   DefaultJobs,
	}
}

// LoadSettings loads envFile (if it exists) into the process environment and
// returns the defaults overridden by any STAIRCASE_* variables. Variables
// already set in the environment take precedence over the file.
func LoadSettings(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	s := DefaultSettings()

	if v := os.Getenv(EnvPreset); v != "" {
		p, err := ParsePreset(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvPreset, err)
		}
		s.Preset = p
	}

	if v := os.Getenv(EnvLogDir); v != "" {
		s.LogDir = v
	}

	var err error
	if s.NoLog, err = envBool(EnvNoLog, s.NoLog); err != nil {
		return Settings{}, err
	}
	if s.Verbose, err = envBool(EnvVerbose, s.Verbose); err != nil {
		return Settings{}, err
	}

	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil || jobs < 1 {
			return Settings{}, fmt.Errorf("%s must be a positive integer, got %q", EnvJobs, v)
		}
		s.Jobs = jobs
	}

	return s, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
