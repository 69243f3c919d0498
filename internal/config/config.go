// Package config loads the agenda configuration file.
//
// The file is looked up at the path given by --config, then $AGENDA_CONFIG,
// then $XDG_CONFIG_HOME/agenda/config.yaml (~/.config/agenda/config.yaml).
// A missing file in the default location means defaults; an explicit path
// that does not exist is an error. Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/storage"
)

const (
	appName    = "agenda"
	configFile = "config.yaml"
)

// Config is the agenda configuration.
type Config struct {
	// DataDir holds the store and maintenance state.
	// Default: $XDG_DATA_HOME/agenda (~/.local/share/agenda)
	DataDir string `yaml:"data_dir"`

	// Backend selects the persistence format: yaml or sqlite.
	Backend storage.Backend `yaml:"backend"`

	// LogLevel is a logrus level name. Logs go to stderr.
	LogLevel string `yaml:"log_level"`

	// FocusMode is the default focus queue strategy.
	FocusMode schedule.Mode `yaml:"focus_mode"`

	// FocusSize caps the top-scored focus queue.
	FocusSize int `yaml:"focus_size"`

	// Timezone is an IANA zone name that defines the calendar day.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone"`

	// AutoRoll rolls stale dates forward on the first command of each day.
	AutoRoll bool `yaml:"auto_roll"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:   filepath.Join(dataHome(), appName),
		Backend:   storage.BackendYAML,
		LogLevel:  log.WarnLevel.String(),
		FocusMode: schedule.TodayRelevant,
		FocusSize: schedule.DefaultFocusSize,
		AutoRoll:  true,
	}
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	if p := os.Getenv("AGENDA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configHome(), appName, configFile)
}

// Load reads the config at path, or the default location when path is
// empty. Only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != "" || os.Getenv("AGENDA_CONFIG") != ""
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":          os.Getenv("HOME"),
		"XDG_DATA_HOME": dataHome(),
	}
	c.DataDir = expandVars(c.DataDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// InvalidValueError describes one rejected config field.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the configuration for errors. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, InvalidValueError{Field: "data_dir", Reason: "must not be empty"})
	}
	if !c.Backend.IsValid() {
		errs = append(errs, InvalidValueError{Field: "backend", Value: string(c.Backend), Reason: "must be yaml or sqlite"})
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, InvalidValueError{Field: "log_level", Value: c.LogLevel, Reason: "unknown level"})
	}
	if !c.FocusMode.IsValid() {
		modes := []string{string(schedule.TodayRelevant), string(schedule.TopScored)}
		errs = append(errs, InvalidValueError{Field: "focus_mode", Value: string(c.FocusMode), Reason: fmt.Sprintf("must be one of %v", modes)})
	}
	if c.FocusSize < 1 {
		errs = append(errs, InvalidValueError{Field: "focus_size", Value: fmt.Sprint(c.FocusSize), Reason: "must be at least 1"})
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, InvalidValueError{Field: "timezone", Value: c.Timezone, Reason: err.Error()})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || slices.Contains([]string{"local", "Local"}, c.Timezone) {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}
