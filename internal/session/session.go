// Package session tracks daily maintenance state next to the store, so the
// CLI rolls stale dates forward at most once per calendar day.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/task"
)

const stateFile = "maintenance.json"

// State records the last roll-forward run.
type State struct {
	LastRoll    task.Date `json:"last_roll"`
	RolledAt    time.Time `json:"rolled_at"`
	Affected    int       `json:"affected"`
	Rescheduled int       `json:"rescheduled"`
	Redue       int       `json:"redue"`
}

// statePath returns the full path to the state file for the given base path.
func statePath(basePath string) string {
	return filepath.Join(basePath, stateFile)
}

// Load reads the state from disk.
func Load(basePath string) (*State, error) {
	data, err := os.ReadFile(statePath(basePath))
	if err != nil {
		return nil, err
	}

	var s State
	if unmarshalErr := json.Unmarshal(data, &s); unmarshalErr != nil {
		return nil, unmarshalErr
	}

	return &s, nil
}

// Save writes the state to disk.
func Save(basePath string, s *State) error {
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if mkdirErr := os.MkdirAll(basePath, 0o755); mkdirErr != nil {
		return mkdirErr
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	//nolint:gosec // G306: 0644 is appropriate for user-readable state files
	return os.WriteFile(statePath(basePath), data, 0o644)
}

// Delete removes the state file.
func Delete(basePath string) error {
	err := os.Remove(statePath(basePath))
	if os.IsNotExist(err) {
		return nil // Already deleted, not an error
	}
	return err
}

// Claim marks today's roll-forward as taken. Returns false if it already
// ran today. A corrupt state file is overwritten.
func Claim(basePath string, today task.Date, now time.Time) (bool, error) {
	existing, loadErr := Load(basePath)
	if loadErr == nil && existing.LastRoll == today {
		return false, nil
	}
	if loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		var syntaxErr *json.SyntaxError
		if !errors.As(loadErr, &syntaxErr) {
			return false, loadErr
		}
	}

	s := &State{LastRoll: today, RolledAt: now.UTC()}
	if saveErr := Save(basePath, s); saveErr != nil {
		return false, saveErr
	}
	return true, nil
}

// Record stores the outcome of the run claimed for report.Today.
func Record(basePath string, report schedule.Report, now time.Time) error {
	return Save(basePath, &State{
		LastRoll:    report.Today,
		RolledAt:    now.UTC(),
		Affected:    report.Count(),
		Rescheduled: report.Rescheduled,
		Redue:       report.Redue,
	})
}
