// Package prefs loads optional user preferences. The file is a
// best-effort override source consulted before command-line flags;
// absence or malformed content degrades to empty defaults, never a hard
// failure.
package prefs

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seomikewaltman/openclaw-secure/internal/logging"
)

// Prefs holds user-level defaults for the CLI.
type Prefs struct {
	// Backend names the default backend when --backend is not given.
	Backend string `yaml:"backend,omitempty"`

	// AdditionalPaths are always treated as known secret locations.
	AdditionalPaths []string `yaml:"additionalPaths,omitempty"`

	// ExcludePaths are never reported by discovery.
	ExcludePaths []string `yaml:"excludePaths,omitempty"`

	// Backup toggles the pre-write document snapshot. Defaults to on.
	Backup *bool `yaml:"backup,omitempty"`
}

// DefaultPath returns the conventional preferences location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "openclaw-secure", "prefs.yaml")
}

// Load reads preferences from path. Any failure degrades to empty
// preferences with a debug log.
func Load(path string, logger *logging.Logger) Prefs {
	var p Prefs
	if path == "" {
		return p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Debug("preferences unreadable at %s: %v", path, err)
		}
		return p
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		if logger != nil {
			logger.Debug("preferences malformed at %s: %v", path, err)
		}
		return Prefs{}
	}
	return p
}

// BackupEnabled resolves the backup toggle, defaulting to true.
func (p Prefs) BackupEnabled() bool {
	if p.Backup == nil {
		return true
	}
	return *p.Backup
}
