package lifecycle

import (
	"context"
	"sort"

	"github.com/seomikewaltman/openclaw-secure/internal/discover"
)

// LegacyNameMap maps config paths to the superseded backend key names
// used by earlier releases. Read-only; consumed only by Migrate.
type LegacyNameMap map[string]string

// DefaultLegacyNames are the key names this tool used before key names
// were derived from config paths.
var DefaultLegacyNames = LegacyNameMap{
	"channels.telegram.botToken":              "telegram-token",
	"channels.discord.botToken":               "discord-token",
	"gateway.auth.token":                      "gateway-token",
	"skills.entries.openai-whisper-api.apiKey": "whisper-api-key",
}

// MigrateResult reports what happened to one legacy name.
type MigrateResult struct {
	ConfigPath string `json:"configPath"`
	OldName    string `json:"oldName"`
	NewName    string `json:"newName"`
	Migrated   bool   `json:"migrated"`
	Reason     string `json:"reason,omitempty"`
}

// Migrate renames backend values from legacy key names to the derived
// ones. Safe to run repeatedly: entries already migrated report "no value
// at old name". When both names hold values the new one wins and the old
// is deleted as stale. Not transactional; a failure mid-sequence leaves
// earlier entries migrated.
func (e *Engine) Migrate(ctx context.Context, legacy LegacyNameMap) ([]MigrateResult, error) {
	// Deterministic iteration for reproducible output.
	paths := make([]string, 0, len(legacy))
	for p := range legacy {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var results []MigrateResult
	for _, configPath := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		oldName := legacy[configPath]
		newName := discover.DeriveKeyName(configPath)

		if oldName == newName {
			results = append(results, MigrateResult{configPath, oldName, newName, false, "identical"})
			continue
		}

		value, found, err := e.backend.Get(ctx, oldName)
		if err != nil {
			return results, err
		}
		if !found {
			results = append(results, MigrateResult{configPath, oldName, newName, false, "no value at old name"})
			continue
		}

		_, newExists, err := e.backend.Get(ctx, newName)
		if err != nil {
			return results, err
		}
		if newExists {
			if err := e.backend.Delete(ctx, oldName); err != nil {
				return results, err
			}
			results = append(results, MigrateResult{configPath, oldName, newName, true, "deleted old, new already existed"})
			continue
		}

		if err := e.backend.Set(ctx, newName, value); err != nil {
			return results, err
		}
		if err := e.backend.Delete(ctx, oldName); err != nil {
			return results, err
		}
		results = append(results, MigrateResult{configPath, oldName, newName, true, ""})
	}
	return results, nil
}
