package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomikewaltman/openclaw-secure/internal/prefs"
)

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	content := `backend: pass
additionalPaths:
  - custom.apiToken
excludePaths:
  - channels.dev.*
backup: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p := prefs.Load(path, nil)
	assert.Equal(t, "pass", p.Backend)
	assert.Equal(t, []string{"custom.apiToken"}, p.AdditionalPaths)
	assert.Equal(t, []string{"channels.dev.*"}, p.ExcludePaths)
	assert.False(t, p.BackupEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	p := prefs.Load(filepath.Join(t.TempDir(), "prefs.yaml"), nil)
	assert.Equal(t, prefs.Prefs{}, p)
	assert.True(t, p.BackupEnabled(), "backup defaults to on")
}

func TestLoadMalformedDegradesToEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated"), 0o600))

	p := prefs.Load(path, nil)
	assert.Equal(t, prefs.Prefs{}, p)
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, prefs.Prefs{}, prefs.Load("", nil))
}
