package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
	"github.com/seomikewaltman/openclaw-secure/internal/classify"
	"github.com/seomikewaltman/openclaw-secure/internal/document"
	"github.com/seomikewaltman/openclaw-secure/internal/lifecycle"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	"github.com/seomikewaltman/openclaw-secure/internal/runner"
)

func setup(t *testing.T) (*runner.Runner, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"channels":{"telegram":{"botToken":"`+classify.Placeholder+`"}}}`), 0o600))

	backend := backends.NewMemoryBackendWithValues(map[string]string{
		"telegram-bot-token": "restored-during-run",
	})
	engine := lifecycle.New(backend, &document.Store{}, nil)
	logger := logging.NewWithWriter(os.Stderr, false, true)
	return runner.New(engine, logger, path), path
}

func secretMap() lifecycle.SecretMap {
	return lifecycle.SecretMap{
		{ConfigPath: "channels.telegram.botToken", KeyName: "telegram-bot-token"},
	}
}

func TestRunRestoresThenScrubs(t *testing.T) {
	r, path := setup(t)

	// The child observes the restored plaintext.
	code, err := r.Run(context.Background(), secretMap(),
		[]string{"sh", "-c", "grep -q restored-during-run " + path})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	// After the run the document is scrubbed again.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), classify.Placeholder)
	assert.NotContains(t, string(data), "restored-during-run")
}

func TestRunPropagatesExitCode(t *testing.T) {
	r, _ := setup(t)
	code, err := r.Run(context.Background(), secretMap(), []string{"sh", "-c", "exit 7"})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestRunScrubsAfterFailedChild(t *testing.T) {
	r, path := setup(t)
	_, err := r.Run(context.Background(), secretMap(), []string{"sh", "-c", "exit 1"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "restored-during-run")
}

func TestRunRequiresCommand(t *testing.T) {
	r, _ := setup(t)
	code, err := r.Run(context.Background(), secretMap(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestRunMissingBinary(t *testing.T) {
	r, path := setup(t)
	code, err := r.Run(context.Background(), secretMap(), []string{"/nonexistent/binary"})
	require.Error(t, err)
	assert.Equal(t, 1, code)

	// Even a failed start leaves the document scrubbed.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.NotContains(t, string(data), "restored-during-run")
}
