package lifecycle_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
	"github.com/seomikewaltman/openclaw-secure/internal/classify"
	"github.com/seomikewaltman/openclaw-secure/internal/document"
	"github.com/seomikewaltman/openclaw-secure/internal/lifecycle"
)

const telegramToken = "7234891:AAFsomeLongTokenValueHere"

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readDoc(t *testing.T, path string) map[string]any {
	t.Helper()
	store := &document.Store{}
	doc, err := store.Read(path)
	require.NoError(t, err)
	return doc
}

func telegramMap() lifecycle.SecretMap {
	return lifecycle.SecretMap{
		{ConfigPath: "channels.telegram.botToken", KeyName: "telegram-bot-token"},
	}
}

func TestStoreRestoreRoundTrip(t *testing.T) {
	path := writeDoc(t, "openclaw.json",
		`{"channels":{"telegram":{"botToken":"`+telegramToken+`"}}}`)

	backend := backends.NewMemoryBackend()
	engine := lifecycle.New(backend, &document.Store{}, nil)
	ctx := context.Background()

	results, err := engine.Store(ctx, path, telegramMap())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Stored)

	doc := readDoc(t, path)
	assert.Equal(t, classify.Placeholder, doc["channels"].(map[string]any)["telegram"].(map[string]any)["botToken"])

	value, found, err := backend.Get(ctx, "telegram-bot-token")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, telegramToken, value)

	require.NoError(t, engine.Restore(ctx, path, telegramMap()))
	doc = readDoc(t, path)
	assert.Equal(t, telegramToken, doc["channels"].(map[string]any)["telegram"].(map[string]any)["botToken"])
}

func TestStoreSkipsPlaceholderAndMissing(t *testing.T) {
	path := writeDoc(t, "openclaw.json",
		`{"channels":{"telegram":{"botToken":"`+classify.Placeholder+`"}}}`)

	engine := lifecycle.New(backends.NewMemoryBackend(), &document.Store{}, nil)
	m := lifecycle.SecretMap{
		{ConfigPath: "channels.telegram.botToken", KeyName: "telegram-bot-token"},
		{ConfigPath: "channels.discord.botToken", KeyName: "discord-bot-token"},
	}

	results, err := engine.Store(context.Background(), path, m)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Stored)
	assert.Equal(t, "already stored", results[0].Reason)
	assert.False(t, results[1].Stored)
	assert.Equal(t, "not found", results[1].Reason)
}

func TestStoreSkipsNonStringValues(t *testing.T) {
	path := writeDoc(t, "openclaw.json", `{"gateway":{"port":8080}}`)

	engine := lifecycle.New(backends.NewMemoryBackend(), &document.Store{}, nil)
	m := lifecycle.SecretMap{{ConfigPath: "gateway.port", KeyName: "gateway-port"}}

	results, err := engine.Store(context.Background(), path, m)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "not a string", results[0].Reason)
}

// failAfterSet wraps the memory backend and fails Set after a quota of
// successful calls, to exercise mid-batch failure behavior.
type failAfterSet struct {
	*backends.MemoryBackend
	remaining int
}

func (f *failAfterSet) Set(ctx context.Context, key, value string) error {
	if f.remaining <= 0 {
		return errors.New("backend went away")
	}
	f.remaining--
	return f.MemoryBackend.Set(ctx, key, value)
}

func TestStoreMidBatchFailureLeavesDocumentUntouched(t *testing.T) {
	raw := `{"channels":{"discord":{"botToken":"discord-value-long-enough"},"telegram":{"botToken":"` + telegramToken + `"}}}`
	path := writeDoc(t, "openclaw.json", raw)

	backend := &failAfterSet{MemoryBackend: backends.NewMemoryBackend(), remaining: 1}
	engine := lifecycle.New(backend, &document.Store{}, nil)
	m := lifecycle.SecretMap{
		{ConfigPath: "channels.discord.botToken", KeyName: "discord-bot-token"},
		{ConfigPath: "channels.telegram.botToken", KeyName: "telegram-bot-token"},
	}

	results, err := engine.Store(context.Background(), path, m)
	require.Error(t, err)
	require.Len(t, results, 1, "the entry stored before the failure is reported")
	assert.True(t, results[0].Stored)

	// Nothing reached disk; the backend is ahead of the document, which
	// re-running store resolves.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.JSONEq(t, raw, string(data))

	_, found, getErr := backend.Get(context.Background(), "discord-bot-token")
	require.NoError(t, getErr)
	assert.True(t, found)
}

func TestRestoreLeavesUnresolvedEntriesUntouched(t *testing.T) {
	path := writeDoc(t, "openclaw.json",
		`{"channels":{"telegram":{"botToken":"`+classify.Placeholder+`"}}}`)

	engine := lifecycle.New(backends.NewMemoryBackend(), &document.Store{}, nil)
	require.NoError(t, engine.Restore(context.Background(), path, telegramMap()))

	doc := readDoc(t, path)
	assert.Equal(t, classify.Placeholder,
		doc["channels"].(map[string]any)["telegram"].(map[string]any)["botToken"],
		"restore never blanks a field it cannot resolve")
}

func TestScrubIsIdempotent(t *testing.T) {
	path := writeDoc(t, "openclaw.json",
		`{"channels":{"telegram":{"botToken":"`+telegramToken+`"}}}`)

	engine := lifecycle.New(backends.NewMemoryBackend(), &document.Store{}, nil)
	ctx := context.Background()

	require.NoError(t, engine.Scrub(ctx, path, telegramMap()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, engine.Scrub(ctx, path, telegramMap()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	doc := readDoc(t, path)
	assert.Equal(t, classify.Placeholder, doc["channels"].(map[string]any)["telegram"].(map[string]any)["botToken"])
}

func TestCheckReportsExistence(t *testing.T) {
	backend := backends.NewMemoryBackendWithValues(map[string]string{
		"telegram-bot-token": telegramToken,
	})
	engine := lifecycle.New(backend, &document.Store{}, nil)

	m := lifecycle.SecretMap{
		{ConfigPath: "channels.telegram.botToken", KeyName: "telegram-bot-token"},
		{ConfigPath: "channels.discord.botToken", KeyName: "discord-bot-token"},
	}
	results, err := engine.Check(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Exists)
	assert.False(t, results[1].Exists)
}

func TestSecretMapValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		m       lifecycle.SecretMap
		wantErr string
	}{
		{
			name: "valid",
			m: lifecycle.SecretMap{
				{ConfigPath: "a.b", KeyName: "a-b"},
				{ConfigPath: "c.d", KeyName: "c-d"},
			},
		},
		{
			name: "duplicate path",
			m: lifecycle.SecretMap{
				{ConfigPath: "a.b", KeyName: "a-b"},
				{ConfigPath: "a.b", KeyName: "other"},
			},
			wantErr: "duplicate config path",
		},
		{
			name: "colliding key name",
			m: lifecycle.SecretMap{
				{ConfigPath: "a.b", KeyName: "same"},
				{ConfigPath: "c.d", KeyName: "same"},
			},
			wantErr: "collides",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStoreCancelledContext(t *testing.T) {
	path := writeDoc(t, "openclaw.json",
		`{"channels":{"telegram":{"botToken":"`+telegramToken+`"}}}`)

	engine := lifecycle.New(backends.NewMemoryBackend(), &document.Store{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Store(ctx, path, telegramMap())
	assert.ErrorIs(t, err, context.Canceled)
}
