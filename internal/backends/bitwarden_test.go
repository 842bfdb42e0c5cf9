package backends_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

func newBitwarden(t *testing.T, exec *fakeExecutor) *backends.BitwardenBackend {
	t.Helper()
	b, err := backends.NewBitwardenBackendWithExecutor(nil, exec)
	require.NoError(t, err)
	return b
}

func TestBitwardenGet(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/telegram-bot-token", fakeResponse{
		stdout: `{"id":"abc-123","name":"openclaw-secure/telegram-bot-token","type":1,"login":{"password":"the-secret"}}`,
	})

	value, found, err := newBitwarden(t, exec).Get(context.Background(), "telegram-bot-token")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "the-secret", value)
}

func TestBitwardenGetAbsent(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/missing", fakeResponse{
		stderr: "Not found.",
		err:    errors.New("exit status 1"),
	})

	_, found, err := newBitwarden(t, exec).Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBitwardenGetLockedVaultIsOperationError(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/key", fakeResponse{
		stderr: "Vault is locked.",
		err:    errors.New("exit status 1"),
	})

	_, _, err := newBitwarden(t, exec).Get(context.Background(), "key")
	var opErr backend.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "bitwarden", opErr.Backend)
}

func TestBitwardenSetCreatesNewItem(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/new-key", fakeResponse{
		stderr: "Not found.",
		err:    errors.New("exit status 1"),
	})

	payload, _ := json.Marshal(map[string]any{
		"type": 1,
		"name": "openclaw-secure/new-key",
		"login": map[string]any{
			"password": "the-value",
		},
	})
	encoded := base64.StdEncoding.EncodeToString(payload)
	exec.on("bw create item "+encoded, fakeResponse{stdout: `{"id":"new-id"}`})

	require.NoError(t, newBitwarden(t, exec).Set(context.Background(), "new-key", "the-value"))
	require.Len(t, exec.calls, 2)
	assert.Equal(t, "create", exec.calls[1].args[0])
}

func TestBitwardenSetEditsExistingItem(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/key", fakeResponse{
		stdout: `{"id":"abc-123","name":"openclaw-secure/key","type":1,"login":{"password":"old"}}`,
	})

	payload, _ := json.Marshal(map[string]any{
		"type": 1,
		"name": "openclaw-secure/key",
		"login": map[string]any{
			"password": "new-value",
		},
	})
	encoded := base64.StdEncoding.EncodeToString(payload)
	exec.on("bw edit item abc-123 "+encoded, fakeResponse{stdout: `{"id":"abc-123"}`})

	require.NoError(t, newBitwarden(t, exec).Set(context.Background(), "key", "new-value"))
	require.Len(t, exec.calls, 2)
	assert.Equal(t, "edit", exec.calls[1].args[0])
}

func TestBitwardenDelete(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/key", fakeResponse{
		stdout: `{"id":"abc-123","name":"openclaw-secure/key","type":1}`,
	})
	exec.on("bw delete item abc-123", fakeResponse{})

	require.NoError(t, newBitwarden(t, exec).Delete(context.Background(), "key"))
}

func TestBitwardenDeleteAbsentIsNoOp(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw get item openclaw-secure/gone", fakeResponse{
		stderr: "Not found.",
		err:    errors.New("exit status 1"),
	})

	require.NoError(t, newBitwarden(t, exec).Delete(context.Background(), "gone"))
	require.Len(t, exec.calls, 1, "no delete call for an absent item")
}

func TestBitwardenList(t *testing.T) {
	t.Parallel()
	exec := newFakeExecutor()
	exec.on("bw list items --search openclaw-secure/", fakeResponse{
		stdout: `[{"id":"1","name":"openclaw-secure/a-key","type":1},{"id":"2","name":"personal-item","type":1}]`,
	})

	keys, err := newBitwarden(t, exec).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a-key"}, keys, "only namespaced items are listed")
}
