package backends

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	pkgexec "github.com/seomikewaltman/openclaw-secure/pkg/exec"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// bwPrefix namespaces this tool's login items in the Bitwarden vault.
const bwPrefix = "openclaw-secure/"

// BitwardenBackend stores secrets as login items named
// "openclaw-secure/<key>" via the bw CLI. Requires an unlocked session
// (BW_SESSION).
type BitwardenBackend struct {
	executor pkgexec.CommandExecutor
}

// NewBitwardenBackend creates the bw CLI backend.
func NewBitwardenBackend(options map[string]any) (*BitwardenBackend, error) {
	return &BitwardenBackend{executor: pkgexec.DefaultExecutor()}, nil
}

// NewBitwardenBackendWithExecutor injects a custom executor, for tests.
func NewBitwardenBackendWithExecutor(options map[string]any, executor pkgexec.CommandExecutor) (*BitwardenBackend, error) {
	return &BitwardenBackend{executor: executor}, nil
}

type bwItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  int    `json:"type"`
	Login *struct {
		Password string `json:"password"`
	} `json:"login,omitempty"`
}

func (b *BitwardenBackend) Name() string { return "bitwarden" }

// Available reports whether the bw CLI is installed and the vault unlocked.
func (b *BitwardenBackend) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("bw"); err != nil {
		return false
	}
	stdout, _, err := b.executor.Execute(ctx, "bw", "status")
	if err != nil {
		return false
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(stdout, &status); err != nil {
		return false
	}
	return status.Status == "unlocked"
}

func (b *BitwardenBackend) Get(ctx context.Context, key string) (string, bool, error) {
	item, found, err := b.getItem(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	if item.Login == nil {
		return "", false, backend.OperationError{
			Backend: b.Name(), Op: "get", Key: key,
			Err: fmt.Errorf("item %q has no login password field", item.Name),
		}
	}
	return item.Login.Password, true, nil
}

func (b *BitwardenBackend) Set(ctx context.Context, key, value string) error {
	item, found, err := b.getItem(ctx, key)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"type": 1, // login
		"name": bwPrefix + key,
		"login": map[string]any{
			"password": value,
		},
	}
	data, _ := json.Marshal(payload)
	encoded := base64.StdEncoding.EncodeToString(data)

	if found {
		_, stderr, err := b.executor.Execute(ctx, "bw", "edit", "item", item.ID, encoded)
		if err != nil {
			return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: bwError(stderr, err)}
		}
		return nil
	}
	_, stderr, err := b.executor.Execute(ctx, "bw", "create", "item", encoded)
	if err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: bwError(stderr, err)}
	}
	return nil
}

func (b *BitwardenBackend) Delete(ctx context.Context, key string) error {
	item, found, err := b.getItem(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	_, stderr, err := b.executor.Execute(ctx, "bw", "delete", "item", item.ID)
	if err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "delete", Key: key, Err: bwError(stderr, err)}
	}
	return nil
}

func (b *BitwardenBackend) List(ctx context.Context) ([]string, error) {
	stdout, stderr, err := b.executor.Execute(ctx, "bw", "list", "items", "--search", bwPrefix)
	if err != nil {
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: bwError(stderr, err)}
	}
	var items []bwItem
	if err := json.Unmarshal(stdout, &items); err != nil {
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: err}
	}
	var keys []string
	for _, item := range items {
		if strings.HasPrefix(item.Name, bwPrefix) {
			keys = append(keys, strings.TrimPrefix(item.Name, bwPrefix))
		}
	}
	return keys, nil
}

// getItem looks an item up by name. Absent items are (zero, false, nil);
// only exact not-found phrasings map to absent.
func (b *BitwardenBackend) getItem(ctx context.Context, key string) (bwItem, bool, error) {
	stdout, stderr, err := b.executor.Execute(ctx, "bw", "get", "item", bwPrefix+key)
	if err != nil {
		s := string(stderr)
		if strings.Contains(s, "Not found") || strings.Contains(s, "not found") {
			return bwItem{}, false, nil
		}
		return bwItem{}, false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: bwError(stderr, err)}
	}
	var item bwItem
	if err := json.Unmarshal(stdout, &item); err != nil {
		return bwItem{}, false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: err}
	}
	return item, true, nil
}

func bwError(stderr []byte, err error) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
