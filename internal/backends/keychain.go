package backends

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// keychainService namespaces this tool's entries in the OS keyring.
const keychainService = "openclaw-secure"

// keychainIndexAccount is a reserved account holding the JSON list of
// keys we manage. The OS keyring APIs cannot enumerate, so List is
// backed by this index.
const keychainIndexAccount = "__index__"

// KeychainBackend stores secrets in the OS keyring: macOS Keychain via
// the security tool, Linux Secret Service over D-Bus, Windows credential
// manager. This is the default backend.
type KeychainBackend struct {
	mu sync.Mutex
}

// NewKeychainBackend creates the OS keyring backend.
func NewKeychainBackend(options map[string]any) (*KeychainBackend, error) {
	return &KeychainBackend{}, nil
}

func (b *KeychainBackend) Name() string { return "keychain" }

// Available probes the keyring with a read of the index entry. A
// not-found answer still means the keyring itself responded.
func (b *KeychainBackend) Available(ctx context.Context) bool {
	_, err := keyring.Get(keychainService, keychainIndexAccount)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func (b *KeychainBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := keyring.Get(keychainService, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

func (b *KeychainBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := keyring.Set(keychainService, key, value); err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: err}
	}
	return b.updateIndex(key, true)
}

func (b *KeychainBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := keyring.Delete(keychainService, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return backend.OperationError{Backend: b.Name(), Op: "delete", Key: key, Err: err}
	}
	return b.updateIndex(key, false)
}

func (b *KeychainBackend) List(ctx context.Context) ([]string, error) {
	keys, err := b.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *KeychainBackend) readIndex() ([]string, error) {
	raw, err := keyring.Get(keychainService, keychainIndexAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: err}
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		// A corrupt index loses enumeration, not the secrets themselves.
		return nil, nil
	}
	return keys, nil
}

func (b *KeychainBackend) updateIndex(key string, present bool) error {
	keys, err := b.readIndex()
	if err != nil {
		return err
	}
	out := keys[:0]
	seen := false
	for _, k := range keys {
		if k == key {
			seen = true
			if !present {
				continue
			}
		}
		out = append(out, k)
	}
	if present && !seen {
		out = append(out, key)
	}
	data, _ := json.Marshal(out)
	if err := keyring.Set(keychainService, keychainIndexAccount, string(data)); err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: keychainIndexAccount, Err: err}
	}
	return nil
}
