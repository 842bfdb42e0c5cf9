package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	pkgexec "github.com/seomikewaltman/openclaw-secure/pkg/exec"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// OnePasswordBackend stores secrets as Password items in a dedicated
// 1Password vault, via the op CLI.
type OnePasswordBackend struct {
	vault    string
	account  string
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
}

// NewOnePasswordBackend creates the op CLI backend. The vault option is
// required so this tool's items never mix with personal ones.
func NewOnePasswordBackend(options map[string]any) (*OnePasswordBackend, error) {
	b := &OnePasswordBackend{
		logger:   logging.New(false, false),
		executor: pkgexec.DefaultExecutor(),
	}
	if v, ok := options["vault"].(string); ok {
		b.vault = v
	}
	if a, ok := options["account"].(string); ok {
		b.account = a
	}
	if b.vault == "" {
		return nil, backend.ValidationError{
			Backend: "onepassword",
			Option:  "vault",
			Reason:  "a dedicated vault name is required",
		}
	}
	return b, nil
}

// NewOnePasswordBackendWithExecutor injects a custom executor, for tests.
func NewOnePasswordBackendWithExecutor(options map[string]any, executor pkgexec.CommandExecutor) (*OnePasswordBackend, error) {
	b, err := NewOnePasswordBackend(options)
	if err != nil {
		return nil, err
	}
	b.executor = executor
	return b, nil
}

func (b *OnePasswordBackend) Name() string { return "onepassword" }

// Available reports whether the op CLI is installed and signed in.
func (b *OnePasswordBackend) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("op"); err != nil {
		return false
	}
	_, _, err := b.run(ctx, "account", "get")
	return err == nil
}

func (b *OnePasswordBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.logger.Debug("fetching %s from 1Password vault %s", logging.Secret(key), b.vault)
	stdout, stderr, err := b.run(ctx, "item", "get", key, "--vault", b.vault, "--fields", "label=password", "--reveal")
	if err != nil {
		if isOpNotFound(stderr) {
			return "", false, nil
		}
		return "", false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: opError(stderr, err)}
	}
	return strings.TrimSpace(string(stdout)), true, nil
}

func (b *OnePasswordBackend) Set(ctx context.Context, key, value string) error {
	b.logger.Debug("storing %s in 1Password vault %s", logging.Secret(key), b.vault)
	// Edit first; fall back to create when the item doesn't exist yet.
	// The value travels on the op command line, so any error text gets
	// redacted before it can surface.
	_, stderr, err := b.run(ctx, "item", "edit", key, "--vault", b.vault, fmt.Sprintf("password=%s", value))
	if err == nil {
		return nil
	}
	if !isOpNotFound(stderr) {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: opError(redact(stderr, value), err)}
	}
	_, stderr, err = b.run(ctx, "item", "create", "--category", "Password",
		"--title", key, "--vault", b.vault, fmt.Sprintf("password=%s", value))
	if err != nil {
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: opError(redact(stderr, value), err)}
	}
	return nil
}

func redact(stderr []byte, value string) []byte {
	return []byte(logging.Redact(string(stderr), []string{value}))
}

func (b *OnePasswordBackend) Delete(ctx context.Context, key string) error {
	_, stderr, err := b.run(ctx, "item", "delete", key, "--vault", b.vault)
	if err != nil {
		if isOpNotFound(stderr) {
			return nil
		}
		return backend.OperationError{Backend: b.Name(), Op: "delete", Key: key, Err: opError(stderr, err)}
	}
	return nil
}

func (b *OnePasswordBackend) List(ctx context.Context) ([]string, error) {
	stdout, stderr, err := b.run(ctx, "item", "list", "--vault", b.vault, "--format", "json")
	if err != nil {
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: opError(stderr, err)}
	}
	var items []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(stdout, &items); err != nil {
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: err}
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Title)
	}
	return keys, nil
}

func (b *OnePasswordBackend) run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	if b.account != "" {
		args = append(args, "--account", b.account)
	}
	return b.executor.Execute(ctx, "op", args...)
}

// isOpNotFound matches the op CLI's documented not-found phrasings.
// Anything else is treated as an operation failure, never as absent.
func isOpNotFound(stderr []byte) bool {
	s := string(stderr)
	return strings.Contains(s, "isn't an item") ||
		strings.Contains(s, "no item found") ||
		strings.Contains(s, "could not be found")
}

func opError(stderr []byte, err error) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
