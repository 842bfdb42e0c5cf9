package backends

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	pkgexec "github.com/seomikewaltman/openclaw-secure/pkg/exec"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// passFolder is the password-store subfolder holding this tool's entries.
const passFolder = "openclaw-secure"

// PassBackend stores secrets in pass (zx2c4) under a dedicated folder.
type PassBackend struct {
	passwordStore string
	gpgKey        string
	logger        *logging.Logger
	executor      pkgexec.CommandExecutor
}

// NewPassBackend creates the pass CLI backend. Options: password_store
// (custom store path), gpg_key (specific key), both optional.
func NewPassBackend(options map[string]any) (*PassBackend, error) {
	b := &PassBackend{
		logger:   logging.New(false, false),
		executor: pkgexec.DefaultExecutor(),
	}
	if s, ok := options["password_store"].(string); ok {
		b.passwordStore = s
	}
	if k, ok := options["gpg_key"].(string); ok {
		b.gpgKey = k
	}
	return b, nil
}

// NewPassBackendWithExecutor injects a custom executor, for tests.
func NewPassBackendWithExecutor(options map[string]any, executor pkgexec.CommandExecutor) (*PassBackend, error) {
	b, err := NewPassBackend(options)
	if err != nil {
		return nil, err
	}
	b.executor = executor
	return b, nil
}

func (b *PassBackend) Name() string { return "pass" }

// Available reports whether the pass CLI is installed and the store
// initialized.
func (b *PassBackend) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("pass"); err != nil {
		return false
	}
	_, _, err := b.run(ctx, "", "ls")
	return err == nil
}

func (b *PassBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.logger.Debug("fetching %s from pass", logging.Secret(b.entry(key)))
	stdout, stderr, err := b.run(ctx, "", "show", b.entry(key))
	if err != nil {
		if strings.Contains(string(stderr), "not in the password store") {
			return "", false, nil
		}
		return "", false, backend.OperationError{Backend: b.Name(), Op: "get", Key: key, Err: passError(stderr, err)}
	}
	// The secret is the first line; further lines are metadata.
	value := strings.TrimSpace(string(stdout))
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	return value, true, nil
}

func (b *PassBackend) Set(ctx context.Context, key, value string) error {
	b.logger.Debug("storing %s in pass", logging.Secret(b.entry(key)))
	_, stderr, err := b.run(ctx, value+"\n", "insert", "-m", "-f", b.entry(key))
	if err != nil {
		// pass may echo the insert input; never let the value ride out
		// on an error message.
		return backend.OperationError{Backend: b.Name(), Op: "set", Key: key, Err: passError(redact(stderr, value), err)}
	}
	return nil
}

func (b *PassBackend) Delete(ctx context.Context, key string) error {
	_, stderr, err := b.run(ctx, "", "rm", "-f", b.entry(key))
	if err != nil {
		if strings.Contains(string(stderr), "is not in the password store") {
			return nil
		}
		return backend.OperationError{Backend: b.Name(), Op: "delete", Key: key, Err: passError(stderr, err)}
	}
	return nil
}

func (b *PassBackend) List(ctx context.Context) ([]string, error) {
	stdout, stderr, err := b.run(ctx, "", "ls", passFolder)
	if err != nil {
		if strings.Contains(string(stderr), "is not in the password store") {
			return nil, nil
		}
		return nil, backend.OperationError{Backend: b.Name(), Op: "list", Err: passError(stderr, err)}
	}
	// 'pass ls' prints a tree; entries are the leaf lines minus the
	// box-drawing prefix.
	var keys []string
	for _, line := range strings.Split(string(stdout), "\n")[1:] {
		name := strings.TrimRight(strings.TrimLeft(line, "│├└─ \t"), " \r")
		if name != "" {
			keys = append(keys, name)
		}
	}
	return keys, nil
}

func (b *PassBackend) entry(key string) string {
	return passFolder + "/" + key
}

// run executes pass, threading the configured store path and GPG key
// through the environment when set.
func (b *PassBackend) run(ctx context.Context, stdin string, args ...string) ([]byte, []byte, error) {
	if b.passwordStore != "" || b.gpgKey != "" {
		var envPrefix strings.Builder
		if b.passwordStore != "" {
			fmt.Fprintf(&envPrefix, "PASSWORD_STORE_DIR=%q ", b.passwordStore)
		}
		if b.gpgKey != "" {
			fmt.Fprintf(&envPrefix, "PASSWORD_STORE_KEY=%q ", b.gpgKey)
		}
		passCmd := "pass"
		for _, arg := range args {
			passCmd += fmt.Sprintf(" %q", arg)
		}
		return b.executor.ExecuteInput(ctx, stdin, "sh", "-c", envPrefix.String()+passCmd)
	}
	return b.executor.ExecuteInput(ctx, stdin, "pass", args...)
}

func passError(stderr []byte, err error) error {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
