// Package systemd patches a systemd service with a managed drop-in so
// the config document is scrubbed before the dependent process starts at
// boot. Plain text patching plus systemctl; no D-Bus.
package systemd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	ocerrors "github.com/seomikewaltman/openclaw-secure/internal/errors"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	pkgexec "github.com/seomikewaltman/openclaw-secure/pkg/exec"
)

// dropInName identifies our managed drop-in inside the service's .d
// directory. The numeric prefix keeps it ordered before user overrides.
const dropInName = "10-openclaw-secure.conf"

// Manager installs and refreshes the drop-in for one service.
type Manager struct {
	unitDir  string // e.g. /etc/systemd/system
	binPath  string // openclaw-secure binary invoked by ExecStartPre
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
	dryRun   bool
}

// NewManager creates a systemd integration manager. The systemctl binary
// must be present unless dryRun is set.
func NewManager(unitDir, binPath string, logger *logging.Logger, dryRun bool) (*Manager, error) {
	if !dryRun {
		if _, err := exec.LookPath("systemctl"); err != nil {
			return nil, ocerrors.WrapCommandNotFound("systemctl", err)
		}
	}
	if unitDir == "" {
		unitDir = "/etc/systemd/system"
	}
	return &Manager{
		unitDir:  unitDir,
		binPath:  binPath,
		logger:   logger,
		executor: pkgexec.DefaultExecutor(),
		dryRun:   dryRun,
	}, nil
}

// NewManagerWithExecutor injects a custom executor and skips the
// systemctl lookup, for tests.
func NewManagerWithExecutor(unitDir, binPath string, logger *logging.Logger, executor pkgexec.CommandExecutor) *Manager {
	return &Manager{
		unitDir:  unitDir,
		binPath:  binPath,
		logger:   logger,
		executor: executor,
	}
}

// Install writes the scrub drop-in for service (e.g. "openclaw") guarding
// configPath, and reloads systemd when the drop-in changed. Returns true
// when something was written.
func (m *Manager) Install(ctx context.Context, service, configPath string) (bool, error) {
	content := m.render(configPath)
	dir := filepath.Join(m.unitDir, service+".service.d")
	target := filepath.Join(dir, dropInName)

	if prior, err := os.ReadFile(target); err == nil {
		if hash(prior) == hash(content) {
			m.logger.Debug("drop-in %s unchanged", target)
			return false, nil
		}
	}

	if m.dryRun {
		m.logger.Info("would write %s", target)
		return true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating drop-in directory %s: %w", dir, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return false, fmt.Errorf("writing drop-in %s: %w", target, err)
	}
	m.logger.Info("installed drop-in %s", target)

	if _, stderr, err := m.executor.Execute(ctx, "systemctl", "daemon-reload"); err != nil {
		return true, fmt.Errorf("systemctl daemon-reload failed: %s: %w", stderr, err)
	}
	return true, nil
}

// Remove deletes the managed drop-in if present and reloads systemd.
func (m *Manager) Remove(ctx context.Context, service string) error {
	target := filepath.Join(m.unitDir, service+".service.d", dropInName)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	}
	if m.dryRun {
		m.logger.Info("would remove %s", target)
		return nil
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("removing drop-in %s: %w", target, err)
	}
	if _, stderr, err := m.executor.Execute(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("systemctl daemon-reload failed: %s: %w", stderr, err)
	}
	return nil
}

func (m *Manager) render(configPath string) []byte {
	return []byte(fmt.Sprintf(`# Managed by openclaw-secure. Do not edit; changes are overwritten.
[Service]
ExecStartPre=%s scrub --config %s
`, m.binPath, configPath))
}

func hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
