// Package runner wraps the dependent process: restore secrets into the
// document, run the process with inherited stdio and forwarded signals,
// and scrub the document when the process exits or the run is
// interrupted. Scrubbing on interruption is best-effort cleanup, not a
// transaction; a failure still leaves the backend authoritative.
package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/seomikewaltman/openclaw-secure/internal/lifecycle"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
)

// Runner restores, runs, and scrubs around one dependent process.
type Runner struct {
	engine  *lifecycle.Engine
	logger  *logging.Logger
	docPath string
}

// New creates a runner around the given lifecycle engine.
func New(engine *lifecycle.Engine, logger *logging.Logger, docPath string) *Runner {
	return &Runner{engine: engine, logger: logger, docPath: docPath}
}

// Run restores secrets, executes argv with inherited stdio, scrubs, and
// returns the child's exit code. SIGINT/SIGTERM are forwarded to the
// child; the scrub still runs after an interrupted child exits.
func (r *Runner) Run(ctx context.Context, m lifecycle.SecretMap, argv []string) (int, error) {
	if len(argv) == 0 {
		return 1, errors.New("no command given")
	}

	if err := r.engine.Restore(ctx, r.docPath, m); err != nil {
		return 1, err
	}
	// From here on the document holds plaintext; always try to scrub.
	defer func() {
		if err := r.engine.Scrub(context.Background(), r.docPath, m); err != nil {
			r.logger.Error("scrub after run failed, document may hold plaintext secrets: %v", err)
		} else {
			r.logger.Debug("scrubbed %s", r.docPath)
		}
	}()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return 1, err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-signals:
			// Forward and keep waiting; the child decides when to die.
			_ = cmd.Process.Signal(sig)
		case <-ctx.Done():
			_ = cmd.Process.Signal(syscall.SIGTERM)
			err := <-done
			return exitCode(err), ctx.Err()
		case err := <-done:
			return exitCode(err), nil
		}
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
