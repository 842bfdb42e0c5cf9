// Package exec provides abstractions for command execution.
// This package enables testable code by allowing vendor CLI behavior to be mocked.
package exec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CommandExecutor defines an interface for executing vendor CLI commands.
// This abstraction allows backend tests to run without the vendor tools installed.
type CommandExecutor interface {
	// Execute runs a command with the given context and arguments.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// ExecuteInput runs a command feeding input on stdin. Used by CLIs
	// that only accept secret values interactively (e.g. 'pass insert').
	ExecuteInput(ctx context.Context, input string, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return r.ExecuteInput(ctx, "", name, args...)
}

// ExecuteInput runs an actual command with the given stdin content.
func (r *RealCommandExecutor) ExecuteInput(ctx context.Context, input string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}
