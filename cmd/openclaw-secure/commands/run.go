package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	ocerrors "github.com/seomikewaltman/openclaw-secure/internal/errors"
	"github.com/seomikewaltman/openclaw-secure/internal/runner"
)

// ExitError carries the dependent process's exit code up to main, which
// exits with it only after protected memory has been wiped.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRunCommand creates the 'run' command.
func NewRunCommand(opts *Options) *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command with secrets restored, scrubbing afterwards",
		Long: `Restore secrets into the config document, run the given command with
inherited stdio, and scrub the document again when it exits, including
after an interrupt. The window during which the document holds plaintext
is exactly the child's lifetime.

Example:
  openclaw-secure run -- openclaw gateway --port 8100`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				return ocerrors.UserError{
					Message:    "No command to run",
					Suggestion: "pass the command after '--', e.g. 'openclaw-secure run -- openclaw gateway'",
				}
			}

			b, err := resolveBackend(ctx, opts)
			if err != nil {
				return err
			}
			m, err := buildSecretMap(opts, useDefaults, true, discoverOptions(opts, false, nil, nil))
			if err != nil {
				return err
			}

			engine := newEngine(opts, b)
			code, runErr := runner.New(engine, opts.Logger, opts.ConfigPath).Run(ctx, m, args)
			if runErr != nil {
				return surfaceBackendError(runErr)
			}
			if code != 0 {
				return ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the static default secret map instead of discovery")
	return cmd
}
