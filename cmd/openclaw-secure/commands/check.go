package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ocerrors "github.com/seomikewaltman/openclaw-secure/internal/errors"
)

// NewCheckCommand creates the 'check' command.
func NewCheckCommand(opts *Options) *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that every mapped secret exists in the backend",
		Long: `Probe the backend for each mapped key without touching the config
document. Exits nonzero when any key is missing, which makes check
usable as a pre-start health gate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := resolveBackend(ctx, opts)
			if err != nil {
				return err
			}
			m, err := buildSecretMap(opts, useDefaults, true, discoverOptions(opts, false, nil, nil))
			if err != nil {
				return err
			}

			results, err := newEngine(opts, b).Check(ctx, m)
			if err != nil {
				return surfaceBackendError(err)
			}

			missing := 0
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY NAME\tPATH\tSTATUS")
			for _, r := range results {
				status := "ok"
				if !r.Exists {
					status = "MISSING"
					missing++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.KeyName, r.ConfigPath, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if missing > 0 {
				return ocerrors.UserError{
					Message:    fmt.Sprintf("%d of %d keys missing from backend %s", missing, len(results), b.Name()),
					Suggestion: "run 'openclaw-secure store' to push the current document values",
				}
			}
			opts.Logger.Info("all %d keys present in %s", len(results), b.Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the static default secret map instead of discovery")
	return cmd
}
