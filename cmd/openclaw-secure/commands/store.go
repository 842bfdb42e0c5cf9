package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStoreCommand creates the 'store' command.
func NewStoreCommand(opts *Options) *cobra.Command {
	var (
		useDefaults    bool
		includeUnknown bool
		addPaths       []string
		excludePaths   []string
	)

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Move secrets from the config document into the backend",
		Long: `Push every discovered secret to the backend and replace it in the
document with the placeholder. The document is written once, at the end;
a backend failure part way through leaves the file untouched, with some
values already safe in the backend. Re-run store to finish.

Examples:
  openclaw-secure store
  openclaw-secure store --defaults
  openclaw-secure store --backend onepassword --backend-opt vault=OpenClaw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := resolveBackend(ctx, opts)
			if err != nil {
				return err
			}
			m, err := buildSecretMap(opts, useDefaults, false, discoverOptions(opts, includeUnknown, addPaths, excludePaths))
			if err != nil {
				return err
			}

			engine := newEngine(opts, b)
			results, runErr := engine.Store(ctx, opts.ConfigPath, m)

			stored := 0
			for _, r := range results {
				if r.Stored {
					stored++
					opts.Logger.Info("%s → %s", r.ConfigPath, r.KeyName)
				} else {
					opts.Logger.Debug("skipped %s (%s)", r.ConfigPath, r.Reason)
				}
			}
			// Report progress before surfacing any error.
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d keys stored in %s\n", stored, len(m), b.Name())
			return surfaceBackendError(runErr)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the static default secret map instead of discovery")
	cmd.Flags().BoolVar(&includeUnknown, "include-unknown", false, "Also store values that merely look like credentials")
	cmd.Flags().StringArrayVar(&addPaths, "add-path", nil, "Treat this path as a known secret (repeatable)")
	cmd.Flags().StringArrayVar(&excludePaths, "exclude", nil, "Never touch this path or pattern (repeatable)")

	return cmd
}
