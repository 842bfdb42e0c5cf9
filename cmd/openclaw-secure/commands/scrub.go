package commands

import (
	"github.com/spf13/cobra"
)

// NewScrubCommand creates the 'scrub' command.
func NewScrubCommand(opts *Options) *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "scrub",
		Short: "Replace secret values in the config document with placeholders",
		Long: `Overwrite every mapped secret field with the placeholder, without
touching the backend. Values that are only in the document and not yet
stored are lost; run 'store' first if in doubt. Scrub is idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := buildSecretMap(opts, useDefaults, true, discoverOptions(opts, false, nil, nil))
			if err != nil {
				return err
			}

			// Scrub needs no backend; wire the engine with a dry-run store.
			engine := newEngine(opts, resolveScrubBackend())
			if err := engine.Scrub(ctx, opts.ConfigPath, m); err != nil {
				return err
			}
			opts.Logger.Info("scrubbed %d mapped path(s) in %s", len(m), opts.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the static default secret map instead of discovery")
	return cmd
}
