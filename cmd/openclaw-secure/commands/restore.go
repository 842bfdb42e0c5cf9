package commands

import (
	"github.com/spf13/cobra"
)

// NewRestoreCommand creates the 'restore' command.
func NewRestoreCommand(opts *Options) *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Pull secrets from the backend back into the config document",
		Long: `Replace placeholders (and stale values) in the document with the
values held by the backend. Fields the backend knows nothing about are
left exactly as they are; restore never blanks a field.

Run 'scrub' when the dependent process no longer needs the plaintext.`,
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

			if err := newEngine(opts, b).Restore(ctx, opts.ConfigPath, m); err != nil {
				return surfaceBackendError(err)
			}
			opts.Logger.Info("restored %d mapped secret(s) into %s", len(m), opts.ConfigPath)
			opts.Logger.Warn("the document now holds plaintext secrets; scrub when done")
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Use the static default secret map instead of discovery")
	return cmd
}
