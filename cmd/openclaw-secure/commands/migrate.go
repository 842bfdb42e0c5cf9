package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seomikewaltman/openclaw-secure/internal/lifecycle"
)

// NewMigrateCommand creates the 'migrate' command.
func NewMigrateCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rename backend keys from legacy names to derived names",
		Long: `Earlier releases used hand-picked backend key names. This renames
each legacy key to the name now derived from its config path. Safe to
run repeatedly; keys already migrated are reported and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := resolveBackend(ctx, opts)
			if err != nil {
				return err
			}

			results, runErr := newEngine(opts, b).Migrate(ctx, lifecycle.DefaultLegacyNames)

			migrated := 0
			for _, r := range results {
				if r.Migrated {
					migrated++
					if r.Reason != "" {
						opts.Logger.Info("%s → %s (%s)", r.OldName, r.NewName, r.Reason)
					} else {
						opts.Logger.Info("%s → %s", r.OldName, r.NewName)
					}
				} else {
					opts.Logger.Debug("skipped %s (%s)", r.OldName, r.Reason)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d legacy keys migrated in %s\n", migrated, len(results), b.Name())
			return surfaceBackendError(runErr)
		},
	}
	return cmd
}
