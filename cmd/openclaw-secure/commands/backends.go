package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
)

// NewBackendsCommand creates the 'backends' command.
func NewBackendsCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List secret store backends and their availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			registry := backends.NewRegistry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tSTATUS")
			for _, name := range registry.SupportedTypes() {
				status := "unavailable"
				if b, err := registry.Create(name, opts.backendOptions); err != nil {
					status = "needs options (" + err.Error() + ")"
				} else if b.Available(ctx) {
					status = "available"
				}
				fmt.Fprintf(w, "%s\t%s\n", name, status)
			}
			return w.Flush()
		},
	}
	return cmd
}
