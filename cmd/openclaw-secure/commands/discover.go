package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seomikewaltman/openclaw-secure/internal/discover"
	"github.com/seomikewaltman/openclaw-secure/internal/document"
)

// NewDiscoverCommand creates the 'discover' command.
func NewDiscoverCommand(opts *Options) *cobra.Command {
	var (
		includeUnknown bool
		addPaths       []string
		excludePaths   []string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find secret-shaped values in the config document",
		Long: `Walk the config document and report every field that looks like a
secret, with the backend key name it would be stored under and why it
matched. Nothing is written anywhere.

Examples:
  openclaw-secure discover
  openclaw-secure discover --include-unknown
  openclaw-secure discover --exclude 'channels.dev.*' --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := &document.Store{}
			doc, err := docs.Read(opts.ConfigPath)
			if err != nil {
				return err
			}

			found, err := discover.Discover(doc, discoverOptions(opts, includeUnknown, addPaths, excludePaths))
			if err != nil {
				return err
			}
			defer func() {
				for _, s := range found {
					s.Value.Destroy()
				}
			}()

			if jsonOutput {
				type row struct {
					ConfigPath string `json:"configPath"`
					KeyName    string `json:"keyName"`
					MatchType  string `json:"matchType"`
				}
				rows := make([]row, 0, len(found))
				for _, s := range found {
					rows = append(rows, row{s.ConfigPath, s.KeyName, string(s.MatchType)})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			if len(found) == 0 {
				opts.Logger.Info("no secrets found in %s", opts.ConfigPath)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tKEY NAME\tMATCH\tVALUE")
			for _, s := range found {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ConfigPath, s.KeyName, s.MatchType, s.Value.Preview())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			opts.Logger.Info("%d secret(s) found in %s", len(found), opts.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeUnknown, "include-unknown", false, "Also flag values that merely look like credentials")
	cmd.Flags().StringArrayVar(&addPaths, "add-path", nil, "Treat this path as a known secret (repeatable)")
	cmd.Flags().StringArrayVar(&excludePaths, "exclude", nil, "Never report this path or pattern (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")

	return cmd
}
