package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seomikewaltman/openclaw-secure/internal/systemd"
)

// NewInstallServiceCommand creates the 'install-service' command.
func NewInstallServiceCommand(opts *Options) *cobra.Command {
	var (
		service string
		unitDir string
		remove  bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "install-service",
		Short: "Patch a systemd service to scrub the config before start",
		Long: `Install a managed drop-in for the given systemd service so the
config document is scrubbed before the service starts at boot. The
drop-in is refreshed only when its content changed; systemd is reloaded
when it was.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bin, err := os.Executable()
			if err != nil {
				return err
			}

			mgr, err := systemd.NewManager(unitDir, bin, opts.Logger, dryRun || opts.DryRun)
			if err != nil {
				return err
			}

			if remove {
				return mgr.Remove(cmd.Context(), service)
			}
			changed, err := mgr.Install(cmd.Context(), service, opts.ConfigPath)
			if err != nil {
				return err
			}
			if !changed {
				opts.Logger.Info("service %s already up to date", service)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "openclaw", "systemd service name to patch")
	cmd.Flags().StringVar(&unitDir, "unit-dir", "", "systemd unit directory (default /etc/systemd/system)")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the managed drop-in instead of installing it")
	cmd.Flags().BoolVar(&dryRun, "check-only", false, "Report what would change without writing")

	return cmd
}
