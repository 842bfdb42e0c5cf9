package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/seomikewaltman/openclaw-secure/cmd/openclaw-secure/commands"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	"github.com/seomikewaltman/openclaw-secure/internal/prefs"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe any remaining protected buffers on the way out.
	defer memguard.Purge()

	if err := run(); err != nil {
		memguard.Purge()
		// A child process exit code is not an error of ours; propagate
		// it silently, after protected memory is wiped.
		var exitErr commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		backendName    string
		prefsFile      string
		noColor        bool
		debug          bool
		nonInteractive bool
		dryRun         bool
		backendOpts    []string
	)

	opts := &commands.Options{}

	rootCmd := &cobra.Command{
		Use:   "openclaw-secure",
		Short: "Keep plaintext secrets out of your OpenClaw config",
		Long: `openclaw-secure moves API keys and tokens between your OpenClaw
configuration document and a secret store (OS keychain, 1Password, pass,
Bitwarden, AWS Secrets Manager), so the file on disk never holds plaintext
secrets while the assistant runs.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)

			if prefsFile == "" {
				prefsFile = prefs.DefaultPath()
			}
			opts.ConfigPath = configFile
			opts.Backend = backendName
			opts.DryRun = dryRun
			opts.NonInteractive = nonInteractive
			opts.Logger = logger
			opts.Prefs = prefs.Load(prefsFile, logger)
			opts.SetBackendOptions(backendOpts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "openclaw.json", "Config document path")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Secret store backend (default: prefs, else auto-detect)")
	rootCmd.PersistentFlags().StringArrayVar(&backendOpts, "backend-opt", nil, "Backend option as key=value (repeatable)")
	rootCmd.PersistentFlags().StringVar(&prefsFile, "prefs", "", "Preferences file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Use an in-memory backend; no external effects")

	rootCmd.AddCommand(
		commands.NewDiscoverCommand(opts),
		commands.NewStoreCommand(opts),
		commands.NewRestoreCommand(opts),
		commands.NewScrubCommand(opts),
		commands.NewCheckCommand(opts),
		commands.NewMigrateCommand(opts),
		commands.NewRunCommand(opts),
		commands.NewBackendsCommand(opts),
		commands.NewInstallServiceCommand(opts),
	)

	return rootCmd.Execute()
}
