package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/seomikewaltman/openclaw-secure/internal/backends"
	"github.com/seomikewaltman/openclaw-secure/internal/discover"
	"github.com/seomikewaltman/openclaw-secure/internal/document"
	ocerrors "github.com/seomikewaltman/openclaw-secure/internal/errors"
	"github.com/seomikewaltman/openclaw-secure/internal/lifecycle"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	"github.com/seomikewaltman/openclaw-secure/internal/prefs"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// Options carries parsed global flags and preferences into each command.
type Options struct {
	ConfigPath     string
	Backend        string
	DryRun         bool
	NonInteractive bool
	Logger         *logging.Logger
	Prefs          prefs.Prefs

	backendOptions map[string]any
}

// SetBackendOptions parses repeated key=value --backend-opt flags.
func (o *Options) SetBackendOptions(kvs []string) {
	o.backendOptions = make(map[string]any, len(kvs))
	for _, kv := range kvs {
		if key, value, ok := strings.Cut(kv, "="); ok {
			o.backendOptions[key] = value
		}
	}
}

// resolveBackend picks the backend for this invocation: memory under
// --dry-run, the named backend when --backend or prefs say so, otherwise
// the first available one in preference order. Named backends are probed
// for availability before any lifecycle operation begins.
func resolveBackend(ctx context.Context, opts *Options) (backend.Backend, error) {
	if opts.DryRun {
		opts.Logger.Warn("dry run: using in-memory backend, nothing leaves this process")
		return backends.NewMemoryBackend(), nil
	}

	registry := backends.NewRegistry()
	name := opts.Backend
	if name == "" {
		name = opts.Prefs.Backend
	}
	if name == "" {
		return registry.Detect(ctx, opts.backendOptions)
	}
	if !registry.IsSupported(name) {
		return nil, ocerrors.ConfigError{
			Field:      "backend",
			Value:      name,
			Message:    "unknown backend",
			Suggestion: "Use one of: " + strings.Join(registry.SupportedTypes(), ", "),
		}
	}

	b, err := registry.Create(name, opts.backendOptions)
	if err != nil {
		return nil, err
	}
	if !b.Available(ctx) {
		return nil, backend.UnavailableError{
			Backend: name,
			Reason:  "the backend did not respond to a probe",
			Hint:    availabilityHint(name),
		}
	}
	return b, nil
}

func availabilityHint(name string) string {
	switch name {
	case "keychain":
		return "ensure an OS keyring is running (Keychain on macOS, Secret Service on Linux)"
	case "onepassword":
		return "run 'op signin' and pass --backend-opt vault=<vault>"
	case "pass":
		return "initialize the store with 'pass init <gpg-key-id>'"
	case "bitwarden":
		return "run 'bw unlock' and export BW_SESSION"
	case "awssm":
		return "configure AWS credentials ('aws configure' or AWS_PROFILE)"
	}
	return ""
}

// surfaceBackendError attaches a backend-specific remediation
// suggestion to operation failures before they reach the user. Other
// errors pass through unchanged.
func surfaceBackendError(err error) error {
	if err == nil {
		return nil
	}
	var opErr backend.OperationError
	if errors.As(err, &opErr) {
		return ocerrors.BackendError(opErr.Backend, opErr.Op, err)
	}
	return err
}

// resolveScrubBackend returns the backend placed in the engine for
// scrub, which never performs backend I/O.
func resolveScrubBackend() backend.Backend {
	return backends.NewMemoryBackend()
}

// newEngine assembles the lifecycle engine over the chosen backend.
func newEngine(opts *Options, b backend.Backend) *lifecycle.Engine {
	docs := &document.Store{Backup: opts.Prefs.BackupEnabled()}
	return lifecycle.New(b, docs, opts.Logger)
}

// discoverOptions merges preference-level paths with per-command flags.
func discoverOptions(opts *Options, includeUnknown bool, addPaths, excludePaths []string) discover.Options {
	return discover.Options{
		IncludeUnknownPatterns: includeUnknown,
		AdditionalPaths:        append(append([]string{}, opts.Prefs.AdditionalPaths...), addPaths...),
		ExcludePaths:           append(append([]string{}, opts.Prefs.ExcludePaths...), excludePaths...),
	}
}

// buildSecretMap produces the secret map for a lifecycle operation:
// the static defaults when useDefaults is set, otherwise a fresh
// discovery pass over the current document. When includePlaceholders is
// set, fields already holding the placeholder are added too: restore
// and scrub must address fields that were externalized earlier, which
// classification deliberately skips.
func buildSecretMap(opts *Options, useDefaults, includePlaceholders bool, dopts discover.Options) (lifecycle.SecretMap, error) {
	if useDefaults {
		return lifecycle.DefaultMap(), nil
	}
	docs := &document.Store{}
	doc, err := docs.Read(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	found, err := discover.Discover(doc, dopts)
	if err != nil {
		return nil, err
	}
	for _, s := range found {
		s.Value.Destroy()
	}
	m := lifecycle.MapFromDiscovered(found)

	if includePlaceholders {
		have := make(map[string]struct{}, len(m))
		for _, e := range m {
			have[e.ConfigPath] = struct{}{}
		}
		for _, p := range discover.PlaceholderPaths(doc) {
			if _, dup := have[p]; dup {
				continue
			}
			m = append(m, lifecycle.Entry{ConfigPath: p, KeyName: discover.DeriveKeyName(p)})
		}
	}
	return m, nil
}
