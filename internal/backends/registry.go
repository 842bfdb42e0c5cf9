// Package backends implements the secret-store backends: the OS
// keychain, vendor CLI tools (1Password, pass, Bitwarden), AWS Secrets
// Manager, and an in-memory store for tests and dry runs.
package backends

import (
	"context"
	"fmt"
	"sort"

	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// Factory creates a backend instance from its options.
type Factory func(options map[string]any) (backend.Backend, error)

// Registry manages backend creation and selection.
type Registry struct {
	factories map[string]Factory
}

// detectOrder is the preference order for automatic backend selection.
var detectOrder = []string{"keychain", "onepassword", "pass", "bitwarden"}

// NewRegistry creates a registry with all built-in backends.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("keychain", func(o map[string]any) (backend.Backend, error) { return NewKeychainBackend(o) })
	r.Register("onepassword", func(o map[string]any) (backend.Backend, error) { return NewOnePasswordBackend(o) })
	r.Register("pass", func(o map[string]any) (backend.Backend, error) { return NewPassBackend(o) })
	r.Register("bitwarden", func(o map[string]any) (backend.Backend, error) { return NewBitwardenBackend(o) })
	r.Register("awssm", func(o map[string]any) (backend.Backend, error) { return NewAWSBackend(o) })
	r.Register("memory", func(o map[string]any) (backend.Backend, error) { return NewMemoryBackend(), nil })
	return r
}

// Register adds a factory under the given backend name.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Create instantiates the named backend.
func (r *Registry) Create(name string, options map[string]any) (backend.Backend, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (supported: %v)", name, r.SupportedTypes())
	}
	return factory(options)
}

// SupportedTypes returns the registered backend names, sorted.
func (r *Registry) SupportedTypes() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSupported reports whether a backend name is registered.
func (r *Registry) IsSupported(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Detect returns the first available backend in preference order.
// Backends that need required options (onepassword) are probed with
// empty options and skipped when construction fails.
func (r *Registry) Detect(ctx context.Context, options map[string]any) (backend.Backend, error) {
	for _, name := range detectOrder {
		b, err := r.Create(name, options)
		if err != nil {
			continue
		}
		if b.Available(ctx) {
			return b, nil
		}
	}
	return nil, backend.UnavailableError{
		Backend: "auto",
		Reason:  "no usable secret store found",
		Hint:    "install one of: OS keychain support, 1Password CLI, pass, Bitwarden CLI, or select one with --backend",
	}
}
