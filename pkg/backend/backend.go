// Package backend defines the capability interface the lifecycle engine
// uses to talk to a secret store, plus the typed failures every
// implementation must surface.
//
// "Key does not exist" is never an error: Get reports it through its
// found return so callers can always tell a missing key from a store
// that could not be asked. Vendor CLI failures that don't match a known
// not-found phrasing are conservatively OperationError, never absent.
package backend

import (
	"context"
	"fmt"
)

// Backend is the narrow capability the lifecycle engine consumes.
// Implementations talk to one secret store (an OS keychain, a vendor
// CLI session, a cloud secrets service).
type Backend interface {
	// Name returns the backend's stable identifier for diagnostics and
	// selection (e.g. "keychain", "onepassword").
	Name() string

	// Available reports whether this backend is usable in the current
	// environment (tool installed, session unlocked, credentials present).
	Available(ctx context.Context) bool

	// Get returns the value stored under key. found is false, with a nil
	// error, when the key is unknown to the store.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set creates or overwrites the value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is a no-op, not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys this backend manages within the tool's
	// namespace.
	List(ctx context.Context) ([]string, error)
}

// UnavailableError means the backend's tool or session is not usable.
// It is surfaced before any lifecycle operation begins, with a
// remediation hint specific to the backend.
type UnavailableError struct {
	Backend string
	Reason  string
	Hint    string
}

func (e UnavailableError) Error() string {
	msg := fmt.Sprintf("backend %s is not available: %s", e.Backend, e.Reason)
	if e.Hint != "" {
		msg += "\n  💡 " + e.Hint
	}
	return msg
}

// OperationError means a backend call failed for a reason other than
// not-found: expired auth, network failure, nonzero vendor CLI exit.
// It aborts the remainder of a batch operation.
type OperationError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e OperationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("backend %s: %s %q failed: %v", e.Backend, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("backend %s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// ValidationError means a required backend option is missing or invalid.
// Raised at backend construction, before any I/O.
type ValidationError struct {
	Backend string
	Option  string
	Reason  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("backend %s: option %q invalid: %s", e.Backend, e.Option, e.Reason)
}
