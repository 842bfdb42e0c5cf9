// Package secure wraps memguard to hold transient secret values in
// protected memory. Discovered secret values live here between the
// document read and terminal display so plaintext never sits in ordinary
// heap allocations longer than necessary.
package secure

import (
	"errors"
	"strings"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Open after Destroy has been called.
var ErrDestroyed = errors.New("secure: value destroyed")

// Value is a secret string held in an encrypted memguard enclave.
// The plaintext exists only while a caller holds the buffer returned
// by Open, and is wiped when the buffer is destroyed.
type Value struct {
	enclave *memguard.Enclave
	length  int

	mu        sync.RWMutex
	destroyed bool
}

// NewValue copies the given secret into a protected enclave.
// The caller's copy is untouched; callers should drop it promptly.
func NewValue(secret string) *Value {
	return &Value{
		enclave: memguard.NewEnclave([]byte(secret)),
		length:  len(secret),
	}
}

// Len returns the byte length of the secret without decrypting it.
func (v *Value) Len() int {
	return v.length
}

// Open decrypts the value into a locked buffer. The caller MUST call
// Destroy on the returned buffer when done.
func (v *Value) Open() (*memguard.LockedBuffer, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.destroyed {
		return nil, ErrDestroyed
	}
	return v.enclave.Open()
}

// Preview returns a masked rendering for terminal display: the first
// four characters followed by an ellipsis. Short values are fully masked.
func (v *Value) Preview() string {
	buf, err := v.Open()
	if err != nil {
		return "****"
	}
	defer buf.Destroy()

	s := buf.String()
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "…" + strings.Repeat("*", 4)
}

// Destroy marks the value as destroyed and prevents further use.
// Idempotent. The encrypted enclave contents are garbage collected;
// call memguard.Purge() at process exit for full cleanup.
func (v *Value) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.destroyed {
		return
	}
	v.enclave = nil
	v.destroyed = true
}
