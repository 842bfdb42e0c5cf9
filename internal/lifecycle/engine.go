// Package lifecycle implements the store/restore/scrub/check/migrate
// operations over a secret map and a backend.
//
// Every operation reads the document fresh, loops over the map entries
// sequentially (vendor CLIs are not safe for concurrent invocation
// against one local session, and sequential order keeps output
// deterministic), and persists the document exactly once at the end.
// Backend writes are NOT transactional with the document write: a
// mid-batch backend failure leaves the backend ahead of the document,
// which is safe (the secret is protected) but means store must be re-run
// to finish scrubbing.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/seomikewaltman/openclaw-secure/internal/classify"
	"github.com/seomikewaltman/openclaw-secure/internal/docpath"
	"github.com/seomikewaltman/openclaw-secure/internal/logging"
	"github.com/seomikewaltman/openclaw-secure/pkg/backend"
)

// Entry pairs a config path with the backend key name its value is
// stored under.
type Entry struct {
	ConfigPath string
	KeyName    string
}

// SecretMap is an ordered sequence of entries, either hand-authored
// (static defaults) or produced by discovery. Built fresh per operation,
// never persisted.
type SecretMap []Entry

// Validate rejects maps with duplicate config paths or colliding key
// names before any backend I/O happens.
func (m SecretMap) Validate() error {
	byPath := make(map[string]struct{}, len(m))
	byName := make(map[string]string, len(m))
	for _, e := range m {
		if _, dup := byPath[e.ConfigPath]; dup {
			return fmt.Errorf("secret map: duplicate config path %q", e.ConfigPath)
		}
		byPath[e.ConfigPath] = struct{}{}
		if prev, dup := byName[e.KeyName]; dup {
			return fmt.Errorf("secret map: key name %q collides: %s and %s", e.KeyName, prev, e.ConfigPath)
		}
		byName[e.KeyName] = e.ConfigPath
	}
	return nil
}

// DocumentStore is the document persistence collaborator.
type DocumentStore interface {
	Read(path string) (map[string]any, error)
	Write(path string, doc map[string]any) error
}

// Engine runs lifecycle operations against one backend and one document.
type Engine struct {
	backend backend.Backend
	docs    DocumentStore
	logger  *logging.Logger
}

// New creates a lifecycle engine.
func New(b backend.Backend, docs DocumentStore, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Engine{backend: b, docs: docs, logger: logger}
}

// StoreResult reports what happened to one entry during Store.
type StoreResult struct {
	ConfigPath string `json:"configPath"`
	KeyName    string `json:"keyName"`
	Stored     bool   `json:"stored"`
	Reason     string `json:"reason,omitempty"`
}

// Store pushes each present string value to the backend under its key
// name and replaces it with the placeholder, then persists the document
// once. On a mid-batch backend failure the results so far are returned
// alongside the error and nothing reaches disk; values already pushed to
// the backend are not rolled back.
func (e *Engine) Store(ctx context.Context, docPath string, m SecretMap) ([]StoreResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	doc, err := e.docs.Read(docPath)
	if err != nil {
		return nil, err
	}

	var results []StoreResult
	var working any = doc
	dirty := false
	for _, entry := range m {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		value, ok := docpath.Get(working, entry.ConfigPath)
		if !ok {
			results = append(results, StoreResult{entry.ConfigPath, entry.KeyName, false, "not found"})
			continue
		}
		str, isString := value.(string)
		if !isString {
			results = append(results, StoreResult{entry.ConfigPath, entry.KeyName, false, "not a string"})
			continue
		}
		if str == classify.Placeholder {
			results = append(results, StoreResult{entry.ConfigPath, entry.KeyName, false, "already stored"})
			continue
		}

		if err := e.backend.Set(ctx, entry.KeyName, str); err != nil {
			return results, err
		}
		working = docpath.Set(working, entry.ConfigPath, classify.Placeholder)
		dirty = true
		results = append(results, StoreResult{entry.ConfigPath, entry.KeyName, true, ""})
		e.logger.Debug("stored %s as %s", entry.ConfigPath, entry.KeyName)
	}

	if dirty {
		if err := e.docs.Write(docPath, working.(map[string]any)); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Restore pulls each entry's value from the backend back into the
// document, overwriting placeholders and stale values alike. Entries the
// backend cannot resolve are left untouched; restore never blanks a
// field. The document is persisted once at the end.
func (e *Engine) Restore(ctx context.Context, docPath string, m SecretMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	doc, err := e.docs.Read(docPath)
	if err != nil {
		return err
	}

	var working any = doc
	dirty := false
	for _, entry := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, found, err := e.backend.Get(ctx, entry.KeyName)
		if err != nil {
			return err
		}
		if !found {
			e.logger.Debug("no backend value for %s, leaving %s untouched", entry.KeyName, entry.ConfigPath)
			continue
		}
		working = docpath.Set(working, entry.ConfigPath, value)
		dirty = true
	}

	if dirty {
		return e.docs.Write(docPath, working.(map[string]any))
	}
	return nil
}

// Scrub replaces every present, non-placeholder value at the mapped
// paths with the placeholder. No backend interaction; idempotent.
func (e *Engine) Scrub(ctx context.Context, docPath string, m SecretMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	doc, err := e.docs.Read(docPath)
	if err != nil {
		return err
	}

	var working any = doc
	dirty := false
	for _, entry := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, ok := docpath.Get(working, entry.ConfigPath)
		if !ok {
			continue
		}
		if str, isString := value.(string); isString && str == classify.Placeholder {
			continue
		}
		working = docpath.Set(working, entry.ConfigPath, classify.Placeholder)
		dirty = true
	}

	if dirty {
		return e.docs.Write(docPath, working.(map[string]any))
	}
	return nil
}

// CheckResult reports whether one key exists in the backend.
type CheckResult struct {
	KeyName    string `json:"keyName"`
	ConfigPath string `json:"configPath"`
	Exists     bool   `json:"exists"`
}

// Check probes the backend for every entry. Read-only; never touches the
// document.
func (e *Engine) Check(ctx context.Context, m SecretMap) ([]CheckResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var results []CheckResult
	for _, entry := range m {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		_, found, err := e.backend.Get(ctx, entry.KeyName)
		if err != nil {
			return results, err
		}
		results = append(results, CheckResult{entry.KeyName, entry.ConfigPath, found})
	}
	return results, nil
}
