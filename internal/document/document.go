// Package document reads and writes the configuration document. JSON and
// YAML are supported, chosen by file extension. Writes are atomic (temp
// file plus rename), preserve the original file mode, and can snapshot
// the prior content first.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotFoundError means the document file does not exist.
type NotFoundError struct {
	Path string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("config document not found: %s", e.Path)
}

// ParseError means the document file is not valid structured data.
type ParseError struct {
	Path string
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("config document %s is not valid: %v", e.Path, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// Store reads and writes config documents on the local filesystem.
type Store struct {
	// Backup controls whether Write snapshots the prior content to
	// <path>.bak before overwriting.
	Backup bool
}

// defaultMode is used for documents that do not exist yet. Secrets may
// transit through the file, so keep it owner-only.
const defaultMode fs.FileMode = 0o600

// Read loads and parses the document at path.
func (s *Store) Read(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading config document %s: %w", path, err)
	}

	var doc map[string]any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, ParseError{Path: path, Err: err}
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, ParseError{Path: path, Err: err}
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Write atomically replaces the document at path, preserving its
// pre-existing mode. A reader never observes a half-written document.
func (s *Store) Write(path string, doc map[string]any) error {
	data, err := marshal(path, doc)
	if err != nil {
		return fmt.Errorf("encoding config document: %w", err)
	}

	mode := defaultMode
	prior, statErr := os.Stat(path)
	if statErr == nil {
		mode = prior.Mode().Perm()
	}

	if s.Backup && statErr == nil {
		old, err := os.ReadFile(path)
		if err == nil {
			_ = os.WriteFile(path+".bak", old, mode)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func marshal(path string, doc map[string]any) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(doc)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
