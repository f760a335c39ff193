// Package alias persists user-defined version names in aliases.json.
//
// Every mutation reads the whole document, applies one change and writes
// it back through a temporary file and rename.
package alias

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/spec"
	"github.com/frederic-klein/yanm/internal/suggest"
)

// DefaultName is the reserved alias stored in the document's top-level
// "default" field.
const DefaultName = "default"

type document struct {
	Aliases map[string]string `json:"aliases"`
	Default *string           `json:"default"`
}

// Store reads and writes the alias document at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by path. The file need not exist.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the version bound to name.
func (s *Store) Get(name string) (string, bool, error) {
	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.lookup(name)
	return v, ok, nil
}

// Default returns the default alias, if set.
func (s *Store) Default() (string, bool, error) {
	return s.Get(DefaultName)
}

// List returns every alias including "default" when it is set.
func (s *Store) List() (map[string]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(doc.Aliases)+1)
	maps.Copy(out, doc.Aliases)
	if doc.Default != nil {
		out[DefaultName] = *doc.Default
	}
	return out, nil
}

// Names returns the sorted alias names.
func (s *Store) Names() ([]string, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(all)), nil
}

// Set binds name to version. The version must be a literal (exact, major or
// range); keywords and other alias names are rejected so aliases never chain.
func (s *Store) Set(name, version string) error {
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("%w: invalid alias name %q", dist.ErrAlias, name)
	}
	if spec.IsKeyword(version) {
		return fmt.Errorf("%w: alias %q: %q is a keyword, aliases take a version", dist.ErrInvalidVersion, name, version)
	}
	if _, err := spec.ParseLiteral(version); err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}

	doc, err := s.load()
	if err != nil {
		return err
	}
	if name == DefaultName {
		doc.Default = &version
	} else {
		doc.Aliases[name] = version
	}
	return s.save(doc)
}

// SetDefault binds the default alias.
func (s *Store) SetDefault(version string) error {
	return s.Set(DefaultName, version)
}

// Remove deletes name. Removing an unknown alias is an ErrAlias.
func (s *Store) Remove(name string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.lookup(name); !ok {
		names, _ := s.Names()
		return fmt.Errorf("%w: alias %q not found%s", dist.ErrAlias, name, suggest.Hint(name, names))
	}
	if name == DefaultName {
		doc.Default = nil
	} else {
		delete(doc.Aliases, name)
	}
	return s.save(doc)
}

func (d *document) lookup(name string) (string, bool) {
	if name == DefaultName {
		if d.Default == nil {
			return "", false
		}
		return *d.Default, true
	}
	v, ok := d.Aliases[name]
	return v, ok
}

func (s *Store) load() (*document, error) {
	doc := &document{}
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: reading %s: %v", dist.ErrConfig, s.path, err)
	case len(strings.TrimSpace(string(data))) > 0:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", dist.ErrConfig, s.path, err)
		}
	}
	if doc.Aliases == nil {
		doc.Aliases = make(map[string]string)
	}
	return doc, nil
}

func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding aliases: %v", dist.ErrConfig, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", dist.ErrSystem, dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".aliases-*.json")
	if err != nil {
		return fmt.Errorf("%w: writing aliases: %v", dist.ErrSystem, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing aliases: %v", dist.ErrSystem, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing aliases: %v", dist.ErrSystem, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %v", dist.ErrSystem, s.path, err)
	}
	return nil
}
