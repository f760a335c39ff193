// Package project finds the Node.js version a project directory declares.
package project

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frederic-klein/yanm/internal/dist"
)

const (
	// OverrideFile holds a single literal version for a directory tree.
	OverrideFile = ".nvmrc"
	// ManifestFile is the package manifest read for engines.node and volta.node.
	ManifestFile = "package.json"
)

// Declaration is a version declared by a project file.
type Declaration struct {
	Path    string // file the version came from
	Version string // cleaned raw specifier
}

type manifest struct {
	Engines struct {
		Node json.RawMessage `json:"node"`
	} `json:"engines"`
	Volta struct {
		Node json.RawMessage `json:"node"`
	} `json:"volta"`
}

// Locator walks from a start directory towards the filesystem root.
type Locator struct {
	start string
}

// NewLocator creates a locator starting at dir.
func NewLocator(dir string) *Locator {
	return &Locator{start: dir}
}

// Find returns the declaration of the closest directory that has one. In
// each directory the override file wins over engines.node, which wins over
// volta.node. Unreadable or malformed files declare nothing.
func (l *Locator) Find() (Declaration, bool) {
	dir, err := filepath.Abs(l.start)
	if err != nil {
		return Declaration{}, false
	}

	for {
		if d, ok := readOverride(filepath.Join(dir, OverrideFile)); ok {
			return d, true
		}
		if d, ok := readManifest(filepath.Join(dir, ManifestFile)); ok {
			return d, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Declaration{}, false
		}
		dir = parent
	}
}

func readOverride(path string) (Declaration, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Declaration{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if v := Clean(line); v != "" {
			return Declaration{Path: path, Version: v}, true
		}
		break
	}
	return Declaration{}, false
}

func readManifest(path string) (Declaration, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Declaration{}, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Declaration{}, false
	}
	for _, field := range []json.RawMessage{m.Engines.Node, m.Volta.Node} {
		var s string
		if len(field) == 0 || json.Unmarshal(field, &s) != nil {
			continue
		}
		if v := Clean(s); v != "" {
			return Declaration{Path: path, Version: v}, true
		}
	}
	return Declaration{}, false
}

// Clean normalizes a declared version: surrounding whitespace and quotes are
// removed, as is a "v" directly before a digit.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}
	return s
}

// WriteOverride writes version to the override file in dir and returns its path.
func WriteOverride(dir, version string) (string, error) {
	path := filepath.Join(dir, OverrideFile)
	if err := os.WriteFile(path, []byte(version+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", dist.ErrSystem, path, err)
	}
	return path, nil
}
