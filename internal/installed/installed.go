package installed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/dist"
)

const downloadsDir = "downloads"

// Set is the live view of version directories under the versions root.
// Every query rescans the disk.
type Set struct {
	versionsDir string
	currentLink string
}

// NewSet creates a view over versionsDir; currentLink is the activation
// pointer used to flag the active version.
func NewSet(versionsDir, currentLink string) *Set {
	return &Set{versionsDir: versionsDir, currentLink: currentLink}
}

// Reserved reports whether a directory name can never be a version.
func Reserved(name string) bool {
	return name == downloadsDir || strings.HasPrefix(name, ".")
}

// List returns installed versions sorted newest first. Directory names that
// are not strict MAJOR.MINOR.PATCH versions are excluded.
func (s *Set) List() ([]dist.Installed, error) {
	entries, err := os.ReadDir(s.versionsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading versions directory: %v", dist.ErrSystem, err)
	}

	current, _ := ReadPointer(s.currentLink)
	var versions []dist.Installed
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || Reserved(name) {
			continue
		}
		v, err := semver.StrictNewVersion(name)
		if err != nil {
			continue
		}
		versions = append(versions, dist.Installed{
			Version: v,
			Path:    filepath.Join(s.versionsDir, name),
			Current: name == current,
		})
	}

	dist.SortInstalled(versions)
	return versions, nil
}

// Names returns the canonical version strings of List, newest first.
func (s *Set) Names() []string {
	versions, err := s.List()
	if err != nil {
		return nil
	}
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.Version.String()
	}
	return names
}

// IsInstalled reports whether version has a valid directory on disk.
func (s *Set) IsInstalled(version string) bool {
	if Reserved(version) || version == "" {
		return false
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return false
	}
	info, err := os.Stat(s.Path(version))
	return err == nil && info.IsDir()
}

// IsEmpty reports whether no version is installed.
func (s *Set) IsEmpty() bool {
	versions, err := s.List()
	return err != nil || len(versions) == 0
}

// Path returns the directory a version is (or would be) installed in.
func (s *Set) Path(version string) string {
	return filepath.Join(s.versionsDir, version)
}

// ReadPointer returns the version name the activation pointer at link
// references. A missing or dangling pointer reports false.
func ReadPointer(link string) (string, bool) {
	target, err := os.Readlink(link)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return filepath.Base(filepath.Clean(target)), true
}
