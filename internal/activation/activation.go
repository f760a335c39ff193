// Package activation owns the "current" pointer: a symlink naming the one
// active installed version.
package activation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/installed"
	"github.com/frederic-klein/yanm/internal/suggest"
)

// State is the pointer's state. An empty Version means Unset.
type State struct {
	Version string
}

// Active reports whether a version is active.
func (s State) Active() bool {
	return s.Version != ""
}

// Result describes a completed switch.
type Result struct {
	Version       string
	AlreadyActive bool
}

// Manager switches and removes installed versions.
type Manager struct {
	link   string
	set    *installed.Set
	logger *slog.Logger
}

// NewManager creates a manager for the pointer at link over set.
func NewManager(link string, set *installed.Set, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{link: link, set: set, logger: logger}
}

// Current reads the pointer. A missing or dangling link is Unset.
func (m *Manager) Current() State {
	v, _ := installed.ReadPointer(m.link)
	return State{Version: v}
}

// Switch makes version active. Switching to the active version changes
// nothing and reports AlreadyActive.
func (m *Manager) Switch(version string) (Result, error) {
	if !m.set.IsInstalled(version) {
		return Result{}, fmt.Errorf("%w: %s%s", dist.ErrVersionNotInstalled, version, m.hint(version))
	}
	if m.Current().Version == version {
		return Result{Version: version, AlreadyActive: true}, nil
	}

	if err := m.replaceLink(m.set.Path(version)); err != nil {
		return Result{}, err
	}
	m.logger.Info("activated", "version", version)
	return Result{Version: version}, nil
}

// replaceLink points the link at target without a window in which the link
// is absent: a temporary symlink is renamed over it.
func (m *Manager) replaceLink(target string) error {
	dir := filepath.Dir(m.link)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", dist.ErrSystem, dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", filepath.Base(m.link), os.Getpid()))
	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return fmt.Errorf("%w: creating link: %v", dist.ErrSystem, err)
	}
	if err := os.Rename(tmp, m.link); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", dist.ErrSystem, m.link, err)
	}
	return nil
}

// Uninstall removes version. The active version cannot be removed; the
// caller must switch away first.
func (m *Manager) Uninstall(version string) error {
	if !m.set.IsInstalled(version) {
		return fmt.Errorf("%w: %s%s", dist.ErrVersionNotInstalled, version, m.hint(version))
	}
	if m.Current().Version == version {
		return fmt.Errorf("%w: %s is the current version; switch to another version first", dist.ErrVersionInUse, version)
	}

	if err := os.RemoveAll(m.set.Path(version)); err != nil {
		return fmt.Errorf("%w: removing %s: %v", dist.ErrSystem, version, err)
	}
	m.logger.Info("uninstalled", "version", version)

	// Clear a pointer that still names the removed version.
	if target, err := os.Readlink(m.link); err == nil && filepath.Base(target) == version {
		if err := os.Remove(m.link); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: clearing %s: %v", dist.ErrSystem, m.link, err)
		}
	}
	return nil
}

func (m *Manager) hint(version string) string {
	if m.set.IsEmpty() {
		return " (no versions installed)"
	}
	return suggest.Hint(version, m.set.Names())
}
