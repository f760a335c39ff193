// Package manager wires parsing, resolution, installation and activation
// into the pipelines behind each command.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frederic-klein/yanm/internal/activation"
	"github.com/frederic-klein/yanm/internal/alias"
	"github.com/frederic-klein/yanm/internal/config"
	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/installed"
	"github.com/frederic-klein/yanm/internal/lock"
	"github.com/frederic-klein/yanm/internal/resolver"
	"github.com/frederic-klein/yanm/internal/spec"
)

// Installer places one release on disk and returns its directory.
type Installer interface {
	Install(ctx context.Context, rel dist.Release) (string, error)
}

// Options configure a Manager.
type Options struct {
	Paths     config.Paths
	Catalog   resolver.Catalog
	Installer Installer
	WorkDir   string // start of the project declaration walk
	Logger    *slog.Logger
}

// Manager runs the command pipelines over one root directory.
type Manager struct {
	paths      config.Paths
	catalog    resolver.Catalog
	installer  Installer
	set        *installed.Set
	aliases    *alias.Store
	activation *activation.Manager
	resolver   *resolver.Resolver
	workDir    string
	logger     *slog.Logger
}

// New creates a manager.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	set := installed.NewSet(opts.Paths.VersionsDir, opts.Paths.CurrentLink)
	return &Manager{
		paths:      opts.Paths,
		catalog:    opts.Catalog,
		installer:  opts.Installer,
		set:        set,
		aliases:    alias.NewStore(opts.Paths.AliasFile),
		activation: activation.NewManager(opts.Paths.CurrentLink, set, logger),
		resolver:   resolver.NewResolver(opts.Catalog, set, logger),
		workDir:    opts.WorkDir,
		logger:     logger,
	}
}

// parse classifies raw against the current alias table.
func (m *Manager) parse(raw string) (spec.Spec, error) {
	aliases, err := m.aliases.List()
	if err != nil {
		return spec.Spec{}, err
	}
	return spec.NewParser(aliases).Parse(raw)
}

// resolveInstalled resolves s against the installed set, reporting a miss
// as ErrVersionNotInstalled.
func (m *Manager) resolveInstalled(ctx context.Context, s spec.Spec) (string, error) {
	v, err := m.resolver.Resolve(ctx, s, resolver.Local)
	if errors.Is(err, dist.ErrVersionNotFound) {
		return "", fmt.Errorf("%w: nothing installed matches %q (run: yanm install %s)", dist.ErrVersionNotInstalled, s.Raw, s.Raw)
	}
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// mutate runs fn while holding the root's advisory lock.
func (m *Manager) mutate(fn func() error) error {
	if err := m.paths.EnsureDirs(); err != nil {
		return fmt.Errorf("%w: %v", dist.ErrSystem, err)
	}
	return lock.With(m.paths.LockFile, fn)
}

// Current returns the activation state.
func (m *Manager) Current() activation.State {
	return m.activation.Current()
}
