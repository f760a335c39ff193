package manager

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/project"
	"github.com/frederic-klein/yanm/internal/resolver"
)

// Source names where the effective version came from.
type Source int

const (
	SourceNone Source = iota
	SourceProject
	SourceCurrent
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceProject:
		return "project"
	case SourceCurrent:
		return "current"
	case SourceDefault:
		return "default alias"
	default:
		return "none"
	}
}

// Effective is the version that applies in a directory.
type Effective struct {
	Source  Source
	Path    string // declaring file; the pointer for SourceCurrent
	Spec    string // declared specifier
	Version string // installed version Spec resolves to, empty if none
	Err     error  // why Spec did not resolve, other than not being installed
}

// Which walks the precedence chain: project declaration, then the active
// version, then the default alias.
func (m *Manager) Which(ctx context.Context) (Effective, error) {
	if d, ok := project.NewLocator(m.workDir).Find(); ok {
		return m.resolveEffective(ctx, Effective{Source: SourceProject, Path: d.Path, Spec: d.Version})
	}
	if cur := m.activation.Current(); cur.Active() {
		return Effective{Source: SourceCurrent, Path: m.paths.CurrentLink, Spec: cur.Version, Version: cur.Version}, nil
	}
	return m.defaultEffective(ctx)
}

// declared is Which without the active version: what a command would use
// if given no specifier.
func (m *Manager) declared() (Effective, error) {
	if d, ok := project.NewLocator(m.workDir).Find(); ok {
		return Effective{Source: SourceProject, Path: d.Path, Spec: d.Version}, nil
	}
	def, ok, err := m.aliases.Default()
	if err != nil || !ok {
		return Effective{}, err
	}
	return Effective{Source: SourceDefault, Path: m.aliases.Path(), Spec: def}, nil
}

func (m *Manager) defaultEffective(ctx context.Context) (Effective, error) {
	def, ok, err := m.aliases.Default()
	if err != nil {
		return Effective{}, err
	}
	if !ok {
		return Effective{Source: SourceNone}, nil
	}
	return m.resolveEffective(ctx, Effective{Source: SourceDefault, Path: m.aliases.Path(), Spec: def})
}

// resolveEffective fills in the installed version eff.Spec selects. A
// declaration that cannot be resolved is reported, not failed: Version stays
// empty and Err says why when the version is not simply missing.
func (m *Manager) resolveEffective(ctx context.Context, eff Effective) (Effective, error) {
	s, err := m.parse(eff.Spec)
	if err == nil {
		var v *semver.Version
		if v, err = m.resolver.Resolve(ctx, s, resolver.Local); err == nil {
			eff.Version = v.String()
			return eff, nil
		}
	}

	switch {
	case errors.Is(err, dist.ErrVersionNotFound):
	case errors.Is(err, dist.ErrInvalidVersion), errors.Is(err, dist.ErrDownload):
		m.logger.Warn("cannot resolve declared version", "spec", eff.Spec, "source", eff.Source.String(), "err", err)
		eff.Err = err
	default:
		return Effective{}, err
	}
	return eff, nil
}
