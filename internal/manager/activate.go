package manager

import (
	"context"
	"fmt"

	"github.com/frederic-klein/yanm/internal/dist"
)

// UseResult reports the outcome of Use.
type UseResult struct {
	Version       string
	Spec          string
	AlreadyActive bool
	Default       bool
}

// Use activates the installed version raw selects. An empty raw is
// inferred from the project declaration or the default alias.
func (m *Manager) Use(ctx context.Context, raw string, makeDefault bool) (UseResult, error) {
	var res UseResult
	err := m.mutate(func() error {
		if raw == "" {
			inferred, err := m.infer()
			if err != nil {
				return err
			}
			raw = inferred
		}
		res.Spec = raw

		s, err := m.parse(raw)
		if err != nil {
			return err
		}
		version, err := m.resolveInstalled(ctx, s)
		if err != nil {
			return err
		}

		sw, err := m.activation.Switch(version)
		if err != nil {
			return err
		}
		res.Version = sw.Version
		res.AlreadyActive = sw.AlreadyActive

		if makeDefault {
			if err := m.aliases.SetDefault(version); err != nil {
				return err
			}
			res.Default = true
		}
		return nil
	})
	return res, err
}

// Uninstall removes the installed version raw selects. The active version
// is refused.
func (m *Manager) Uninstall(ctx context.Context, raw string) (string, error) {
	var version string
	err := m.mutate(func() error {
		s, err := m.parse(raw)
		if err != nil {
			return err
		}
		if version, err = m.resolveInstalled(ctx, s); err != nil {
			return err
		}
		if err := m.activation.Uninstall(version); err != nil {
			return err
		}

		if def, ok, err := m.aliases.Default(); err == nil && ok && def == version {
			m.logger.Warn("default alias now points to an uninstalled version", "version", version)
		}
		return nil
	})
	return version, err
}

// infer returns the specifier to use when a command got none: the project
// declaration, then the default alias.
func (m *Manager) infer() (string, error) {
	eff, err := m.declared()
	if err != nil {
		return "", err
	}
	switch eff.Source {
	case SourceProject, SourceDefault:
		m.logger.Info("inferred version", "spec", eff.Spec, "source", eff.Source.String())
		return eff.Spec, nil
	}
	return "", fmt.Errorf("%w: no version given and none declared by a project file or the default alias", dist.ErrInvalidVersion)
}
