package manager

import (
	"context"
	"fmt"
	"strconv"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/spec"
)

// InstallResult reports the outcome of Install.
type InstallResult struct {
	Version          string
	Spec             string // specifier that was resolved, after inference
	AlreadyInstalled bool
	Activated        bool
	Default          bool
}

// Install resolves raw against the catalog and installs the release if it
// is not present. An empty raw is inferred from the project declaration or
// the default alias. With makeDefault the version also becomes the default
// alias and is activated.
func (m *Manager) Install(ctx context.Context, raw string, makeDefault bool) (InstallResult, error) {
	var res InstallResult
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
		rel, err := m.resolver.ResolveRelease(ctx, s)
		if err != nil {
			return err
		}
		res.Version = rel.Version.String()

		if res.AlreadyInstalled, err = m.ensureInstalled(ctx, rel); err != nil {
			return err
		}

		if makeDefault {
			if err := m.aliases.SetDefault(res.Version); err != nil {
				return err
			}
			res.Default = true
			sw, err := m.activation.Switch(res.Version)
			if err != nil {
				return err
			}
			res.Activated = !sw.AlreadyActive
		}
		return nil
	})
	return res, err
}

// ensureInstalled installs rel unless it is present and reports whether it
// already was.
func (m *Manager) ensureInstalled(ctx context.Context, rel dist.Release) (bool, error) {
	version := rel.Version.String()
	if m.set.IsInstalled(version) {
		m.logger.Info("already installed", "version", version)
		return true, nil
	}
	m.logger.Info("installing", "version", version)
	if _, err := m.installer.Install(ctx, rel); err != nil {
		return false, err
	}
	return false, nil
}

// UpgradeResult reports the outcome of Upgrade.
type UpgradeResult struct {
	From          string
	To            string
	AlreadyLatest bool
}

// Upgrade installs and activates the newest release matching raw. Without
// raw it targets the active version's major line.
func (m *Manager) Upgrade(ctx context.Context, raw string) (UpgradeResult, error) {
	var res UpgradeResult
	err := m.mutate(func() error {
		res.From = m.activation.Current().Version

		var s spec.Spec
		var err error
		if raw == "" {
			if res.From == "" {
				return fmt.Errorf("%w: no active version to upgrade", dist.ErrVersionNotInstalled)
			}
			cur, err := spec.ParseLiteral(res.From)
			if err != nil {
				return err
			}
			s, err = spec.ParseLiteral(strconv.FormatUint(cur.Version.Major(), 10))
			if err != nil {
				return err
			}
		} else if s, err = m.parse(raw); err != nil {
			return err
		}

		rel, err := m.resolver.ResolveRelease(ctx, s)
		if err != nil {
			return err
		}
		res.To = rel.Version.String()
		if res.To == res.From {
			res.AlreadyLatest = true
			return nil
		}

		if _, err := m.ensureInstalled(ctx, rel); err != nil {
			return err
		}
		_, err = m.activation.Switch(res.To)
		return err
	})
	return res, err
}
