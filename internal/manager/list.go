package manager

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/project"
)

// ListInstalled returns installed versions, newest first.
func (m *Manager) ListInstalled() ([]dist.Installed, error) {
	return m.set.List()
}

// RemoteList is the catalog annotated with local state.
type RemoteList struct {
	Releases  []dist.Release
	Installed map[string]bool
	Current   string
}

// ListRemote fetches the catalog while scanning the installed set. With
// ltsOnly, releases without an LTS line are dropped.
func (m *Manager) ListRemote(ctx context.Context, ltsOnly bool) (RemoteList, error) {
	var releases []dist.Release
	var local []dist.Installed

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		releases, err = m.catalog.Fetch(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		local, err = m.set.List()
		return err
	})
	if err := g.Wait(); err != nil {
		return RemoteList{}, err
	}

	out := RemoteList{Installed: make(map[string]bool, len(local))}
	for _, iv := range local {
		out.Installed[iv.Version.String()] = true
		if iv.Current {
			out.Current = iv.Version.String()
		}
	}
	for _, rel := range releases {
		if ltsOnly && !rel.LTS {
			continue
		}
		out.Releases = append(out.Releases, rel)
	}
	return out, nil
}

// Aliases returns every alias including "default".
func (m *Manager) Aliases() (map[string]string, error) {
	return m.aliases.List()
}

// SetAlias binds name to a literal version.
func (m *Manager) SetAlias(name, version string) error {
	return m.mutate(func() error {
		return m.aliases.Set(name, version)
	})
}

// RemoveAlias deletes name.
func (m *Manager) RemoveAlias(name string) error {
	return m.mutate(func() error {
		return m.aliases.Remove(name)
	})
}

// Local writes raw to the override file in the working directory. Alias
// names are written as the version they stand for.
func (m *Manager) Local(raw string) (path, version string, err error) {
	s, err := m.parse(raw)
	if err != nil {
		return "", "", err
	}
	version = project.Clean(raw)
	if s.Alias != "" {
		if version, _, err = m.aliases.Get(s.Alias); err != nil {
			return "", "", err
		}
	}

	if path, err = project.WriteOverride(m.workDir, version); err != nil {
		return "", "", err
	}
	return path, version, nil
}
