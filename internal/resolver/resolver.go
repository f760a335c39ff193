package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/spec"
	"github.com/frederic-klein/yanm/internal/suggest"
)

// Scope selects the set of versions a spec is resolved against.
type Scope int

const (
	// Remote resolves against the release catalog.
	Remote Scope = iota
	// Local resolves against the installed versions.
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "installed"
	}
	return "remote"
}

// Catalog provides the remote release list.
type Catalog interface {
	Fetch(ctx context.Context) ([]dist.Release, error)
}

// InstalledSet provides the versions present on disk.
type InstalledSet interface {
	List() ([]dist.Installed, error)
}

// Candidate is one version a spec may select.
type Candidate struct {
	Version  *semver.Version
	LTS      bool
	Codename string
}

// Resolver turns a parsed spec into one concrete version.
type Resolver struct {
	catalog   Catalog
	installed InstalledSet
	logger    *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(catalog Catalog, installed InstalledSet, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{catalog: catalog, installed: installed, logger: logger}
}

// Resolve returns the version s selects in scope. Remote resolution fetches
// the catalog on every call; local resolution rescans the installed set.
func (r *Resolver) Resolve(ctx context.Context, s spec.Spec, scope Scope) (*semver.Version, error) {
	if scope == Remote {
		rel, err := r.ResolveRelease(ctx, s)
		if err != nil {
			return nil, err
		}
		return rel.Version, nil
	}

	installed, err := r.installed.List()
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, len(installed))
	for i, iv := range installed {
		candidates[i] = Candidate{Version: iv.Version}
	}

	// LTS status is only known remotely.
	if s.Kind == spec.KindKeyword && s.Keyword == spec.KeywordLTS && len(candidates) > 0 {
		releases, err := r.catalog.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		lts := make(map[string]dist.Release, len(releases))
		for _, rel := range releases {
			if rel.LTS {
				lts[rel.Version.String()] = rel
			}
		}
		for i := range candidates {
			if rel, ok := lts[candidates[i].Version.String()]; ok {
				candidates[i].LTS = true
				candidates[i].Codename = rel.Codename
			}
		}
	}

	v, err := Select(s, candidates, Local)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolved", "spec", s.Raw, "scope", scope.String(), "version", v.String())
	return v, nil
}

// ResolveRelease resolves s against the remote catalog and returns the full
// catalog entry.
func (r *Resolver) ResolveRelease(ctx context.Context, s spec.Spec) (dist.Release, error) {
	releases, err := r.catalog.Fetch(ctx)
	if err != nil {
		return dist.Release{}, err
	}
	candidates := make([]Candidate, len(releases))
	for i, rel := range releases {
		candidates[i] = Candidate{Version: rel.Version, LTS: rel.LTS, Codename: rel.Codename}
	}

	v, err := Select(s, candidates, Remote)
	if err != nil {
		return dist.Release{}, err
	}
	r.logger.Debug("resolved", "spec", s.Raw, "scope", Remote.String(), "version", v.String())
	for _, rel := range releases {
		if rel.Version.Equal(v) {
			return rel, nil
		}
	}
	return dist.Release{}, fmt.Errorf("%w: %s", dist.ErrVersionNotFound, v)
}

// Select picks the version s denotes among candidates. It is a pure
// function of its inputs; the candidate order does not matter.
func Select(s spec.Spec, candidates []Candidate, scope Scope) (*semver.Version, error) {
	var match func(Candidate) bool

	switch s.Kind {
	case spec.KindExact:
		for _, c := range candidates {
			if c.Version.Equal(s.Version) {
				return c.Version, nil
			}
		}
		if scope == Remote {
			return nil, notFound(s, scope, candidates)
		}
		prefix := s.Version.String()
		match = func(c Candidate) bool { return hasVersionPrefix(c.Version.String(), prefix) }

	case spec.KindMajor:
		match = func(c Candidate) bool { return c.Version.Major() == s.Major }

	case spec.KindRange:
		match = func(c Candidate) bool { return s.Constraint.Check(c.Version) }

	case spec.KindKeyword:
		if s.Keyword == spec.KeywordLatest {
			match = func(Candidate) bool { return true }
			break
		}
		match = func(c Candidate) bool {
			return c.LTS && (s.Codename == "" || strings.EqualFold(c.Codename, s.Codename))
		}

	default:
		return nil, fmt.Errorf("%w: %q", dist.ErrInvalidVersion, s.Raw)
	}

	var best *semver.Version
	for _, c := range candidates {
		if match(c) && (best == nil || c.Version.GreaterThan(best)) {
			best = c.Version
		}
	}
	if best == nil {
		return nil, notFound(s, scope, candidates)
	}
	return best, nil
}

// hasVersionPrefix reports whether v extends prefix at a component
// boundary, so 18.2.1 does not match 18.2.10.
func hasVersionPrefix(v, prefix string) bool {
	rest, ok := strings.CutPrefix(v, prefix)
	if !ok {
		return false
	}
	return rest == "" || rest[0] < '0' || rest[0] > '9'
}

func notFound(s spec.Spec, scope Scope, candidates []Candidate) error {
	hint := ""
	if scope == Local {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Version.String()
		}
		hint = suggest.Hint(s.String(), names)
	}
	return fmt.Errorf("%w: no %s version matches %q%s", dist.ErrVersionNotFound, scope, s.Raw, hint)
}
