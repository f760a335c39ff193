// Package spec classifies user-supplied version specifiers.
package spec

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// Kind identifies how a specifier selects a version.
type Kind int

const (
	KindExact Kind = iota
	KindMajor
	KindRange
	KindKeyword
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindMajor:
		return "major"
	case KindRange:
		return "range"
	case KindKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Keyword is a symbolic release selector.
type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordLTS
	KeywordLatest
)

// Spec is the parsed form of a version specifier.
type Spec struct {
	Raw   string // input as given
	Alias string // alias name when Raw was rewritten through an alias

	Kind       Kind
	Version    *semver.Version     // KindExact
	Major      uint64              // KindMajor
	Range      string              // KindRange, constraint source
	Constraint *semver.Constraints // KindRange
	Keyword    Keyword             // KindKeyword
	Codename   string              // KeywordLTS restricted to one release line
}

// String renders the specifier in canonical form.
func (s Spec) String() string {
	switch s.Kind {
	case KindExact:
		return s.Version.String()
	case KindMajor:
		return strconv.FormatUint(s.Major, 10)
	case KindRange:
		return s.Range
	case KindKeyword:
		if s.Keyword == KeywordLatest {
			return "latest"
		}
		if s.Codename != "" {
			return "lts/" + s.Codename
		}
		return "lts/*"
	}
	return s.Raw
}
