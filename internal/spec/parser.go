package spec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/dist"
)

var (
	majorRe      = regexp.MustCompile(`^\d+$`)
	comparatorRe = regexp.MustCompile(`[<>^~=]`)
	vPrefixRe    = regexp.MustCompile(`^[vV](\d)`)
)

// Parser classifies specifiers against a snapshot of the alias table.
// It performs no disk or network access.
type Parser struct {
	aliases map[string]string
}

// NewParser creates a parser. aliases maps alias names to literal versions
// and may be nil.
func NewParser(aliases map[string]string) *Parser {
	return &Parser{aliases: aliases}
}

// Parse classifies raw. An alias of the same name always shadows keywords
// and bare specifiers; its value is then classified as a literal version.
func (p *Parser) Parse(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, fmt.Errorf("%w: empty version", dist.ErrInvalidVersion)
	}

	if target, ok := p.aliases[raw]; ok {
		s, err := ParseLiteral(target)
		if err != nil {
			return Spec{}, fmt.Errorf("alias %q: %w", raw, err)
		}
		s.Raw = raw
		s.Alias = raw
		return s, nil
	}

	if s, ok := parseKeyword(raw); ok {
		return s, nil
	}

	return ParseLiteral(raw)
}

// ParseLiteral classifies raw as an exact version, a major version or a
// range. Keywords and alias names are rejected.
func ParseLiteral(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	s := Spec{Raw: raw}
	v := vPrefixRe.ReplaceAllString(raw, "$1")

	switch {
	case v == "":
		return Spec{}, fmt.Errorf("%w: empty version", dist.ErrInvalidVersion)

	case strings.Contains(v, ".") || comparatorRe.MatchString(v):
		if exact, err := semver.StrictNewVersion(v); err == nil {
			s.Kind = KindExact
			s.Version = exact
			return s, nil
		}
		c, err := semver.NewConstraint(v)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q is not a valid version range", dist.ErrInvalidVersion, raw)
		}
		s.Kind = KindRange
		s.Range = v
		s.Constraint = c
		return s, nil

	case majorRe.MatchString(v):
		major, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", dist.ErrInvalidVersion, raw)
		}
		s.Kind = KindMajor
		s.Major = major
		return s, nil
	}

	return Spec{}, fmt.Errorf("%w: %q (use a version like 20, 20.9.0, ^18.2.0, lts or latest)", dist.ErrInvalidVersion, raw)
}

func parseKeyword(raw string) (Spec, bool) {
	lower := strings.ToLower(raw)
	switch lower {
	case "lts", "lts/*":
		return Spec{Raw: raw, Kind: KindKeyword, Keyword: KeywordLTS}, true
	case "latest", "node":
		return Spec{Raw: raw, Kind: KindKeyword, Keyword: KeywordLatest}, true
	}
	if codename, ok := strings.CutPrefix(lower, "lts/"); ok && codename != "" {
		return Spec{Raw: raw, Kind: KindKeyword, Keyword: KeywordLTS, Codename: codename}, true
	}
	return Spec{}, false
}

// IsKeyword reports whether raw would classify as a keyword when no alias
// shadows it.
func IsKeyword(raw string) bool {
	_, ok := parseKeyword(strings.TrimSpace(raw))
	return ok
}
