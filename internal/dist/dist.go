package dist

import (
	"slices"

	"github.com/Masterminds/semver/v3"
)

// Release represents a Node.js release from the upstream index.json.
type Release struct {
	Version  *semver.Version
	LTS      bool
	Codename string   // LTS line name, e.g. "Iron"; empty for non-LTS
	Date     string   // e.g. "2023-10-24"
	Files    []string // published platform files, e.g. "linux-x64"
}

// HasFile reports whether the release publishes the given platform file.
// Releases without a file list are assumed to publish everything.
func (r Release) HasFile(key string) bool {
	if len(r.Files) == 0 {
		return true
	}
	return slices.Contains(r.Files, key)
}

// Installed represents a version directory under the versions root.
type Installed struct {
	Version *semver.Version
	Path    string
	Current bool
}

// SortReleases orders releases by version, newest first.
func SortReleases(rs []Release) {
	slices.SortFunc(rs, func(a, b Release) int {
		return b.Version.Compare(a.Version)
	})
}

// SortInstalled orders installed versions by version, newest first.
func SortInstalled(vs []Installed) {
	slices.SortFunc(vs, func(a, b Installed) int {
		return b.Version.Compare(a.Version)
	})
}
