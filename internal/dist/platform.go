package dist

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the os/arch flavour of a Node.js binary archive.
type Platform struct {
	OS   string // "linux", "darwin", "win"
	Arch string // "x64", "arm64", "x86", ...
}

// CurrentPlatform maps the running GOOS/GOARCH to Node.js naming.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps a GOOS/GOARCH pair to Node.js naming.
func PlatformFor(goos, goarch string) Platform {
	p := Platform{OS: goos, Arch: goarch}
	if goos == "windows" {
		p.OS = "win"
	}
	switch goarch {
	case "amd64":
		p.Arch = "x64"
	case "386":
		p.Arch = "x86"
	case "arm":
		p.Arch = "armv7l"
	}
	return p
}

// Ext returns the archive extension published for the platform.
func (p Platform) Ext() string {
	if p.OS == "win" {
		return "zip"
	}
	return "tar.gz"
}

// Dirname returns the top-level directory inside the archive,
// e.g. "node-v20.9.0-linux-x64".
func (p Platform) Dirname(version string) string {
	return fmt.Sprintf("node-v%s-%s-%s", strings.TrimPrefix(version, "v"), p.OS, p.Arch)
}

// ArchiveName returns the archive filename, e.g. "node-v20.9.0-linux-x64.tar.gz".
func (p Platform) ArchiveName(version string) string {
	return p.Dirname(version) + "." + p.Ext()
}

// FileKey returns the identifier used in the "files" list of index.json,
// e.g. "linux-x64", "osx-arm64-tar" or "win-x64-zip".
func (p Platform) FileKey() string {
	switch p.OS {
	case "darwin":
		return "osx-" + p.Arch + "-tar"
	case "win":
		return "win-" + p.Arch + "-zip"
	default:
		return p.OS + "-" + p.Arch
	}
}

// String returns "os-arch".
func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}
