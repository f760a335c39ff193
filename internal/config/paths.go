package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	rootDirName = ".yanm"
	// RootEnv overrides the root directory.
	RootEnv = "YANM_DIR"
)

// Paths captures the canonical on-disk layout under the root directory.
type Paths struct {
	Root         string
	VersionsDir  string
	DownloadsDir string
	CurrentLink  string
	ConfigDir    string
	AliasFile    string
	SettingsFile string
	LockFile     string
}

// ResolvePaths determines the root from the --dir flag, then $YANM_DIR,
// then ~/.yanm.
func ResolvePaths(dirFlag string) (Paths, error) {
	root := dirFlag
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, rootDirName)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving root directory: %w", err)
	}
	return NewPaths(abs), nil
}

// NewPaths derives every location from root.
func NewPaths(root string) Paths {
	versions := filepath.Join(root, "versions")
	configDir := filepath.Join(root, "config")
	return Paths{
		Root:         root,
		VersionsDir:  versions,
		DownloadsDir: filepath.Join(versions, "downloads"),
		CurrentLink:  filepath.Join(root, "current"),
		ConfigDir:    configDir,
		AliasFile:    filepath.Join(configDir, "aliases.json"),
		SettingsFile: filepath.Join(configDir, "settings.yaml"),
		LockFile:     filepath.Join(root, ".lock"),
	}
}

// VersionDir returns the directory of an installed version.
func (p Paths) VersionDir(version string) string {
	return filepath.Join(p.VersionsDir, version)
}

// EnsureDirs creates the root, versions and downloads directories.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.VersionsDir, p.DownloadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
