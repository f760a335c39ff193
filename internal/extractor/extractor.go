package extractor

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/frederic-klein/yanm/internal/dist"
)

// Extractor unpacks Node.js release archives into version directories.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// StagingDir returns the directory an archive for versionDir is unpacked
// into before it is moved into place. Its dot prefix hides it from the
// installed set.
func StagingDir(versionDir string) string {
	return filepath.Join(filepath.Dir(versionDir), "."+filepath.Base(versionDir)+".staging")
}

// Extract unpacks archivePath (.tar.gz or .zip) into versionDir. The
// archive's single top-level directory becomes versionDir. On failure the
// staging directory is left behind and removed by the next attempt.
func (e *Extractor) Extract(archivePath, versionDir string) error {
	if _, err := os.Stat(versionDir); err == nil {
		return fmt.Errorf("%w: %s already exists", dist.ErrExtraction, versionDir)
	}

	staging := StagingDir(versionDir)
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("%w: removing stale %s: %v", dist.ErrExtraction, staging, err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", dist.ErrExtraction, staging, err)
	}

	e.logger.Info("extracting", "archive", filepath.Base(archivePath), "dest", versionDir)

	var err error
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		err = extractZip(archivePath, staging)
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		err = extractTarball(archivePath, staging)
	default:
		err = fmt.Errorf("unsupported archive format %s", filepath.Base(archivePath))
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", dist.ErrExtraction, filepath.Base(archivePath), err)
	}

	root, err := singleRoot(staging)
	if err != nil {
		return fmt.Errorf("%w: %v", dist.ErrExtraction, err)
	}
	if err := os.Rename(root, versionDir); err != nil {
		return fmt.Errorf("%w: moving into %s: %v", dist.ErrExtraction, versionDir, err)
	}
	if root != staging {
		os.RemoveAll(staging)
	}
	return nil
}

// singleRoot returns the archive's top-level directory, or staging itself
// when the archive has no common root.
func singleRoot(staging string) (string, error) {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("archive is empty")
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(staging, entries[0].Name()), nil
	}
	return staging, nil
}

// extractTarball extracts a gzipped tarball to destDir.
func extractTarball(tarballPath, destDir string) error {
	file, err := os.Open(tarballPath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := symlink(destDir, target, header.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			source, err := safeJoin(destDir, header.Linkname)
			if err != nil {
				return err
			}
			if info, err := os.Lstat(source); err != nil || !info.Mode().IsRegular() {
				return fmt.Errorf("hard link %s must point at a regular file", header.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := removeLink(target); err != nil {
				return err
			}
			if err := os.Link(source, target); err != nil {
				return err
			}
		}
	}
}

func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		mode := f.Mode()

		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case mode&os.ModeSymlink != 0:
			rc, err := f.Open()
			if err != nil {
				return err
			}
			link, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return err
			}
			if err := symlink(destDir, target, string(link)); err != nil {
				return err
			}
		default:
			rc, err := f.Open()
			if err != nil {
				return err
			}
			err = writeFile(target, rc, mode)
			rc.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := removeLink(target); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// symlink creates target pointing at linkname, which must be relative and
// stay inside destDir. A ".." step is only allowed out of a directory that
// is already extracted, so the link resolves on disk the way it reads.
func symlink(destDir, target, linkname string) error {
	if filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return fmt.Errorf("symlink %s has absolute target %s", target, linkname)
	}
	if info, err := os.Lstat(target); err == nil && info.IsDir() {
		return fmt.Errorf("symlink %s would replace a directory", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	cur := filepath.Dir(target)
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			info, err := os.Lstat(cur)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("symlink %s climbs out of %s, which is not an extracted directory", target, cur)
			}
			cur = filepath.Dir(cur)
		default:
			cur = filepath.Join(cur, part)
		}
		if !within(destDir, cur) {
			return fmt.Errorf("symlink %s escapes the archive root", target)
		}
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Symlink(linkname, target)
}

// removeLink deletes target if it is a symlink so a later entry replaces the
// link instead of writing through it.
func removeLink(target string) error {
	info, err := os.Lstat(target)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return os.Remove(target)
}

// safeJoin joins an archive entry name to destDir, rejecting names that
// would land outside it or pass through a symlink extracted earlier.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !within(destDir, target) {
		return "", fmt.Errorf("entry %q escapes the archive root", name)
	}
	if target == filepath.Clean(destDir) {
		return target, nil
	}

	rel, err := filepath.Rel(destDir, filepath.Dir(target))
	if err != nil || rel == "." {
		return target, nil
	}
	cur := destDir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("entry %q passes through symlink %s", name, cur)
		}
	}
	return target, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
