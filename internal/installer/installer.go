// Package installer fetches, verifies and unpacks one Node.js release.
package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frederic-klein/yanm/internal/dist"
	"github.com/frederic-klein/yanm/internal/downloader"
	"github.com/frederic-klein/yanm/internal/extractor"
	"github.com/frederic-klein/yanm/internal/index"
)

// Mirror locates release artifacts.
type Mirror interface {
	ArchiveURL(version string, p dist.Platform) string
	ChecksumURL(version string) string
}

// Options tune an Installer.
type Options struct {
	Platform        dist.Platform
	VerifyChecksums bool
}

// Installer places releases under the versions directory.
type Installer struct {
	mirror      Mirror
	downloader  *downloader.Downloader
	extractor   *extractor.Extractor
	versionsDir string
	opts        Options
	logger      *slog.Logger
}

// New creates an installer writing into versionsDir.
func New(mirror Mirror, dl *downloader.Downloader, ex *extractor.Extractor, versionsDir string, opts Options, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{
		mirror:      mirror,
		downloader:  dl,
		extractor:   ex,
		versionsDir: versionsDir,
		opts:        opts,
		logger:      logger,
	}
}

// Install downloads rel's archive for the configured platform, verifies it
// against SHASUMS256.txt and extracts it to versions/<version>. The archive
// and checksum file are downloaded concurrently.
func (i *Installer) Install(ctx context.Context, rel dist.Release) (string, error) {
	version := rel.Version.String()
	p := i.opts.Platform
	if !rel.HasFile(p.FileKey()) {
		return "", fmt.Errorf("%w: %s has no build for %s", dist.ErrVersionNotFound, version, p)
	}
	if err := CheckWritePermissions(i.versionsDir); err != nil {
		return "", err
	}

	archiveName := p.ArchiveName(version)
	archivePath := i.downloader.Path(archiveName)
	jobs := []downloader.Job{{
		URL:      i.mirror.ArchiveURL(version, p),
		DestPath: archivePath,
		Name:     archiveName,
	}}
	if i.opts.VerifyChecksums {
		jobs = append(jobs, downloader.Job{
			URL:      i.mirror.ChecksumURL(version),
			DestPath: i.downloader.Path(index.ChecksumFilename(version)),
		})
	}

	for _, r := range i.downloader.Download(ctx, jobs) {
		if r.Error != nil {
			return "", r.Error
		}
	}

	if i.opts.VerifyChecksums {
		if err := verify(archivePath, jobs[1].DestPath, archiveName); err != nil {
			os.Remove(archivePath)
			os.Remove(jobs[1].DestPath)
			return "", err
		}
		i.logger.Debug("checksum verified", "archive", archiveName)
	}

	versionDir := filepath.Join(i.versionsDir, version)
	if err := i.extractor.Extract(archivePath, versionDir); err != nil {
		return "", err
	}

	for _, job := range jobs {
		if err := os.Remove(job.DestPath); err != nil && !os.IsNotExist(err) {
			i.logger.Warn("could not remove download", "path", job.DestPath, "error", err)
		}
	}
	return versionDir, nil
}

func verify(archivePath, sumsPath, archiveName string) error {
	sums, err := index.ReadChecksums(sumsPath)
	if err != nil {
		return err
	}
	want, ok := sums.Lookup(archiveName)
	if !ok {
		return fmt.Errorf("%w: no checksum published for %s", dist.ErrDownload, archiveName)
	}

	got, err := fileSHA256(archivePath)
	if err != nil {
		return fmt.Errorf("%w: hashing %s: %v", dist.ErrSystem, archiveName, err)
	}
	if got != want {
		return fmt.Errorf("%w: checksum mismatch for %s: got %s, want %s", dist.ErrDownload, archiveName, got, want)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CheckWritePermissions verifies files can be created in dir, creating dir
// if needed.
func CheckWritePermissions(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", dist.ErrSystem, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("%w: %s is not writable: %v", dist.ErrSystem, dir, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: removing %s: %v", dist.ErrSystem, name, err)
	}
	return nil
}
