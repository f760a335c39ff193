package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/yanm/internal/dist"
)

const (
	// DefaultMirror is the upstream Node.js distribution root.
	DefaultMirror = "https://nodejs.org/dist"
	indexPath     = "index.json"
)

// Catalog lists every published Node.js release from a mirror's index.json.
// Nothing is cached: each Fetch performs one request.
type Catalog struct {
	mirror string
	client *http.Client
	logger *slog.Logger
}

// indexEntry is one element of index.json. "lts" is either false or the
// release line codename.
type indexEntry struct {
	Version string          `json:"version"`
	Date    string          `json:"date"`
	Files   []string        `json:"files"`
	LTS     json.RawMessage `json:"lts"`
}

// NewCatalog creates a catalog for the given mirror. A nil client uses
// http.DefaultClient and a nil logger discards output.
func NewCatalog(mirror string, client *http.Client, logger *slog.Logger) *Catalog {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		mirror: strings.TrimSuffix(mirror, "/"),
		client: client,
		logger: logger,
	}
}

// Fetch downloads index.json and returns its releases sorted newest first.
func (c *Catalog) Fetch(ctx context.Context) ([]dist.Release, error) {
	url := fmt.Sprintf("%s/%s", c.mirror, indexPath)
	c.logger.Debug("fetching release index", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", dist.ErrDownload, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching release index: %v", dist.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching release index: HTTP %d", dist.ErrDownload, resp.StatusCode)
	}

	releases, err := c.parse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("release index loaded", "releases", len(releases))
	return releases, nil
}

// parse decodes index.json. Entries whose version does not parse are skipped.
func (c *Catalog) parse(r io.Reader) ([]dist.Release, error) {
	var entries []indexEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: parsing release index: %v", dist.ErrDownload, err)
	}

	releases := make([]dist.Release, 0, len(entries))
	for _, e := range entries {
		v, err := semver.NewVersion(strings.TrimPrefix(e.Version, "v"))
		if err != nil {
			c.logger.Debug("skipping unparseable release", "version", e.Version)
			continue
		}
		lts, codename := parseLTS(e.LTS)
		releases = append(releases, dist.Release{
			Version:  v,
			LTS:      lts,
			Codename: codename,
			Date:     e.Date,
			Files:    e.Files,
		})
	}

	dist.SortReleases(releases)
	return releases, nil
}

func parseLTS(raw json.RawMessage) (bool, string) {
	if len(raw) == 0 {
		return false, ""
	}
	var codename string
	if err := json.Unmarshal(raw, &codename); err == nil {
		return codename != "", codename
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return flag, ""
	}
	return false, ""
}

// Mirror returns the configured mirror URL.
func (c *Catalog) Mirror() string {
	return c.mirror
}

// ArchiveURL returns the download URL of a release archive.
func (c *Catalog) ArchiveURL(version string, p dist.Platform) string {
	return fmt.Sprintf("%s/v%s/%s", c.mirror, version, p.ArchiveName(version))
}
