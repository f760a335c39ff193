package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/yanm/internal/dist"
)

const (
	// MirrorEnv overrides the configured mirror.
	MirrorEnv = "YANM_NODE_MIRROR"

	defaultMirror  = "https://nodejs.org/dist"
	defaultWorkers = 2
	defaultTimeout = 10 * time.Minute
)

// Settings captures user preferences read from settings.yaml.
type Settings struct {
	Mirror          string        `yaml:"mirror"`
	VerifyChecksums *bool         `yaml:"verify_checksums,omitempty"`
	DownloadWorkers int           `yaml:"download_workers"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
}

// Default returns the baseline settings.
func Default() Settings {
	verify := true
	return Settings{
		Mirror:          defaultMirror,
		VerifyChecksums: &verify,
		DownloadWorkers: defaultWorkers,
		HTTPTimeout:     defaultTimeout,
	}
}

// Verify returns the effective checksum verification flag.
func (s Settings) Verify() bool {
	if s.VerifyChecksums == nil {
		return true
	}
	return *s.VerifyChecksums
}

// Load reads settings from path, returning defaults when the file does not
// exist. $YANM_NODE_MIRROR takes precedence over the file.
func Load(path string) (Settings, error) {
	s := Default()

	contents, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("%w: reading settings: %v", dist.ErrConfig, err)
	default:
		if err := yaml.Unmarshal(contents, &s); err != nil {
			return Settings{}, fmt.Errorf("%w: parsing %s: %v", dist.ErrConfig, path, err)
		}
	}

	if mirror := strings.TrimSpace(os.Getenv(MirrorEnv)); mirror != "" {
		s.Mirror = mirror
	}
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	s.Mirror = strings.TrimSuffix(strings.TrimSpace(s.Mirror), "/")
	if s.Mirror == "" {
		s.Mirror = defaultMirror
	}
	if s.DownloadWorkers <= 0 {
		s.DownloadWorkers = defaultWorkers
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = defaultTimeout
	}
}

// Validate reports settings that cannot be used.
func (s Settings) Validate() error {
	if !strings.HasPrefix(s.Mirror, "http://") && !strings.HasPrefix(s.Mirror, "https://") {
		return fmt.Errorf("%w: mirror %q must be an http(s) URL", dist.ErrConfig, s.Mirror)
	}
	return nil
}
