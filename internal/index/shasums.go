package index

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frederic-klein/yanm/internal/dist"
)

const checksumFile = "SHASUMS256.txt"

// ChecksumURL returns the URL of the SHASUMS256.txt published for a version.
func (c *Catalog) ChecksumURL(version string) string {
	return fmt.Sprintf("%s/v%s/%s", c.mirror, version, checksumFile)
}

// ChecksumFilename returns the local filename used for a version's checksums.
func ChecksumFilename(version string) string {
	return "node-v" + version + "-" + checksumFile
}

// Checksums maps archive filenames to hex-encoded SHA-256 digests.
type Checksums map[string]string

// Lookup returns the digest recorded for filename.
func (c Checksums) Lookup(filename string) (string, bool) {
	sum, ok := c[filename]
	return sum, ok
}

// ReadChecksums parses a downloaded SHASUMS256.txt file.
func ReadChecksums(path string) (Checksums, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening checksums: %v", dist.ErrDownload, err)
	}
	defer file.Close()

	return ParseChecksums(file)
}

// ParseChecksums reads "<digest>  <filename>" lines.
func ParseChecksums(r io.Reader) (Checksums, error) {
	sums := make(Checksums)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading checksums: %v", dist.ErrDownload, err)
	}
	return sums, nil
}
