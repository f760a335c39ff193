package dist

import "errors"

// Sentinel errors classifying every failure surfaced to the command layer.
// Callers wrap them with context and match them with errors.Is.
var (
	// ErrVersionNotFound indicates a spec matched nothing in the queried scope.
	ErrVersionNotFound = errors.New("version not found")

	// ErrVersionNotInstalled indicates an operation needs a version that is not on disk.
	ErrVersionNotInstalled = errors.New("version not installed")

	// ErrVersionInUse indicates an attempt to remove the active version.
	ErrVersionInUse = errors.New("version is active")

	// ErrInvalidVersion indicates a spec or constraint that cannot be parsed.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrDownload indicates a network failure, a non-success HTTP status or a
	// malformed remote document.
	ErrDownload = errors.New("download failed")

	// ErrExtraction indicates an archive could not be unpacked.
	ErrExtraction = errors.New("extraction failed")

	// ErrConfig indicates a configuration or alias document could not be read or parsed.
	ErrConfig = errors.New("configuration error")

	// ErrAlias indicates an alias that does not exist.
	ErrAlias = errors.New("alias error")

	// ErrSystem indicates a filesystem or permission failure.
	ErrSystem = errors.New("system error")
)
