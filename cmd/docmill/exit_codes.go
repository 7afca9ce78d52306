package main

import (
	"errors"
	"os"

	docmill "github.com/alnah/go-docmill"
	"github.com/alnah/go-docmill/internal/assets"
	"github.com/alnah/go-docmill/internal/config"
	"github.com/alnah/go-docmill/internal/roster"
)

// Exit codes for the docmill CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All requested documents generated
	ExitGeneral = 1 // General/unexpected error, including failed records
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docmill.ErrBrowserConnect) ||
		errors.Is(err, docmill.ErrPageCreate) ||
		errors.Is(err, docmill.ErrPageLoad) ||
		errors.Is(err, docmill.ErrPDFGeneration) ||
		errors.Is(err, docmill.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, roster.ErrRosterNotFound) ||
		errors.Is(err, docmill.ErrArtifactWrite) ||
		errors.Is(err, ErrNoRoster) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRange) ||
		errors.Is(err, roster.ErrRosterParse) ||
		errors.Is(err, docmill.ErrNoOperations) ||
		errors.Is(err, docmill.ErrUnknownOperation) ||
		errors.Is(err, docmill.ErrInvalidWorkers) ||
		errors.Is(err, docmill.ErrInvalidOutputRoot) ||
		errors.Is(err, docmill.ErrInvalidTimeout) ||
		errors.Is(err, docmill.ErrInvalidRetryCount) ||
		errors.Is(err, docmill.ErrInvalidBackoff) ||
		errors.Is(err, docmill.ErrInvalidCacheSize) ||
		errors.Is(err, docmill.ErrInvalidMemoryLimit) ||
		errors.Is(err, docmill.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
