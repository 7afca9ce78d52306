package docmill

import "errors"

// Sentinel errors for library operations.
var (
	ErrRender        = errors.New("document rendering failed")
	ErrRendererPanic = errors.New("renderer panicked")
	ErrArtifactWrite = errors.New("artifact write failed")

	// Browser renderer errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("screenshot capture failed")
	ErrTemplateRender = errors.New("template rendering failed")

	// Asset resolution errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Record validation errors.
	ErrEmptyRecordID = errors.New("record ID cannot be empty")

	// Batch configuration errors.
	ErrNoOperations      = errors.New("no operations requested")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrInvalidWorkers    = errors.New("invalid worker count")
	ErrInvalidOutputRoot = errors.New("invalid output root")

	// Fetch policy validation errors.
	ErrInvalidTimeout    = errors.New("invalid fetch timeout")
	ErrInvalidRetryCount = errors.New("invalid retry count")
	ErrInvalidBackoff    = errors.New("invalid backoff base")
	ErrInvalidCacheSize  = errors.New("invalid cache size")

	// Governor validation errors.
	ErrInvalidMemoryLimit = errors.New("invalid memory limit")
)
