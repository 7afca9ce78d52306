package docmill

import (
	"fmt"
	"time"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ Renderer          = (*chromeRenderer)(nil)
	_ Renderer          = (RendererFunc)(nil)
	_ admissionGovernor = (*MemoryGovernor)(nil)
)

// admissionGovernor gates admission of new work. Workers pace dispatch
// while Admit returns false.
type admissionGovernor interface {
	Admit() bool
}

// serviceConfig holds construction-time settings.
type serviceConfig struct {
	workers         int // 0 = resolve from CPU count
	outputRoot      string
	policy          FetchPolicy
	cacheSize       int
	batchTimeout    time.Duration // 0 = no overall bound
	memoryLimitMB   int
	fallbackSources []string
	placeholderSize ImageSize
	client          HTTPDoer

	// Renderer settings, used only when no renderer is injected.
	theme         string
	qrEnabled     bool
	renderTimeout time.Duration
	assetPath     string
	dateFormat    string
	institution   string
}

// Service generates enrollment documents for batches of records. Create
// with New, run batches with ProcessBatch, and Close when done to release
// renderer resources. A zero-option New is fully usable: every setting has
// a default and the headless-browser renderer connects lazily on first use.
type Service struct {
	cfg      serviceConfig
	logger   Logger
	fetcher  *ResourceFetcher
	governor admissionGovernor
	renderer Renderer
}

// Option customizes Service construction.
type Option func(*Service)

// WithWorkers sets the worker pool size. Zero resolves the size from the
// CPU count; negative values are rejected by New.
func WithWorkers(n int) Option {
	return func(s *Service) { s.cfg.workers = n }
}

// WithOutputRoot sets the directory artifacts are written under.
// Defaults to the current directory. The directory is created on demand.
func WithOutputRoot(dir string) Option {
	return func(s *Service) { s.cfg.outputRoot = dir }
}

// WithFetchPolicy sets retry and timeout behavior for photo fetches.
func WithFetchPolicy(p FetchPolicy) Option {
	return func(s *Service) { s.cfg.policy = p }
}

// WithCacheSize bounds the fetch cache entry count.
func WithCacheSize(n int) Option {
	return func(s *Service) { s.cfg.cacheSize = n }
}

// WithBatchTimeout bounds a whole ProcessBatch call. When it expires the
// batch behaves as if canceled: in-flight records finish, the rest are
// reported as not attempted. Zero means no overall bound.
func WithBatchTimeout(d time.Duration) Option {
	return func(s *Service) { s.cfg.batchTimeout = d }
}

// WithMemoryLimit sets the admission ceiling in megabytes. Zero disables
// memory-based pacing.
func WithMemoryLimit(mb int) Option {
	return func(s *Service) { s.cfg.memoryLimitMB = mb }
}

// WithFallbackSources replaces the default photo fallback chain.
func WithFallbackSources(sources []string) Option {
	return func(s *Service) { s.cfg.fallbackSources = sources }
}

// WithPlaceholderSize sets the synthesized placeholder dimensions.
func WithPlaceholderSize(size ImageSize) Option {
	return func(s *Service) { s.cfg.placeholderSize = size }
}

// WithHTTPClient sets the transport used for photo fetches.
func WithHTTPClient(client HTTPDoer) Option {
	return func(s *Service) { s.cfg.client = client }
}

// WithLogger sets the logger handed to every component. Defaults to a
// no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer injects the document renderer, replacing the default
// headless-browser implementation. Useful for stubs in tests and for
// environments without a browser.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithTheme selects the ID card theme (modern, classic, minimal).
// Only consulted by the default renderer.
func WithTheme(theme string) Option {
	return func(s *Service) { s.cfg.theme = theme }
}

// WithQRCode toggles the ID card verification QR code.
// Only consulted by the default renderer.
func WithQRCode(enabled bool) Option {
	return func(s *Service) { s.cfg.qrEnabled = enabled }
}

// WithRenderTimeout bounds a single render inside the default renderer.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Service) { s.cfg.renderTimeout = d }
}

// WithAssetPath points the default renderer at a directory of custom
// styles and templates; missing assets fall back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(s *Service) { s.cfg.assetPath = dir }
}

// WithDateFormat sets the issue-date format used on rendered documents.
// Accepts dateutil tokens (YYYY, MM, DD) or a preset name.
func WithDateFormat(format string) Option {
	return func(s *Service) { s.cfg.dateFormat = format }
}

// WithInstitution sets the institution name printed on documents.
func WithInstitution(name string) Option {
	return func(s *Service) { s.cfg.institution = name }
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithWorkers, WithOutputRoot).
// Returns an error when a setting violates its invariants.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: serviceConfig{
			outputRoot:      ".",
			policy:          DefaultFetchPolicy(),
			cacheSize:       DefaultCacheSize,
			memoryLimitMB:   DefaultMemoryLimitMB,
			fallbackSources: DefaultFallbackSources,
			placeholderSize: DefaultPlaceholderSize,
			theme:           DefaultTheme,
			qrEnabled:       true,
			renderTimeout:   defaultRenderTimeout,
		},
		logger: &NoOpLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.workers < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0; 0 = auto)", ErrInvalidWorkers, s.cfg.workers)
	}
	if s.cfg.outputRoot == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidOutputRoot)
	}

	// Create collaborators not injected (e.g., by tests).
	if s.fetcher == nil {
		fetcher, err := NewResourceFetcher(s.cfg.policy, s.cfg.cacheSize, s.cfg.client, s.logger)
		if err != nil {
			return nil, err
		}
		s.fetcher = fetcher
	}

	if s.governor == nil {
		governor, err := NewMemoryGovernor(s.cfg.memoryLimitMB, s.logger)
		if err != nil {
			return nil, err
		}
		s.governor = governor
	}

	if s.renderer == nil {
		renderer, err := newChromeRenderer(renderSettings{
			theme:       s.cfg.theme,
			qrEnabled:   s.cfg.qrEnabled,
			timeout:     s.cfg.renderTimeout,
			assetPath:   s.cfg.assetPath,
			dateFormat:  s.cfg.dateFormat,
			institution: s.cfg.institution,
		}, s.logger)
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}

	return s, nil
}

// Close releases renderer resources (the headless browser, when the
// default renderer is in use).
func (s *Service) Close() error {
	if closer, ok := s.renderer.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
