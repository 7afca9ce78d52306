package docmill

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name:    "negative workers",
			opts:    []Option{WithWorkers(-1)},
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "empty output root",
			opts:    []Option{WithOutputRoot("")},
			wantErr: ErrInvalidOutputRoot,
		},
		{
			name:    "invalid fetch policy",
			opts:    []Option{WithFetchPolicy(FetchPolicy{Timeout: -time.Second})},
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "invalid cache size",
			opts:    []Option{WithCacheSize(-5)},
			wantErr: ErrInvalidCacheSize,
		},
		{
			name:    "negative memory limit",
			opts:    []Option{WithMemoryLimit(-1)},
			wantErr: ErrInvalidMemoryLimit,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithRenderer(okRenderer())}, tt.opts...)
			_, err := New(opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_ZeroConfig(t *testing.T) {
	t.Parallel()

	// Zero options must produce a working service: every setting has a
	// default and the browser renderer only launches on first render.
	svc, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	defer func() { _ = svc.Close() }()

	if svc.cfg.policy != DefaultFetchPolicy() {
		t.Errorf("default policy = %+v, want %+v", svc.cfg.policy, DefaultFetchPolicy())
	}
	if svc.cfg.cacheSize != DefaultCacheSize {
		t.Errorf("default cache size = %d, want %d", svc.cfg.cacheSize, DefaultCacheSize)
	}
	if svc.cfg.memoryLimitMB != DefaultMemoryLimitMB {
		t.Errorf("default memory limit = %d, want %d", svc.cfg.memoryLimitMB, DefaultMemoryLimitMB)
	}
	if svc.cfg.theme != DefaultTheme {
		t.Errorf("default theme = %q, want %q", svc.cfg.theme, DefaultTheme)
	}
	if len(svc.cfg.fallbackSources) == 0 {
		t.Error("default fallback chain is empty")
	}
	if svc.fetcher == nil || svc.governor == nil || svc.renderer == nil {
		t.Error("collaborators not constructed by New")
	}
}

func TestNew_OptionsApply(t *testing.T) {
	t.Parallel()

	policy := FetchPolicy{Timeout: time.Second, RetryCount: 1, BackoffBase: 10 * time.Millisecond}
	logger := &recordingLogger{}

	svc, err := New(
		WithRenderer(okRenderer()),
		WithWorkers(3),
		WithOutputRoot(t.TempDir()),
		WithFetchPolicy(policy),
		WithCacheSize(7),
		WithBatchTimeout(time.Minute),
		WithMemoryLimit(256),
		WithFallbackSources([]string{"https://example.com/a"}),
		WithPlaceholderSize(ImageSize{Width: 64, Height: 48}),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if svc.cfg.workers != 3 {
		t.Errorf("workers = %d, want 3", svc.cfg.workers)
	}
	if svc.cfg.policy != policy {
		t.Errorf("policy = %+v, want %+v", svc.cfg.policy, policy)
	}
	if svc.cfg.cacheSize != 7 {
		t.Errorf("cacheSize = %d, want 7", svc.cfg.cacheSize)
	}
	if svc.cfg.batchTimeout != time.Minute {
		t.Errorf("batchTimeout = %v, want 1m", svc.cfg.batchTimeout)
	}
	if svc.cfg.memoryLimitMB != 256 {
		t.Errorf("memoryLimitMB = %d, want 256", svc.cfg.memoryLimitMB)
	}
	if len(svc.cfg.fallbackSources) != 1 {
		t.Errorf("fallbackSources = %v, want the single override", svc.cfg.fallbackSources)
	}
	if svc.cfg.placeholderSize != (ImageSize{Width: 64, Height: 48}) {
		t.Errorf("placeholderSize = %+v", svc.cfg.placeholderSize)
	}
	if svc.logger != logger {
		t.Error("logger option not applied")
	}
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	svc, err := New(WithRenderer(okRenderer()), WithLogger(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := svc.logger.(*NoOpLogger); !ok {
		t.Errorf("nil logger option replaced the default: %T", svc.logger)
	}
}

// closingRenderer records whether Close was invoked.
type closingRenderer struct {
	closed bool
}

func (c *closingRenderer) Render(ctx context.Context, rec Record, op Operation, photo []byte) ([]byte, error) {
	return []byte("ok"), nil
}

func (c *closingRenderer) Close() error {
	c.closed = true
	return nil
}

func TestService_Close(t *testing.T) {
	t.Parallel()

	t.Run("forwards to closable renderer", func(t *testing.T) {
		t.Parallel()

		renderer := &closingRenderer{}
		svc, err := New(WithRenderer(renderer))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !renderer.closed {
			t.Error("renderer Close not invoked")
		}
	})

	t.Run("nil for plain renderer", func(t *testing.T) {
		t.Parallel()

		svc, err := New(WithRenderer(okRenderer()))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close on func renderer: %v", err)
		}
	})
}
