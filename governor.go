package docmill

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/process"
)

// DefaultMemoryLimitMB is the default admission ceiling in megabytes.
const DefaultMemoryLimitMB = 512

// MemoryGovernor gates admission of new work on process memory usage.
// Admit returns false while usage exceeds the ceiling; callers respond by
// pacing, never by failing the work. When the usage metric is unavailable
// on the host, the governor fails open and admits everything.
// Safe for concurrent use.
type MemoryGovernor struct {
	limit  uint64 // bytes; 0 disables the ceiling
	usage  func() (uint64, error)
	logger Logger
	warned atomic.Bool // metric-unavailable warning fires once
}

// NewMemoryGovernor creates a governor with a ceiling in megabytes.
// A zero limit disables the ceiling so every Admit succeeds.
func NewMemoryGovernor(limitMB int, logger Logger) (*MemoryGovernor, error) {
	if limitMB < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMemoryLimit, limitMB)
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &MemoryGovernor{
		limit:  uint64(limitMB) << 20,
		usage:  processRSS,
		logger: logger,
	}, nil
}

// Admit reports whether new work may start now.
func (g *MemoryGovernor) Admit() bool {
	if g.limit == 0 {
		return true
	}

	used, err := g.usage()
	if err != nil {
		if g.warned.CompareAndSwap(false, true) {
			g.logger.Warn("governor: usage metric unavailable, failing open: %v", err)
		}
		return true
	}

	if used > g.limit {
		g.logger.Debug("governor: %d MiB used exceeds %d MiB ceiling", used>>20, g.limit>>20)
		return false
	}

	return true
}

// processRSS reads the resident set size of the current process.
func processRSS() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}

	return info.RSS, nil
}
