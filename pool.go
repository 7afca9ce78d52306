package docmill

import "runtime"

// Worker pool sizing constants.
const (
	// MinWorkers ensures at least one worker runs.
	MinWorkers = 1

	// MaxWorkers caps concurrent render pipelines to limit memory
	// (a headless browser page can cost ~200MB).
	MaxWorkers = 8

	// cpuDivisor leaves headroom for renderer child processes.
	cpuDivisor = 2
)

// ResolveWorkerCount determines the worker pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkerCount(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs in containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
