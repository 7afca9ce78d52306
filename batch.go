package docmill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-docmill/internal/fileutil"
)

// Output permissions.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Governor pacing bounds. Dispatch backs off exponentially between
// admission checks, never rejecting the record.
const (
	pacingInitial = 100 * time.Millisecond
	pacingMax     = 2 * time.Second
)

// ProcessBatch runs records through a fixed-size worker pool, producing
// every requested operation for each record. Unknown or empty operation
// sets fail before any work starts. Per-record errors are isolated: they
// appear in the report and never abort sibling jobs.
//
// Progress callbacks are serialized by the coordinator and fire exactly
// once per completed job, in completion order. Canceling ctx stops workers
// from picking up new records; in-flight records finish, bounded by the
// fetch policy and render timeout, and the remainder is reported as not
// attempted. Cancellation is not an error: the partial report is returned
// with a nil error.
func (s *Service) ProcessBatch(ctx context.Context, records []Record, ops []Operation, progress ProgressFunc) (*BatchReport, error) {
	ops, err := normalizeOperations(ops)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &BatchReport{}, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	batchCtx := ctx
	if s.cfg.batchTimeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, s.cfg.batchTimeout)
		defer cancel()
	}

	if err := os.MkdirAll(s.cfg.outputRoot, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutputRoot, err)
	}

	workers := ResolveWorkerCount(s.cfg.workers)
	if workers > len(records) {
		workers = len(records)
	}

	s.logger.Info("batch: %d records, %d workers, operations %v", len(records), workers, ops)

	agg := &aggregator{total: len(records), progress: progress}
	jobs := make(chan int, len(records))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				// After cancellation, drain the queue without starting
				// new records; they count as not attempted.
				if batchCtx.Err() != nil {
					continue
				}
				if !s.paceAdmission(batchCtx) {
					continue
				}
				agg.finish(s.processRecord(batchCtx, records[idx], ops))
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	report := agg.report()
	s.logger.Info("batch: done, %d succeeded, %d failed, %d not attempted",
		report.Succeeded, report.Failed, report.NotAttempted)
	return report, nil
}

// normalizeOperations validates the requested set and canonicalizes each
// entry, dropping duplicates while preserving order.
func normalizeOperations(ops []Operation) ([]Operation, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}

	seen := make(map[Operation]bool, len(ops))
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		parsed, err := ParseOperation(string(op))
		if err != nil {
			return nil, err
		}
		if seen[parsed] {
			continue
		}
		seen[parsed] = true
		out = append(out, parsed)
	}
	return out, nil
}

// paceAdmission blocks until the governor admits new work, backing off
// exponentially between checks. Returns false when ctx is canceled before
// admission; the caller skips the record.
func (s *Service) paceAdmission(ctx context.Context) bool {
	wait := pacingInitial
	for !s.governor.Admit() {
		s.logger.Debug("batch: memory pressure, pacing dispatch for %v", wait)
		if err := sleepContext(ctx, wait); err != nil {
			return false
		}
		wait *= 2
		if wait > pacingMax {
			wait = pacingMax
		}
	}
	return true
}

// processRecord runs one record through fetch, render, and write. Every
// failure, including a renderer panic, is captured into the JobResult;
// nothing escapes to the pool.
func (s *Service) processRecord(ctx context.Context, rec Record, ops []Operation) (res JobResult) {
	start := time.Now()
	res.RecordID = rec.ID

	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Artifacts = nil
			res.Err = fmt.Errorf("%w: %v", ErrRendererPanic, r)
		}
	}()

	if err := rec.Validate(); err != nil {
		res.Err = err
		return res
	}

	// In-flight records run to completion after cancellation; the fetch
	// policy and render timeout keep the remaining work bounded.
	opCtx := context.WithoutCancel(ctx)

	var photo []byte
	if hasOperation(ops, OperationIDCard) {
		// Record-level fallbacks are tried before the service-wide chain.
		fallbacks := make([]string, 0, len(rec.PhotoFallbacks)+len(s.cfg.fallbackSources))
		fallbacks = append(fallbacks, rec.PhotoFallbacks...)
		fallbacks = append(fallbacks, s.cfg.fallbackSources...)
		photo = s.fetcher.Fetch(opCtx, rec.PhotoURL, fallbacks, s.cfg.placeholderSize)
	}

	var artifacts []string
	for _, op := range ops {
		data, err := s.renderer.Render(opCtx, rec, op, photo)
		if err != nil {
			res.Err = fmt.Errorf("%w: %s: %v", ErrRender, op, err)
			return res
		}

		path := filepath.Join(s.cfg.outputRoot, op.Filename(rec.ID))
		if err := fileutil.WriteAtomic(path, data, filePermissions); err != nil {
			res.Err = fmt.Errorf("%w: %v", ErrArtifactWrite, err)
			return res
		}
		artifacts = append(artifacts, path)
	}

	res.Artifacts = artifacts
	return res
}

// hasOperation reports whether want is in ops.
func hasOperation(ops []Operation, want Operation) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

// aggregator accumulates job results and serializes progress callbacks.
// Invoking the callback under the lock guarantees callers observe strictly
// increasing completed counts; callbacks must not call back into the
// service.
type aggregator struct {
	mu        sync.Mutex
	total     int
	completed int
	progress  ProgressFunc
	rep       BatchReport
}

// finish records one completed job and fires the progress callback.
func (a *aggregator) finish(res JobResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed++
	if res.Failed() {
		a.rep.Failed++
		a.rep.Errors = append(a.rep.Errors, JobError{RecordID: res.RecordID, Err: res.Err})
	} else {
		a.rep.Succeeded++
		a.rep.Artifacts = append(a.rep.Artifacts, res.Artifacts...)
	}

	if a.progress != nil {
		a.progress(ProgressEvent{Completed: a.completed, Total: a.total, Last: res})
	}
}

// report finalizes counts. Records never started are the difference
// between the total and everything that completed.
func (a *aggregator) report() *BatchReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	rep := a.rep
	rep.NotAttempted = a.total - a.rep.Succeeded - a.rep.Failed
	return &rep
}
