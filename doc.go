// Package docmill generates student enrollment documents in batch: payment
// receipt PDFs and photo ID card PNGs, rendered from roster records using
// headless Chrome.
//
// # Quick Start
//
// Create a service, process a batch, and close when done:
//
//	svc, err := docmill.New(docmill.WithOutputRoot("out"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	report, err := svc.ProcessBatch(ctx, records,
//	    docmill.Operations(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d succeeded, %d failed\n", report.Succeeded, report.Failed)
//
// The report lists every artifact written and every per-record error. A
// record failing never aborts the batch; ProcessBatch returns an error only
// when the batch itself is misconfigured (unknown operation, unwritable
// output root).
//
// # Generation Pipeline
//
// Each record flows through these stages on a worker:
//
//  1. Photo fetch with retries, fallback URLs, and an LRU cache; when every
//     source is exhausted a deterministic placeholder image is generated
//  2. Document rendering (receipts: markdown via Goldmark, printed to PDF;
//     ID cards: HTML template captured as a PNG screenshot)
//  3. Atomic artifact write under the output root
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := docmill.New(
//	    docmill.WithWorkers(8),
//	    docmill.WithTheme("classic"),
//	    docmill.WithFetchPolicy(docmill.FetchPolicy{
//	        Timeout:     10 * time.Second,
//	        RetryCount:  2,
//	        BackoffBase: 200 * time.Millisecond,
//	    }),
//	)
//
// # Progress and Cancellation
//
// ProcessBatch reports completion through an optional callback, invoked
// exactly once per finished record with strictly increasing counts:
//
//	progress := func(ev docmill.ProgressEvent) {
//	    fmt.Printf("%d/%d %s\n", ev.Completed, ev.Total, ev.Last.RecordID)
//	}
//	report, err := svc.ProcessBatch(ctx, records, ops, progress)
//
// Canceling the context stops dispatch: records already being processed
// finish and their artifacts are kept, the rest are counted as not
// attempted, and the partial report is returned without an error.
//
// # Memory Pressure
//
// A memory governor watches the process RSS and paces dispatch while usage
// sits above the configured ceiling (WithMemoryLimit). Work is delayed,
// never rejected, and the governor fails open if the metric is unavailable.
//
// # Custom Assets
//
// Styles and templates are embedded; point the service at a directory to
// override them, falling back to the embedded ones for anything missing:
//
//	svc, err := docmill.New(docmill.WithAssetPath("/path/to/assets"))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   ├── receipt.css
//	│   └── modern.css
//	└── templates/
//	    ├── receipt.md
//	    └── idcard.html
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary; in CI and container
// environments the sandbox is disabled automatically.
package docmill
