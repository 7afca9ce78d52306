package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// retrySentinel detects if --retries was explicitly set. Zero retries is a
// valid choice (single attempt per source), so the unset marker must sit
// outside the valid range.
const retrySentinel = -1

// memoryLimitSentinel detects if --memory-limit was explicitly set. Zero is
// a valid value (disables pacing), so the unset marker is negative.
const memoryLimitSentinel = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// batchFlags holds batch execution flags.
type batchFlags struct {
	workers     int
	operations  []string
	timeout     string
	memoryLimit int
}

// fetchFlags holds photo fetching flags.
type fetchFlags struct {
	timeout   string
	retries   int
	backoff   string
	cacheSize int
	fallbacks []string
}

// renderFlags holds document rendering flags.
type renderFlags struct {
	theme       string
	noQR        bool
	timeout     string
	dateFormat  string
	institution string
	assetPath   string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common commonFlags
	output string
	batch  batchFlags
	fetch  fetchFlags
	render renderFlags
}

// sampleFlags holds flags for the sample command.
type sampleFlags struct {
	count  int
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-record timing")
}

// addBatchFlags adds batch execution flags to a FlagSet.
func addBatchFlags(fs *flag.FlagSet, f *batchFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringSliceVar(&f.operations, "ops", nil, "documents per record: receipt, id_card")
	fs.StringVar(&f.timeout, "batch-timeout", "", "whole-batch timeout (e.g., 10m)")
	fs.IntVar(&f.memoryLimit, "memory-limit", memoryLimitSentinel, "memory ceiling in MB for dispatch pacing (0 = off)")
}

// addFetchFlags adds photo fetching flags to a FlagSet.
func addFetchFlags(fs *flag.FlagSet, f *fetchFlags) {
	fs.StringVar(&f.timeout, "fetch-timeout", "", "per-attempt photo fetch timeout (e.g., 30s)")
	fs.IntVar(&f.retries, "retries", retrySentinel, "fetch retries per source")
	fs.StringVar(&f.backoff, "backoff", "", "linear backoff base between fetch attempts (e.g., 500ms)")
	fs.IntVar(&f.cacheSize, "cache-size", 0, "photo cache entries (0 = default)")
	fs.StringSliceVar(&f.fallbacks, "fallback", nil, "fallback photo URL, tried in order (repeatable)")
}

// addRenderFlags adds document rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "ID card theme: modern, classic, minimal")
	fs.BoolVar(&f.noQR, "no-qr", false, "disable the ID card verification QR code")
	fs.StringVar(&f.timeout, "render-timeout", "", "per-document render timeout (e.g., 30s)")
	fs.StringVar(&f.dateFormat, "date-format", "", "issue date format tokens or preset (iso, european, us, long)")
	fs.StringVar(&f.institution, "institution", "", "institution name printed on documents")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")

	addCommonFlags(fs, &f.common)
	addBatchFlags(fs, &f.batch)
	addFetchFlags(fs, &f.fetch)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseSampleFlags parses sample command flags.
func parseSampleFlags(args []string) (*sampleFlags, error) {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	f := &sampleFlags{}

	fs.IntVarP(&f.count, "count", "n", 10, "number of records to generate")
	fs.StringVarP(&f.output, "output", "o", "students.json", "roster file to write")

	fs.Usage = func() { printSampleUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}
