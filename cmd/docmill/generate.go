package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	docmill "github.com/alnah/go-docmill"
	"github.com/alnah/go-docmill/internal/assets"
	"github.com/alnah/go-docmill/internal/config"
	"github.com/alnah/go-docmill/internal/hints"
	"github.com/alnah/go-docmill/internal/roster"
)

// Sentinel errors for CLI operations.
var (
	ErrNoRoster = errors.New("no roster specified")
)

// defaultOutputDir receives artifacts when neither flag nor config sets one.
const defaultOutputDir = "output"

// runGenerate orchestrates batch document generation.
func runGenerate(ctx context.Context, positionalArgs []string, flags *generateFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.batch.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Load configuration. DOCMILL_CONFIG fills in when no flag names one.
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	var err error
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Env vars fill config gaps, then CLI flags override (CLI wins)
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	// Resolve roster path
	rosterPath, err := resolveRosterPath(positionalArgs, cfg)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForRosterNotFound())
	}

	records, err := roster.Load(rosterPath)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForRosterNotFound())
		}
		return err
	}

	ops, err := resolveOperations(cfg)
	if err != nil {
		return err
	}

	opts, err := buildServiceOptions(cfg, flags)
	if err != nil {
		return err
	}

	svc, err := env.NewService(opts...)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForUnknownTheme(themeNames()))
		}
		return err
	}
	defer func() { _ = svc.Close() }()

	progress := progressPrinter(flags.common.quiet, flags.common.verbose, env)

	report, err := svc.ProcessBatch(ctx, records, ops, progress)
	if err != nil {
		return err
	}

	printReport(report, flags.common.quiet, env)

	if report.Failed > 0 {
		return fmt.Errorf("%d record(s) failed", report.Failed)
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// Retries and memory limit stay on the flag structs: zero is meaningful for
// both, so buildServiceOptions reads them through their sentinels instead.
func mergeFlags(flags *generateFlags, cfg *config.Config) {
	// Output flag
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}

	// Batch flags
	if flags.batch.workers > 0 {
		cfg.Batch.Workers = flags.batch.workers
	}
	if len(flags.batch.operations) > 0 {
		cfg.Batch.Operations = flags.batch.operations
	}
	if flags.batch.timeout != "" {
		cfg.Batch.Timeout = flags.batch.timeout
	}

	// Fetch flags
	if flags.fetch.timeout != "" {
		cfg.Fetch.Timeout = flags.fetch.timeout
	}
	if flags.fetch.backoff != "" {
		cfg.Fetch.BackoffBase = flags.fetch.backoff
	}
	if flags.fetch.cacheSize > 0 {
		cfg.Fetch.CacheSize = flags.fetch.cacheSize
	}
	if len(flags.fetch.fallbacks) > 0 {
		cfg.Fetch.Fallbacks = flags.fetch.fallbacks
	}

	// Render flags
	if flags.render.theme != "" {
		cfg.Render.Theme = flags.render.theme
	}
	if flags.render.noQR {
		cfg.Render.DisableQR = true
	}
	if flags.render.timeout != "" {
		cfg.Render.Timeout = flags.render.timeout
	}
	if flags.render.dateFormat != "" {
		cfg.Render.DateFormat = flags.render.dateFormat
	}
	if flags.render.institution != "" {
		cfg.Render.Institution = flags.render.institution
	}
	if flags.render.assetPath != "" {
		cfg.Assets.BasePath = flags.render.assetPath
	}
}

// resolveRosterPath determines the roster path from args or config.
func resolveRosterPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.Roster != "" {
		return cfg.Input.Roster, nil
	}
	return "", ErrNoRoster
}

// resolveOutputDir determines the output directory from config or default.
func resolveOutputDir(cfg *config.Config) string {
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return defaultOutputDir
}

// resolveOperations parses configured operation names, defaulting to all
// known operations when none are named.
func resolveOperations(cfg *config.Config) ([]docmill.Operation, error) {
	if len(cfg.Batch.Operations) == 0 {
		return docmill.Operations(), nil
	}

	ops := make([]docmill.Operation, 0, len(cfg.Batch.Operations))
	for _, name := range cfg.Batch.Operations {
		op, err := docmill.ParseOperation(name)
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForUnknownOperation(operationNames()))
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// operationNames lists known operation names for hint messages.
func operationNames() []string {
	known := docmill.Operations()
	names := make([]string, len(known))
	for i, op := range known {
		names[i] = string(op)
	}
	return names
}

// themeNames lists built-in ID card themes for hint messages.
func themeNames() []string {
	return []string{docmill.ThemeModern, docmill.ThemeClassic, docmill.ThemeMinimal}
}

// validateWorkers checks worker count is in valid range.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", docmill.ErrInvalidWorkers, n)
	}
	if n > docmill.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", docmill.ErrInvalidWorkers, n, docmill.MaxWorkers)
	}
	return nil
}

// buildServiceOptions translates merged config into service options.
func buildServiceOptions(cfg *config.Config, flags *generateFlags) ([]docmill.Option, error) {
	opts := []docmill.Option{
		docmill.WithOutputRoot(resolveOutputDir(cfg)),
	}

	if cfg.Batch.Workers > 0 {
		opts = append(opts, docmill.WithWorkers(cfg.Batch.Workers))
	}
	if cfg.Batch.Timeout != "" {
		d, err := parseConfigDuration("batch timeout", cfg.Batch.Timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, docmill.WithBatchTimeout(d))
	}

	// Explicit zero disables pacing, so the flag wins over config only
	// when the user moved it off the sentinel.
	if flags.batch.memoryLimit != memoryLimitSentinel {
		opts = append(opts, docmill.WithMemoryLimit(flags.batch.memoryLimit))
	} else if cfg.Batch.MemoryLimitMB > 0 {
		opts = append(opts, docmill.WithMemoryLimit(cfg.Batch.MemoryLimitMB))
	}

	policy, err := buildFetchPolicy(cfg, flags)
	if err != nil {
		return nil, err
	}
	opts = append(opts, docmill.WithFetchPolicy(policy))

	if cfg.Fetch.CacheSize > 0 {
		opts = append(opts, docmill.WithCacheSize(cfg.Fetch.CacheSize))
	}
	if len(cfg.Fetch.Fallbacks) > 0 {
		opts = append(opts, docmill.WithFallbackSources(cfg.Fetch.Fallbacks))
	}

	if cfg.Render.Theme != "" {
		opts = append(opts, docmill.WithTheme(cfg.Render.Theme))
	}
	if cfg.Render.DisableQR {
		opts = append(opts, docmill.WithQRCode(false))
	}
	if cfg.Render.Timeout != "" {
		d, err := parseConfigDuration("render timeout", cfg.Render.Timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, docmill.WithRenderTimeout(d))
	}
	if cfg.Render.DateFormat != "" {
		opts = append(opts, docmill.WithDateFormat(cfg.Render.DateFormat))
	}
	if cfg.Render.Institution != "" {
		opts = append(opts, docmill.WithInstitution(cfg.Render.Institution))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, docmill.WithAssetPath(cfg.Assets.BasePath))
	}

	if flags.common.verbose {
		opts = append(opts, docmill.WithLogger(docmill.NewSimpleLogger(docmill.LogLevelDebug)))
	} else if !flags.common.quiet {
		opts = append(opts, docmill.WithLogger(docmill.NewSimpleLogger(docmill.LogLevelWarn)))
	}

	return opts, nil
}

// buildFetchPolicy builds the photo fetch policy from merged config.
func buildFetchPolicy(cfg *config.Config, flags *generateFlags) (docmill.FetchPolicy, error) {
	policy := docmill.DefaultFetchPolicy()

	if cfg.Fetch.Timeout != "" {
		d, err := parseConfigDuration("fetch timeout", cfg.Fetch.Timeout)
		if err != nil {
			return docmill.FetchPolicy{}, err
		}
		policy.Timeout = d
	}
	if cfg.Fetch.BackoffBase != "" {
		d, err := parseConfigDuration("backoff base", cfg.Fetch.BackoffBase)
		if err != nil {
			return docmill.FetchPolicy{}, err
		}
		policy.BackoffBase = d
	}

	// Zero retries is a valid choice (single attempt per source), so the
	// flag sentinel marks "not set".
	if flags.fetch.retries != retrySentinel {
		policy.RetryCount = flags.fetch.retries
	} else if cfg.Fetch.RetryCount > 0 {
		policy.RetryCount = cfg.Fetch.RetryCount
	}

	return policy, nil
}

// parseConfigDuration parses a duration string, naming the field on error.
// Config file values are validated at load time; this catches flag and env
// var values that arrive unchecked through the merge.
func parseConfigDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

// progressPrinter returns a progress callback that streams per-record
// outcomes. Failures always print to stderr; successes respect quiet mode.
func progressPrinter(quiet, verbose bool, env *Environment) docmill.ProgressFunc {
	return func(ev docmill.ProgressEvent) {
		r := ev.Last
		if r.Failed() {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.RecordID, r.Err)
			return
		}

		if quiet {
			return
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "[%d/%d] %s -> %s (%v)\n",
				ev.Completed, ev.Total, r.RecordID,
				strings.Join(r.Artifacts, ", "), r.Duration.Round(time.Millisecond))
			return
		}

		for _, artifact := range r.Artifacts {
			fmt.Fprintf(env.Stdout, "Created %s\n", artifact)
		}
	}
}

// printReport prints the batch summary and any environment hints.
func printReport(report *docmill.BatchReport, quiet bool, env *Environment) {
	total := report.Succeeded + report.Failed + report.NotAttempted

	if !quiet && total > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", report.Succeeded, report.Failed)
	}

	if report.NotAttempted > 0 {
		fmt.Fprintf(env.Stderr, "%d record(s) not attempted (canceled or timed out)%s\n",
			report.NotAttempted, hints.ForTimeout())
	}

	browserFailures := 0
	for _, jobErr := range report.Errors {
		if errors.Is(jobErr.Err, docmill.ErrBrowserConnect) {
			browserFailures++
		}
	}
	if browserFailures > 0 {
		fmt.Fprintf(env.Stderr, "%d record(s) could not reach the browser%s\n",
			browserFailures, hints.ForBrowserConnect())
	}
}
