package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-docmill/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // DOCMILL_CONFIG: config file path
	Roster     string // DOCMILL_ROSTER: roster JSON path
	OutputDir  string // DOCMILL_OUTPUT_DIR: output directory

	// Tier 2 - Batch shape
	Workers       int    // DOCMILL_WORKERS: parallel workers
	BatchTimeout  string // DOCMILL_BATCH_TIMEOUT: whole-batch timeout
	MemoryLimitMB int    // DOCMILL_MEMORY_LIMIT_MB: pacing ceiling (positive only)

	// Tier 3 - Rendering identity
	Theme        string // DOCMILL_THEME: ID card theme
	Institution  string // DOCMILL_INSTITUTION: institution name
	DateFormat   string // DOCMILL_DATE_FORMAT: issue date format
	AssetPath    string // DOCMILL_ASSET_PATH: custom asset directory
	FetchTimeout string // DOCMILL_FETCH_TIMEOUT: per-attempt fetch timeout
}

// knownEnvVars lists valid DOCMILL_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"DOCMILL_CONFIG":     true,
	"DOCMILL_ROSTER":     true,
	"DOCMILL_OUTPUT_DIR": true,
	// Tier 2 - Batch shape
	"DOCMILL_WORKERS":         true,
	"DOCMILL_BATCH_TIMEOUT":   true,
	"DOCMILL_MEMORY_LIMIT_MB": true,
	// Tier 3 - Rendering identity
	"DOCMILL_THEME":         true,
	"DOCMILL_INSTITUTION":   true,
	"DOCMILL_DATE_FORMAT":   true,
	"DOCMILL_ASSET_PATH":    true,
	"DOCMILL_FETCH_TIMEOUT": true,
	// Recognized but consumed elsewhere
	"DOCMILL_CONTAINER": true, // container detection override (doctor)
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized DOCMILL_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("DOCMILL_CONFIG"),
		Roster:     os.Getenv("DOCMILL_ROSTER"),
		OutputDir:  os.Getenv("DOCMILL_OUTPUT_DIR"),
		// Tier 2
		BatchTimeout: os.Getenv("DOCMILL_BATCH_TIMEOUT"),
		// Tier 3
		Theme:        os.Getenv("DOCMILL_THEME"),
		Institution:  os.Getenv("DOCMILL_INSTITUTION"),
		DateFormat:   os.Getenv("DOCMILL_DATE_FORMAT"),
		AssetPath:    os.Getenv("DOCMILL_ASSET_PATH"),
		FetchTimeout: os.Getenv("DOCMILL_FETCH_TIMEOUT"),
	}

	// Parse int for workers
	if workers := os.Getenv("DOCMILL_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	// Parse int for memory limit. Only positive ceilings apply here;
	// disabling pacing is the flag's job (--memory-limit 0).
	if limit := os.Getenv("DOCMILL_MEMORY_LIMIT_MB"); limit != "" {
		if mb, err := strconv.Atoi(limit); err == nil && mb > 0 {
			cfg.MemoryLimitMB = mb
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DOCMILL_* variables.
// Helps catch typos like DOCMILL_THEMES instead of DOCMILL_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DOCMILL_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - I/O
	if env.Roster != "" && cfg.Input.Roster == "" {
		cfg.Input.Roster = env.Roster
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}

	// Tier 2 - Batch shape
	if env.Workers > 0 && cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = env.Workers
	}
	if env.BatchTimeout != "" && cfg.Batch.Timeout == "" {
		cfg.Batch.Timeout = env.BatchTimeout
	}
	if env.MemoryLimitMB > 0 && cfg.Batch.MemoryLimitMB == 0 {
		cfg.Batch.MemoryLimitMB = env.MemoryLimitMB
	}

	// Tier 3 - Rendering identity
	if env.Theme != "" && cfg.Render.Theme == "" {
		cfg.Render.Theme = env.Theme
	}
	if env.Institution != "" && cfg.Render.Institution == "" {
		cfg.Render.Institution = env.Institution
	}
	if env.DateFormat != "" && cfg.Render.DateFormat == "" {
		cfg.Render.DateFormat = env.DateFormat
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.FetchTimeout != "" && cfg.Fetch.Timeout == "" {
		cfg.Fetch.Timeout = env.FetchTimeout
	}
}
