package main

// Notes:
// - These tests modify DOCMILL_* environment variables and cannot run in
//   parallel with each other.
// - Precedence (CLI flags > env vars > config file > defaults) is enforced
//   jointly by applyEnvConfig and mergeFlags; only the env var half is
//   tested here.

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/alnah/go-docmill/internal/config"
)

func TestLoadEnvConfig_Tier1(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	os.Setenv("DOCMILL_CONFIG", "./docmill.yaml")
	os.Setenv("DOCMILL_ROSTER", "./students.json")
	os.Setenv("DOCMILL_OUTPUT_DIR", "./out")
	defer func() {
		os.Unsetenv("DOCMILL_CONFIG")
		os.Unsetenv("DOCMILL_ROSTER")
		os.Unsetenv("DOCMILL_OUTPUT_DIR")
	}()

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "./docmill.yaml" {
		t.Errorf("ConfigPath = %q, want ./docmill.yaml", cfg.ConfigPath)
	}
	if cfg.Roster != "./students.json" {
		t.Errorf("Roster = %q, want ./students.json", cfg.Roster)
	}
	if cfg.OutputDir != "./out" {
		t.Errorf("OutputDir = %q, want ./out", cfg.OutputDir)
	}
}

func TestLoadEnvConfig_Tier2(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	os.Setenv("DOCMILL_WORKERS", "4")
	os.Setenv("DOCMILL_BATCH_TIMEOUT", "10m")
	os.Setenv("DOCMILL_MEMORY_LIMIT_MB", "256")
	defer func() {
		os.Unsetenv("DOCMILL_WORKERS")
		os.Unsetenv("DOCMILL_BATCH_TIMEOUT")
		os.Unsetenv("DOCMILL_MEMORY_LIMIT_MB")
	}()

	cfg := loadEnvConfig()

	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.BatchTimeout != "10m" {
		t.Errorf("BatchTimeout = %q, want 10m", cfg.BatchTimeout)
	}
	if cfg.MemoryLimitMB != 256 {
		t.Errorf("MemoryLimitMB = %d, want 256", cfg.MemoryLimitMB)
	}
}

func TestLoadEnvConfig_Tier3(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	os.Setenv("DOCMILL_THEME", "classic")
	os.Setenv("DOCMILL_INSTITUTION", "Pacific Language School")
	os.Setenv("DOCMILL_DATE_FORMAT", "european")
	os.Setenv("DOCMILL_ASSET_PATH", "./assets")
	os.Setenv("DOCMILL_FETCH_TIMEOUT", "15s")
	defer func() {
		os.Unsetenv("DOCMILL_THEME")
		os.Unsetenv("DOCMILL_INSTITUTION")
		os.Unsetenv("DOCMILL_DATE_FORMAT")
		os.Unsetenv("DOCMILL_ASSET_PATH")
		os.Unsetenv("DOCMILL_FETCH_TIMEOUT")
	}()

	cfg := loadEnvConfig()

	if cfg.Theme != "classic" {
		t.Errorf("Theme = %q, want classic", cfg.Theme)
	}
	if cfg.Institution != "Pacific Language School" {
		t.Errorf("Institution = %q, want Pacific Language School", cfg.Institution)
	}
	if cfg.DateFormat != "european" {
		t.Errorf("DateFormat = %q, want european", cfg.DateFormat)
	}
	if cfg.AssetPath != "./assets" {
		t.Errorf("AssetPath = %q, want ./assets", cfg.AssetPath)
	}
	if cfg.FetchTimeout != "15s" {
		t.Errorf("FetchTimeout = %q, want 15s", cfg.FetchTimeout)
	}
}

func TestLoadEnvConfig_IgnoresInvalidNumbers(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	tests := []struct {
		name   string
		envVar string
		envVal string
	}{
		{"workers not a number", "DOCMILL_WORKERS", "many"},
		{"workers negative", "DOCMILL_WORKERS", "-3"},
		{"workers zero", "DOCMILL_WORKERS", "0"},
		{"memory limit not a number", "DOCMILL_MEMORY_LIMIT_MB", "lots"},
		{"memory limit negative", "DOCMILL_MEMORY_LIMIT_MB", "-1"},
		{"memory limit zero", "DOCMILL_MEMORY_LIMIT_MB", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envVar, tt.envVal)
			defer os.Unsetenv(tt.envVar)

			cfg := loadEnvConfig()

			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0 (ignored)", cfg.Workers)
			}
			if cfg.MemoryLimitMB != 0 {
				t.Errorf("MemoryLimitMB = %d, want 0 (ignored)", cfg.MemoryLimitMB)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	t.Run("warns about typos", func(t *testing.T) {
		os.Setenv("DOCMILL_THEMES", "classic")
		defer os.Unsetenv("DOCMILL_THEMES")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		output := buf.String()
		if !strings.Contains(output, "DOCMILL_THEMES") {
			t.Errorf("output = %q, want warning about DOCMILL_THEMES", output)
		}
		if !strings.Contains(output, "typo?") {
			t.Errorf("output = %q, want typo nudge", output)
		}
	})

	t.Run("known vars are silent", func(t *testing.T) {
		os.Setenv("DOCMILL_THEME", "classic")
		os.Setenv("DOCMILL_CONTAINER", "1")
		defer func() {
			os.Unsetenv("DOCMILL_THEME")
			os.Unsetenv("DOCMILL_CONTAINER")
		}()

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if buf.Len() != 0 {
			t.Errorf("output = %q, want silence for known vars", buf.String())
		}
	})
}

// Every variable loadEnvConfig reads must be registered as known, or
// setting it would trigger its own typo warning.
func TestKnownEnvVars_CoversLoadedVars(t *testing.T) {
	t.Parallel()

	loaded := []string{
		"DOCMILL_CONFIG",
		"DOCMILL_ROSTER",
		"DOCMILL_OUTPUT_DIR",
		"DOCMILL_WORKERS",
		"DOCMILL_BATCH_TIMEOUT",
		"DOCMILL_MEMORY_LIMIT_MB",
		"DOCMILL_THEME",
		"DOCMILL_INSTITUTION",
		"DOCMILL_DATE_FORMAT",
		"DOCMILL_ASSET_PATH",
		"DOCMILL_FETCH_TIMEOUT",
	}

	for _, name := range loaded {
		if !knownEnvVars[name] {
			t.Errorf("%s is read by loadEnvConfig but missing from knownEnvVars", name)
		}
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills empty config slots", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Roster:        "./students.json",
			OutputDir:     "./out",
			Workers:       4,
			BatchTimeout:  "10m",
			MemoryLimitMB: 256,
			Theme:         "classic",
			Institution:   "Pacific Language School",
			DateFormat:    "european",
			AssetPath:     "./assets",
			FetchTimeout:  "15s",
		}
		cfg := &config.Config{}

		applyEnvConfig(env, cfg)

		if cfg.Input.Roster != "./students.json" {
			t.Errorf("Input.Roster = %q, want env value", cfg.Input.Roster)
		}
		if cfg.Output.Dir != "./out" {
			t.Errorf("Output.Dir = %q, want env value", cfg.Output.Dir)
		}
		if cfg.Batch.Workers != 4 {
			t.Errorf("Batch.Workers = %d, want 4", cfg.Batch.Workers)
		}
		if cfg.Batch.Timeout != "10m" {
			t.Errorf("Batch.Timeout = %q, want 10m", cfg.Batch.Timeout)
		}
		if cfg.Batch.MemoryLimitMB != 256 {
			t.Errorf("Batch.MemoryLimitMB = %d, want 256", cfg.Batch.MemoryLimitMB)
		}
		if cfg.Render.Theme != "classic" {
			t.Errorf("Render.Theme = %q, want classic", cfg.Render.Theme)
		}
		if cfg.Render.Institution != "Pacific Language School" {
			t.Errorf("Render.Institution = %q, want env value", cfg.Render.Institution)
		}
		if cfg.Render.DateFormat != "european" {
			t.Errorf("Render.DateFormat = %q, want european", cfg.Render.DateFormat)
		}
		if cfg.Assets.BasePath != "./assets" {
			t.Errorf("Assets.BasePath = %q, want ./assets", cfg.Assets.BasePath)
		}
		if cfg.Fetch.Timeout != "15s" {
			t.Errorf("Fetch.Timeout = %q, want 15s", cfg.Fetch.Timeout)
		}
	})

	t.Run("config file values win over env vars", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Roster:        "./env.json",
			OutputDir:     "./env-out",
			Workers:       4,
			MemoryLimitMB: 256,
			Theme:         "classic",
		}
		cfg := &config.Config{
			Input:  config.InputConfig{Roster: "./file.json"},
			Output: config.OutputConfig{Dir: "./file-out"},
			Batch:  config.BatchConfig{Workers: 2, MemoryLimitMB: 512},
			Render: config.RenderConfig{Theme: "minimal"},
		}

		applyEnvConfig(env, cfg)

		if cfg.Input.Roster != "./file.json" {
			t.Errorf("Input.Roster = %q, config value should win", cfg.Input.Roster)
		}
		if cfg.Output.Dir != "./file-out" {
			t.Errorf("Output.Dir = %q, config value should win", cfg.Output.Dir)
		}
		if cfg.Batch.Workers != 2 {
			t.Errorf("Batch.Workers = %d, config value should win", cfg.Batch.Workers)
		}
		if cfg.Batch.MemoryLimitMB != 512 {
			t.Errorf("Batch.MemoryLimitMB = %d, config value should win", cfg.Batch.MemoryLimitMB)
		}
		if cfg.Render.Theme != "minimal" {
			t.Errorf("Render.Theme = %q, config value should win", cfg.Render.Theme)
		}
	})

	t.Run("empty env leaves config untouched", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{}
		cfg := &config.Config{
			Input: config.InputConfig{Roster: "./file.json"},
			Batch: config.BatchConfig{Workers: 2},
		}

		applyEnvConfig(env, cfg)

		if cfg.Input.Roster != "./file.json" {
			t.Errorf("Input.Roster = %q, want unchanged", cfg.Input.Roster)
		}
		if cfg.Batch.Workers != 2 {
			t.Errorf("Batch.Workers = %d, want unchanged", cfg.Batch.Workers)
		}
	})
}
