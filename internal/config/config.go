package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docmill/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
)

// Field length limits for multi-tenant safety.
const (
	MaxInstitutionLength = 100  // Institution name on documents
	MaxThemeLength       = 20   // "modern", "classic", "minimal"
	MaxDateFormatLength  = 50   // Matches dateutil's format cap
	MaxOperationLength   = 20   // "receipt", "id_card"
	MaxDurationLength    = 30   // "30s", "1h30m"
	MaxPathLength        = 4096 // Filesystem limit
	MaxURLLength         = 2048 // Browser limit
)

// Numeric sanity ceilings. The service applies its own tighter clamps; these
// only reject obviously broken config files.
const (
	MaxWorkersLimit    = 64
	MaxRetryCountLimit = 100
	MaxCacheSizeLimit  = 100000
	MaxMemoryLimitMB   = 1 << 20 // 1 TiB
)

// Config holds all configuration for batch document generation.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Batch  BatchConfig  `yaml:"batch"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Render RenderConfig `yaml:"render"`
	Assets AssetsConfig `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	Roster string `yaml:"roster"` // Default roster JSON path (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Output root (empty = ./output)
}

// BatchConfig defines batch execution options.
type BatchConfig struct {
	Workers       int      `yaml:"workers"`       // 0 = resolve from CPU count
	Operations    []string `yaml:"operations"`    // Documents per record (default: receipt, id_card)
	Timeout       string   `yaml:"timeout"`       // Whole-batch bound, e.g. "10m" (empty = unbounded)
	MemoryLimitMB int      `yaml:"memoryLimitMB"` // Dispatch pacing ceiling (0 = default)
}

// FetchConfig defines photo fetching options.
type FetchConfig struct {
	Timeout     string   `yaml:"timeout"`     // Per-attempt bound, e.g. "30s"
	RetryCount  int      `yaml:"retryCount"`  // Retries after the first attempt
	BackoffBase string   `yaml:"backoffBase"` // Linear backoff step, e.g. "500ms"
	CacheSize   int      `yaml:"cacheSize"`   // LRU entries (0 = default)
	Fallbacks   []string `yaml:"fallbacks"`   // Fallback photo URLs, tried in order
}

// RenderConfig defines document rendering options.
type RenderConfig struct {
	Theme       string `yaml:"theme"`       // ID card theme (default: modern)
	DisableQR   bool   `yaml:"disableQR"`   // Drop the ID card verification QR code
	Timeout     string `yaml:"timeout"`     // Per-render bound, e.g. "30s"
	DateFormat  string `yaml:"dateFormat"`  // Issue-date format tokens or preset name
	Institution string `yaml:"institution"` // Name printed on documents
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and ranges to prevent abuse in multi-tenant
// scenarios. Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	// Validate paths
	if err := validateFieldLength("input.roster", c.Input.Roster, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Validate batch fields
	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkersLimit {
		return fmt.Errorf("%w: batch.workers must be 0-%d, got %d", ErrFieldRange, MaxWorkersLimit, c.Batch.Workers)
	}
	if c.Batch.MemoryLimitMB < 0 || c.Batch.MemoryLimitMB > MaxMemoryLimitMB {
		return fmt.Errorf("%w: batch.memoryLimitMB must be 0-%d, got %d", ErrFieldRange, MaxMemoryLimitMB, c.Batch.MemoryLimitMB)
	}
	for i, op := range c.Batch.Operations {
		if err := validateFieldLength(fmt.Sprintf("batch.operations[%d]", i), op, MaxOperationLength); err != nil {
			return err
		}
	}
	if err := validateDuration("batch.timeout", c.Batch.Timeout); err != nil {
		return err
	}

	// Validate fetch fields
	if c.Fetch.RetryCount < 0 || c.Fetch.RetryCount > MaxRetryCountLimit {
		return fmt.Errorf("%w: fetch.retryCount must be 0-%d, got %d", ErrFieldRange, MaxRetryCountLimit, c.Fetch.RetryCount)
	}
	if c.Fetch.CacheSize < 0 || c.Fetch.CacheSize > MaxCacheSizeLimit {
		return fmt.Errorf("%w: fetch.cacheSize must be 0-%d, got %d", ErrFieldRange, MaxCacheSizeLimit, c.Fetch.CacheSize)
	}
	if err := validateDuration("fetch.timeout", c.Fetch.Timeout); err != nil {
		return err
	}
	if err := validateDuration("fetch.backoffBase", c.Fetch.BackoffBase); err != nil {
		return err
	}
	for i, url := range c.Fetch.Fallbacks {
		if err := validateFieldLength(fmt.Sprintf("fetch.fallbacks[%d]", i), url, MaxURLLength); err != nil {
			return err
		}
	}

	// Validate render fields
	if err := validateFieldLength("render.theme", c.Render.Theme, MaxThemeLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.dateFormat", c.Render.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.institution", c.Render.Institution, MaxInstitutionLength); err != nil {
		return err
	}
	if err := validateDuration("render.timeout", c.Render.Timeout); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration checks that a non-empty duration string parses and is not
// negative. Empty means "use the default" and is always valid.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if len(value) > MaxDurationLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), MaxDurationLength)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", fieldName, value)
	}
	if d < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %s", ErrFieldRange, fieldName, value)
	}
	return nil
}

// DefaultConfig returns a neutral configuration; the CLI layers its own
// defaults on top of zero values.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Roster: ""},
		Output: OutputConfig{Dir: ""},
		Batch:  BatchConfig{},
		Fetch:  FetchConfig{},
		Render: RenderConfig{},
		Assets: AssetsConfig{BasePath: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-docmill/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-docmill", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
