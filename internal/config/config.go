// Package config provides configuration loading and validation for the report CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/layout"
)

// Environment variables read by ApplyEnv.
const (
	EnvAssetRoots  = "REPORT_ASSET_ROOTS"
	EnvCatalog     = "REPORT_CATALOG"
	EnvLogMode     = "REPORT_LOG_MODE"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Assets
	AssetRoots  []string `json:"asset_roots,omitempty" yaml:"asset_roots,omitempty"`   // Icon search roots, in probe order
	CatalogPath string   `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"` // Profile catalog YAML; empty uses the built-in catalog

	// Page geometry
	PageSize     string          `json:"page_size,omitempty" yaml:"page_size,omitempty" validate:"omitempty,oneof=letter a4"`
	Margins      *layout.Margins `json:"margins,omitempty" yaml:"margins,omitempty"`
	FooterHeight float64         `json:"footer_height,omitempty" yaml:"footer_height,omitempty" validate:"gte=0"`

	// Statistical comparison averages
	Baseline *analytics.Baseline `json:"baseline,omitempty" yaml:"baseline,omitempty"`

	// Behavior
	LogMode     string `json:"log_mode,omitempty" yaml:"log_mode,omitempty" validate:"omitempty,oneof=dev prod"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0,lte=64"`
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		AssetRoots:   []string{filepath.Join("uploads", "icons"), filepath.Join("assets", "icons")},
		PageSize:     "letter",
		FooterHeight: layout.Letter.FooterHeight,
		LogMode:      "dev",
		Concurrency:  4,
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml are read
// as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if m := c.Margins; m != nil {
		if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
			return fmt.Errorf("config error: 'margins' must be non-negative")
		}
	}
	spec := c.PageSpec()
	if spec.PrintableHeight() <= 0 || spec.ContentWidth() <= 0 {
		return fmt.Errorf("config error: margins and footer leave no printable area")
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.AssetRoots) == 0 {
		result.AssetRoots = defaults.AssetRoots
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.PageSize == "" {
		result.PageSize = defaults.PageSize
	}
	if result.Margins == nil {
		result.Margins = defaults.Margins
	}
	if result.FooterHeight == 0 {
		result.FooterHeight = defaults.FooterHeight
	}
	if result.Baseline == nil {
		result.Baseline = defaults.Baseline
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bools cannot distinguish unset from false; CLI flags win.

	return result
}

// ApplyEnv overrides fields from environment variables that are set and non-empty.
// REPORT_ASSET_ROOTS is an OS path list.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get(EnvAssetRoots); ok {
		c.AssetRoots = filepath.SplitList(v)
	}
	if v, ok := get(EnvCatalog); ok {
		c.CatalogPath = v
	}
	if v, ok := get(EnvLogMode); ok {
		c.LogMode = v
	}
	if v, ok := get(EnvDatabaseURL); ok {
		c.DatabaseURL = v
	}
}

// PageSpec converts the page settings into layout geometry.
func (c *Config) PageSpec() layout.PageSpec {
	spec := layout.Letter
	if strings.EqualFold(c.PageSize, "a4") {
		spec = layout.A4
	}
	if c.Margins != nil {
		spec.Margins = *c.Margins
	}
	if c.FooterHeight > 0 {
		spec.FooterHeight = c.FooterHeight
	}
	return spec
}

// BaselineOrDefault returns the configured averages or the built-in ones.
func (c *Config) BaselineOrDefault() analytics.Baseline {
	if c.Baseline == nil {
		return analytics.DefaultBaseline()
	}
	return *c.Baseline
}
