package announcement

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSiteURL     = "https://www.binance.com"
	DefaultCatalogID   = 48
	DefaultPageNo      = 1
	DefaultPageSize    = 20
	DefaultMaxArticles = 3
	DefaultLocale      = "zh-TC"
)

// SourceConfig describes the announcement catalog being watched.
type SourceConfig struct {
	Name        string         `yaml:"name"`
	SiteURL     string         `yaml:"site_url"`
	CatalogID   int            `yaml:"catalog_id"`
	PageNo      int            `yaml:"page_no"`
	PageSize    int            `yaml:"page_size"`
	MaxArticles int            `yaml:"max_articles"`
	Lookahead   int            `yaml:"lookahead"`
	Locale      string         `yaml:"locale"`
	Timezone    string         `yaml:"timezone"`
	Filters     []ConfigFilter `yaml:"filters"`

	location *time.Location
}

type ConfigFilter struct {
	Field         string   `yaml:"field"`
	Includes      []string `yaml:"includes"`
	Excludes      []string `yaml:"excludes"`
	CaseSensitive bool     `yaml:"case_sensitive"`
}

// DefaultSourceConfig watches the Binance futures catalog for titles mentioning "Futures".
func DefaultSourceConfig() *SourceConfig {
	sourceConfig := newSourceConfig()
	sourceConfig.Name = "binance-futures"
	sourceConfig.Filters = []ConfigFilter{
		{Field: "title", Includes: []string{"Futures"}, CaseSensitive: true},
	}
	setDefaults(sourceConfig)
	sourceConfig.location = DefaultLocation()
	return sourceConfig
}

// LoadSourceConfig reads a YAML source description. An empty path yields
// DefaultSourceConfig.
func LoadSourceConfig(path string) (*SourceConfig, error) {
	if path == "" {
		return DefaultSourceConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	sourceConfig := newSourceConfig()
	if err := yaml.Unmarshal(data, sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sourceConfig.Name == "" {
		base := filepath.Base(path)
		sourceConfig.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	setDefaults(sourceConfig)

	if err := validateSourceConfig(sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Source configuration loaded", "source", sourceConfig.Name, "catalog_id", sourceConfig.CatalogID, "filters", len(sourceConfig.Filters))

	return sourceConfig, nil
}

// Location is the zone used for local-time renderings.
func (s *SourceConfig) Location() *time.Location {
	if s.location == nil {
		return DefaultLocation()
	}
	return s.location
}

// newSourceConfig presets the numeric defaults before decoding, so keys absent
// from the YAML keep them while an explicit 0 reaches validation.
func newSourceConfig() *SourceConfig {
	return &SourceConfig{
		CatalogID:   DefaultCatalogID,
		PageNo:      DefaultPageNo,
		PageSize:    DefaultPageSize,
		MaxArticles: DefaultMaxArticles,
		Lookahead:   DefaultLookahead,
	}
}

func setDefaults(s *SourceConfig) {
	if s.SiteURL == "" {
		s.SiteURL = DefaultSiteURL
	}
	if s.Locale == "" {
		s.Locale = DefaultLocale
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
}

func validateSourceConfig(s *SourceConfig) error {
	positiveFields := map[string]int{
		"catalog id":   s.CatalogID,
		"page no":      s.PageNo,
		"page size":    s.PageSize,
		"max articles": s.MaxArticles,
		"lookahead":    s.Lookahead,
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	if _, err := language.Parse(s.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", s.Locale, err)
	}

	if s.Timezone == DefaultTimezone {
		s.location = DefaultLocation()
	} else {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
		s.location = loc
	}

	validFields := map[string]bool{
		"title": true,
		"code":  true,
	}

	for i, filter := range s.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
