// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yusefshaaban/Ecommerce-Companion/pkg/pricing"
)

// Config is the top-level application configuration.
type Config struct {
	Ebay      EbayConfig      `yaml:"ebay"`
	Currency  CurrencyConfig  `yaml:"currency"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Pricing   pricing.Config  `yaml:"pricing"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	Marketplace  string          `yaml:"marketplace"`
	SearchLimit  int             `yaml:"search_limit"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// CurrencyConfig defines exchange-rate settings. Candidate prices are
// converted into the base currency before any pricing.
type CurrencyConfig struct {
	Base     string        `yaml:"base"`
	APIURL   string        `yaml:"api_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ExtractorConfig defines the OpenAI item-extraction settings.
type ExtractorConfig struct {
	APIKey     string `yaml:"api_key"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

// StoreConfig defines where appraised lots and reports are kept.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyEbayDefaults(&cfg.Ebay)
	applyCurrencyDefaults(&cfg.Currency)
	applyExtractorDefaults(&cfg.Extractor)
	applyPricingDefaults(&cfg.Pricing)
	applyStoreDefaults(&cfg.Store)
	applyLoggingDefaults(&cfg.Logging)
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_GB"
	}
	if e.SearchLimit == 0 {
		e.SearchLimit = 10
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyCurrencyDefaults(c *CurrencyConfig) {
	if c.Base == "" {
		c.Base = "GBP"
	}
	if c.APIURL == "" {
		c.APIURL = "https://api.frankfurter.app"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
}

func applyExtractorDefaults(e *ExtractorConfig) {
	if e.TextModel == "" {
		e.TextModel = "gpt-5-mini"
	}
	if e.ImageModel == "" {
		e.ImageModel = "gpt-5"
	}
}

func applyPricingDefaults(p *pricing.Config) {
	def := pricing.DefaultConfig()
	if p.CheapnessAggression == 0 {
		p.CheapnessAggression = def.CheapnessAggression
	}
	if p.BelowMultiplier == 0 {
		p.BelowMultiplier = def.BelowMultiplier
	}
	if p.MinWorkingSet == 0 {
		p.MinWorkingSet = def.MinWorkingSet
	}
	if p.StandardizeStrength == 0 {
		p.StandardizeStrength = def.StandardizeStrength
	}
	if p.RichSetMin == 0 {
		p.RichSetMin = def.RichSetMin
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Dir == "" {
		s.Dir = "./data"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Ebay.ClientID == "" {
		errs = append(errs, fmt.Errorf("ebay.client_id is required"))
	}
	if cfg.Ebay.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("ebay.client_secret is required"))
	}
	if cfg.Extractor.APIKey == "" {
		errs = append(errs, fmt.Errorf("extractor.api_key is required"))
	}

	if cfg.Pricing.BelowMultiplier < 0 || cfg.Pricing.BelowMultiplier > 1 {
		errs = append(errs, fmt.Errorf(
			"pricing.below_multiplier must be between 0 and 1 (got %v)",
			cfg.Pricing.BelowMultiplier,
		))
	}
	if cfg.Pricing.StandardizeStrength < 0 || cfg.Pricing.StandardizeStrength > 100 {
		errs = append(errs, fmt.Errorf(
			"pricing.standardize_strength must be between 0 and 100 (got %v)",
			cfg.Pricing.StandardizeStrength,
		))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)",
			cfg.Logging.Level,
		))
	}

	return errors.Join(errs...)
}
