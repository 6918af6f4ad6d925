package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
extractor:
  api_key: sk-test
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "app-id", cfg.Ebay.ClientID)
				assert.Equal(t, "cert-id", cfg.Ebay.ClientSecret)
				assert.Equal(t, "sk-test", cfg.Extractor.APIKey)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
extractor:
  api_key: sk-test
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "EBAY_GB", cfg.Ebay.Marketplace)
				assert.Equal(t, 10, cfg.Ebay.SearchLimit)
				assert.Equal(t, 5.0, cfg.Ebay.RateLimit.PerSecond)
				assert.Equal(t, int64(5000), cfg.Ebay.RateLimit.DailyLimit)
				assert.Equal(t, "GBP", cfg.Currency.Base)
				assert.Equal(t, time.Hour, cfg.Currency.CacheTTL)
				assert.Equal(t, "gpt-5-mini", cfg.Extractor.TextModel)
				assert.Equal(t, "gpt-5", cfg.Extractor.ImageModel)
				assert.Equal(t, 0.65, cfg.Pricing.BelowMultiplier)
				assert.Equal(t, 8, cfg.Pricing.MinWorkingSet)
				assert.Equal(t, "./data", cfg.Store.Dir)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "environment variable substitution",
			yaml: `
ebay:
  client_id: app-id
  client_secret: ${TEST_EBAY_SECRET}
extractor:
  api_key: ${TEST_OPENAI_KEY}
`,
			envVars: map[string]string{
				"TEST_EBAY_SECRET": "secret-from-env",
				"TEST_OPENAI_KEY":  "sk-from-env",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret-from-env", cfg.Ebay.ClientSecret)
				assert.Equal(t, "sk-from-env", cfg.Extractor.APIKey)
			},
		},
		{
			name: "pricing overrides",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
extractor:
  api_key: sk-test
pricing:
  cheapness_aggression: 2
  below_multiplier: 0.8
  standardize_strength: 25
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 2, cfg.Pricing.CheapnessAggression)
				assert.Equal(t, 0.8, cfg.Pricing.BelowMultiplier)
				assert.Equal(t, 25.0, cfg.Pricing.StandardizeStrength)
				// Untouched fields still get defaults.
				assert.Equal(t, 6, cfg.Pricing.RichSetMin)
			},
		},
		{
			name: "missing ebay credentials",
			yaml: `
extractor:
  api_key: sk-test
`,
			wantErr: "ebay.client_id is required",
		},
		{
			name: "missing extractor key",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
`,
			wantErr: "extractor.api_key is required",
		},
		{
			name: "below multiplier out of range",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
extractor:
  api_key: sk-test
pricing:
  below_multiplier: 1.5
`,
			wantErr: "pricing.below_multiplier must be between 0 and 1",
		},
		{
			name: "invalid logging level",
			yaml: `
ebay:
  client_id: app-id
  client_secret: cert-id
extractor:
  api_key: sk-test
logging:
  level: loud
`,
			wantErr: "logging.level must be one of",
		},
		{
			name:    "invalid yaml",
			yaml:    "ebay: [unclosed",
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}
