package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Extraction.validate(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Currency.validate(); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	if err := c.Supplier.validate(); err != nil {
		return fmt.Errorf("supplier: %w", err)
	}
	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Intake.MaxUploadBytes <= 0 {
		return fmt.Errorf("intake: max_upload_bytes must be > 0 (got %d)", c.Intake.MaxUploadBytes)
	}
	if c.RateLimit.UploadsPerMinute <= 0 {
		return fmt.Errorf("rate_limit: uploads_per_minute must be > 0 (got %d)", c.RateLimit.UploadsPerMinute)
	}

	return nil
}

func (e *ExtractionConfig) validate() error {
	if e.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", e.Timeout)
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", e.MaxRetries)
	}
	if e.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0 (got %s)", e.RetryDelay)
	}
	return nil
}

func (c *CurrencyConfig) validate() error {
	c.Canonical = strings.ToUpper(strings.TrimSpace(c.Canonical))
	c.Pivot = strings.ToUpper(strings.TrimSpace(c.Pivot))
	if c.Canonical == "" || c.Pivot == "" {
		return fmt.Errorf("canonical and pivot are required")
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be > 0 (got %d)", c.HistoryDays)
	}

	rates, err := ParseRateTable(c.FallbackRaw)
	if err != nil {
		return fmt.Errorf("fallback_rates: %w", err)
	}
	if _, ok := rates[c.Pivot]; !ok {
		return fmt.Errorf("fallback_rates must include pivot %s", c.Pivot)
	}
	if _, ok := rates[c.Canonical]; !ok {
		return fmt.Errorf("fallback_rates must include canonical %s", c.Canonical)
	}
	c.FallbackRates = rates

	return nil
}

func (s *SupplierConfig) validate() error {
	if s.WarnThreshold <= 0 || s.WarnThreshold > 1 {
		return fmt.Errorf("warn_threshold must be in (0, 1] (got %v)", s.WarnThreshold)
	}
	if s.BlockThreshold < s.WarnThreshold || s.BlockThreshold > 1 {
		return fmt.Errorf("block_threshold must be in [warn_threshold, 1] (got %v)", s.BlockThreshold)
	}
	if s.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be > 0 (got %d)", s.MaxCandidates)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch strings.ToLower(s.Driver) {
	case "local":
		if strings.TrimSpace(s.LocalRoot) == "" {
			return fmt.Errorf("local_root is required for the local driver")
		}
	case "gcs":
		if strings.TrimSpace(s.GCSBucket) == "" {
			return fmt.Errorf("gcs_bucket is required for the gcs driver")
		}
	default:
		return fmt.Errorf("unknown driver %q (want local or gcs)", s.Driver)
	}
	return nil
}

// ParseRateTable parses "USD:1.0,INR:83.50" into a currency→rate map.
// Codes are upper-cased; rates must be positive.
func ParseRateTable(raw string) (map[string]decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty rate table")
	}

	rates := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q (want CODE:rate)", pair)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be > 0", code)
		}
		rates[code] = rate
	}

	return rates, nil
}
