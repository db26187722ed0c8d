package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Currency   CurrencyConfig   `yaml:"currency"`
	Supplier   SupplierConfig   `yaml:"supplier"`
	Intake     IntakeConfig     `yaml:"intake"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds settings for verifying caller identity tokens.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"ledgerlens"`
	AccessTTL time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig bounds upload throughput per client address.
type RateLimitConfig struct {
	UploadsPerMinute int           `yaml:"uploads_per_minute" env:"RATE_LIMIT_UPLOADS_PER_MINUTE" env-default:"30"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"   env:"RATE_LIMIT_CLEANUP_INTERVAL"   env-default:"5m"`
}

// ExtractionConfig selects and tunes the document extractor.
type ExtractionConfig struct {
	Processor  string        `yaml:"processor"   env:"EXTRACTION_PROCESSOR"   env-default:"anthropic"`
	Fallback   string        `yaml:"fallback"    env:"EXTRACTION_FALLBACK"    env-default:"mock"`
	APIKey     string        `yaml:"api_key"     env:"EXTRACTION_API_KEY"`
	Model      string        `yaml:"model"       env:"EXTRACTION_MODEL"       env-default:"claude-sonnet-4-5"`
	MaxTokens  int64         `yaml:"max_tokens"  env:"EXTRACTION_MAX_TOKENS"  env-default:"4096"`
	Timeout    time.Duration `yaml:"timeout"     env:"EXTRACTION_TIMEOUT"     env-default:"60s"`
	MaxRetries int           `yaml:"max_retries" env:"EXTRACTION_MAX_RETRIES" env-default:"2"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"EXTRACTION_RETRY_DELAY" env-default:"1s"`
}

// CurrencyConfig holds normalization settings and the fallback rate table.
type CurrencyConfig struct {
	Canonical       string        `yaml:"canonical"        env:"CURRENCY_CANONICAL"        env-default:"INR"`
	Pivot           string        `yaml:"pivot"            env:"CURRENCY_PIVOT"            env-default:"USD"`
	LiveURL         string        `yaml:"live_url"         env:"CURRENCY_LIVE_URL"         env-default:"https://open.er-api.com/v6/latest"`
	LiveTimeout     time.Duration `yaml:"live_timeout"     env:"CURRENCY_LIVE_TIMEOUT"     env-default:"10s"`
	FallbackRaw     string        `yaml:"fallback_rates"   env:"CURRENCY_FALLBACK_RATES"   env-default:"USD:1.0,INR:83.50,AED:3.67,GBP:0.79,EUR:0.92,SGD:1.34,THB:35.20,MYR:4.72,SAR:3.75,QAR:3.64"`
	FallbackVersion string        `yaml:"fallback_version" env:"CURRENCY_FALLBACK_VERSION" env-default:"2024-01"`
	HistoryDays     int           `yaml:"history_days"     env:"CURRENCY_HISTORY_DAYS"     env-default:"30"`

	// FallbackRates is parsed from FallbackRaw during validation.
	FallbackRates map[string]decimal.Decimal `yaml:"-" env:"-"`
}

// SupplierConfig tunes duplicate-supplier detection.
type SupplierConfig struct {
	BlockThreshold float64 `yaml:"block_threshold" env:"SUPPLIER_BLOCK_THRESHOLD" env-default:"0.75"`
	WarnThreshold  float64 `yaml:"warn_threshold"  env:"SUPPLIER_WARN_THRESHOLD"  env-default:"0.5"`
	MaxCandidates  int     `yaml:"max_candidates"  env:"SUPPLIER_MAX_CANDIDATES"  env-default:"10"`
}

// IntakeConfig bounds what the intake pipeline accepts.
type IntakeConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"INTAKE_MAX_UPLOAD_BYTES" env-default:"20971520"`
}

// StorageConfig selects where raw document bytes live.
type StorageConfig struct {
	Driver             string `yaml:"driver"               env:"STORAGE_DRIVER"               env-default:"local"`
	LocalRoot          string `yaml:"local_root"           env:"STORAGE_LOCAL_ROOT"           env-default:"./uploads"`
	GCSBucket          string `yaml:"gcs_bucket"           env:"STORAGE_GCS_BUCKET"`
	GCSCredentialsJSON string `yaml:"gcs_credentials_json" env:"STORAGE_GCS_CREDENTIALS_JSON"`
}

// RedisConfig is optional; an empty Addr disables distributed locking.
type RedisConfig struct {
	Addr     string        `yaml:"addr"     env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" env-default:"2m"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }
