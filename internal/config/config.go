package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// auth
	JWTTTLMinutes               int `toml:"jwt_ttl_minutes"`
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// core api, exercise catalog
	CatalogCacheTTLSeconds int  `toml:"catalog_cache_ttl_seconds"`
	Wger                   Wger `toml:"wger"`

	// analytics api
	CoreAPIBase              string `toml:"core_api_base"`
	CoreAPITimeoutSeconds    int    `toml:"core_api_timeout_seconds"`
	ApplySchemaOnStartup     bool   `toml:"apply_schema_on_startup"`
	RebuildLatestDefaultDays int    `toml:"rebuild_latest_default_days"`
	ReportsDefaultPageSize   int    `toml:"reports_default_page_size"`

	// gateway
	CoreAPITarget      string `toml:"core_api_target"`
	AnalyticsAPITarget string `toml:"analytics_api_target"`
}

// Wger holds the catalog sync policy.
type Wger struct {
	BaseURL               string `toml:"base_url"`
	LanguageID            int    `toml:"language_id"`
	OnlyPreferredLanguage bool   `toml:"only_preferred_language"`
	OnlyWithImage         bool   `toml:"only_with_image"`
	MaxExercises          int    `toml:"max_exercises"`
	PageLimit             int    `toml:"page_limit"`
	MaxPages              int    `toml:"max_pages"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	SyncLockTTLSeconds    int    `toml:"sync_lock_ttl_seconds"`
}

type Toml struct {
	Development *Config
	DockerDev   *Config `toml:"dockerdev"`
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env, with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.JWTTTLMinutes == 0 {
		c.JWTTTLMinutes = 120
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 20
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:4200", "http://127.0.0.1:4200"}
	}
	if c.CatalogCacheTTLSeconds == 0 {
		c.CatalogCacheTTLSeconds = 600
	}
	if c.CoreAPITimeoutSeconds == 0 {
		c.CoreAPITimeoutSeconds = 10
	}
	if c.RebuildLatestDefaultDays == 0 {
		c.RebuildLatestDefaultDays = 90
	}
	if c.ReportsDefaultPageSize == 0 {
		c.ReportsDefaultPageSize = 50
	}

	if c.Wger.BaseURL == "" {
		c.Wger.BaseURL = "https://wger.de"
	}
	if c.Wger.LanguageID == 0 {
		c.Wger.LanguageID = 4
	}
	if c.Wger.PageLimit == 0 {
		c.Wger.PageLimit = 200
	}
	if c.Wger.MaxPages == 0 {
		c.Wger.MaxPages = 100
	}
	if c.Wger.RequestTimeoutSeconds == 0 {
		c.Wger.RequestTimeoutSeconds = 30
	}
	if c.Wger.SyncLockTTLSeconds == 0 {
		c.Wger.SyncLockTTLSeconds = 600
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port not set")
	}
	if c.Wger.MaxExercises < 0 {
		return errors.New("wger max_exercises must not be negative")
	}
	if c.Wger.PageLimit < 0 || c.Wger.MaxPages < 0 {
		return errors.New("wger paging limits must not be negative")
	}
	for name, target := range map[string]string{
		"wger base_url":        c.Wger.BaseURL,
		"core_api_base":        c.CoreAPIBase,
		"core_api_target":      c.CoreAPITarget,
		"analytics_api_target": c.AnalyticsAPITarget,
	} {
		if target == "" {
			continue
		}
		u, err := url.Parse(target)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url, got [%s]", name, target)
		}
	}
	return nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

func (c *Config) CoreAPITimeout() time.Duration {
	return time.Duration(c.CoreAPITimeoutSeconds) * time.Second
}

func (w Wger) RequestTimeout() time.Duration {
	return time.Duration(w.RequestTimeoutSeconds) * time.Second
}

func (w Wger) SyncLockTTL() time.Duration {
	return time.Duration(w.SyncLockTTLSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	switch c.Environment {
	case "dev", "development", "ddev", "dockerdev":
		return true
	}
	return false
}

// Secrets are never kept in the TOML files.
type Secrets struct {
	JWTSecret        string `env:"MYWORKOUT_JWT_SECRET"`
	PostgresPassword string `env:"MYWORKOUT_POSTGRES_PASSWORD"`
	RedisPassword    string `env:"MYWORKOUT_REDIS_PASS"`
	AdminEmail       string `env:"MYWORKOUT_ADMIN_EMAIL"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME"`
}

const devJWTSecret = "myworkout-dev-secret"

// LoadSecrets reads secrets from the environment. Outside development a JWT secret is mandatory.
func LoadSecrets(ctx context.Context, cfg *Config) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if s.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("jwt secret not set, use MYWORKOUT_JWT_SECRET")
		}
		s.JWTSecret = devJWTSecret
	}

	return &s, nil
}
