// Package config holds the Regexia service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/Ruchi0214/Regexia/internal/infrastructure/config"
	"github.com/Ruchi0214/Regexia/internal/rules"
)

// Default configuration values.
const (
	defaultServiceName     = "regexia"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8080
	defaultTopK            = 50
	defaultMaxReturnedRows = 200
	defaultMaxRows         = 1000
	defaultPreviewLength   = 100
	defaultHighlightOpen   = `<span class="highlight">`
	defaultHighlightClose  = `</span>`
	defaultDBDriver        = DriverSQLite
	defaultDBPath          = "regexia_results.db"
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "regexia"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 10
	defaultDBMaxIdleConns  = 5
	defaultESURL           = "http://localhost:9200"
	defaultESIndex         = "regexia_results"
	defaultESMaxRetries    = 3
	defaultRedisURL        = "localhost:6379"
	defaultReportTTL       = time.Hour
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultRateLimitRPS    = 5.0
	defaultRateLimitBurst  = 10
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config.yml"

// Config holds all configuration for the Regexia service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
	Auth          AuthConfig          `yaml:"auth"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"REGEXIA_PORT"        yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"           yaml:"debug"`
	Concurrency int    `env:"REGEXIA_CONCURRENCY" yaml:"concurrency"`
}

// AnalysisConfig holds batch analysis limits and presentation settings.
type AnalysisConfig struct {
	TopK            int    `env:"REGEXIA_TOP_K"    yaml:"top_k"`
	MaxReturnedRows int    `yaml:"max_returned_rows"`
	MaxRows         int    `env:"REGEXIA_MAX_ROWS" yaml:"max_rows"`
	PreviewLength   int    `yaml:"preview_length"`
	HighlightOpen   string `yaml:"highlight_open"`
	HighlightClose  string `yaml:"highlight_close"`
}

// CatalogConfig extends the built-in rule table.
type CatalogConfig struct {
	ExtraRules []rules.Spec `yaml:"extra_rules"`
}

// DatabaseConfig selects the result store.
type DatabaseConfig struct {
	Driver          string        `env:"DATABASE_DRIVER"   yaml:"driver"`
	Path            string        `env:"DATABASE_PATH"     yaml:"path"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ElasticsearchConfig holds the optional result index settings.
type ElasticsearchConfig struct {
	Enabled    bool   `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	URL        string `env:"ELASTICSEARCH_URL"     yaml:"url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Index      string `yaml:"index"`
	MaxRetries int    `yaml:"max_retries"`
}

// RedisConfig holds the optional report cache settings.
type RedisConfig struct {
	Enabled   bool          `env:"REDIS_ENABLED"  yaml:"enabled"`
	URL       string        `env:"REDIS_URL"      yaml:"url"`
	Password  string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database  int           `yaml:"database"`
	ReportTTL time.Duration `yaml:"report_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// AuthConfig holds authentication configuration. An empty secret leaves the
// API open.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// RateLimitConfig throttles the analyze endpoints. RPS 0 uses the default;
// a negative RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Load reads configuration from path. A missing file yields the defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if errors.Is(err, infraconfig.ErrConfigNotFound) {
		cfg = &Config{}
		infraconfig.ApplyEnvOverrides(cfg)
		setDefaults(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// RuleSpecs returns the built-in catalog followed by the configured extras.
func (c *Config) RuleSpecs() []rules.Spec {
	return append(rules.DefaultCatalog(), c.Catalog.ExtraRules...)
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	checks := []error{
		infraconfig.ValidatePort("service.port", c.Service.Port),
		infraconfig.ValidateLogLevel(c.Logging.Level),
		infraconfig.ValidateNonNegative("service.concurrency", c.Service.Concurrency),
		infraconfig.ValidateNonNegative("analysis.top_k", c.Analysis.TopK),
		infraconfig.ValidateNonNegative("analysis.max_returned_rows", c.Analysis.MaxReturnedRows),
		infraconfig.ValidateNonNegative("analysis.max_rows", c.Analysis.MaxRows),
		infraconfig.ValidateNonNegative("analysis.preview_length", c.Analysis.PreviewLength),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return &infraconfig.ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unsupported driver %q, want %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres),
		}
	}

	if c.Elasticsearch.Enabled && c.Elasticsearch.URL == "" {
		return &infraconfig.ValidationError{Field: "elasticsearch.url", Message: "required when elasticsearch is enabled"}
	}
	return nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setAnalysisDefaults(&cfg.Analysis)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
	setRateLimitDefaults(&cfg.RateLimit)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setAnalysisDefaults(a *AnalysisConfig) {
	if a.TopK == 0 {
		a.TopK = defaultTopK
	}
	if a.MaxReturnedRows == 0 {
		a.MaxReturnedRows = defaultMaxReturnedRows
	}
	if a.MaxRows == 0 {
		a.MaxRows = defaultMaxRows
	}
	if a.PreviewLength == 0 {
		a.PreviewLength = defaultPreviewLength
	}
	if a.HighlightOpen == "" {
		a.HighlightOpen = defaultHighlightOpen
	}
	if a.HighlightClose == "" {
		a.HighlightClose = defaultHighlightClose
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Path == "" {
		d.Path = defaultDBPath
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.Index == "" {
		e.Index = defaultESIndex
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
	if r.ReportTTL == 0 {
		r.ReportTTL = defaultReportTTL
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setRateLimitDefaults(r *RateLimitConfig) {
	if r.RPS == 0 {
		r.RPS = defaultRateLimitRPS
	}
	if r.Burst == 0 {
		r.Burst = defaultRateLimitBurst
	}
}
