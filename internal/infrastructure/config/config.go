package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Keys mirror config.toml
// sections; every key can be overridden by FURN_<SECTION>_<KEY>.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Storage    StorageConfig    `mapstructure:"storage"`
	SMS        ProviderConfig   `mapstructure:"sms"`
	Email      EmailConfig      `mapstructure:"email"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	ESign      ESignConfig      `mapstructure:"esign"`
	Automation AutomationConfig `mapstructure:"automation"`
	Campaign   CampaignConfig   `mapstructure:"campaign"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Printing   PrintingConfig   `mapstructure:"printing"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Swagger    SwaggerConfig    `mapstructure:"swagger"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, staging, production
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// RedisConfig backs the analytics cache, rate limiter and token revocations.
// An empty Host selects the in-memory implementations.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret                 string        `mapstructure:"secret"`
	RefreshSecret          string        `mapstructure:"refresh_secret"`
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string        `mapstructure:"issuer"`
	MaxRefreshCount        int           `mapstructure:"max_refresh_count"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"` // empty blocks cross-origin calls
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

// StorageConfig points at an S3-compatible bucket for design board assets.
// An empty Bucket selects the in-memory store.
type StorageConfig struct {
	Endpoint        string        `mapstructure:"endpoint"` // MinIO or R2; empty means AWS
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size"`
}

// ProviderConfig is shared by the outbound SMS, email and e-sign clients.
// An empty BaseURL selects a stub that only logs.
type ProviderConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	From       string        `mapstructure:"from"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

type EmailConfig struct {
	ProviderConfig `mapstructure:",squash"`
	FromName       string `mapstructure:"from_name"`
}

type WebhookConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
	Secret     string        `mapstructure:"secret"` // sent as X-Webhook-Secret
}

type ESignConfig struct {
	ProviderConfig `mapstructure:",squash"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

type AutomationConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
}

type CampaignConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
}

type PrintingConfig struct {
	ChromeURL   string        `mapstructure:"chrome_url"` // remote DevTools websocket; empty launches Chrome locally
	NoSandbox   bool          `mapstructure:"no_sandbox"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CompanyName string        `mapstructure:"company_name"`
}

type AnalyticsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SchedulerConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	MaxConcurrentJobs    int           `mapstructure:"max_concurrent_jobs"`
	JobTimeout           time.Duration `mapstructure:"job_timeout"`
	RetryAttempts        int           `mapstructure:"retry_attempts"`
	RetryDelay           time.Duration `mapstructure:"retry_delay"`
	OverdueInterval      time.Duration `mapstructure:"overdue_interval"`
	ChurnRefreshInterval time.Duration `mapstructure:"churn_refresh_interval"`
}

type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
	ProfilingEnabled  bool          `mapstructure:"profiling_enabled"`
	PyroscopeEndpoint string        `mapstructure:"pyroscope_endpoint"`
}

const (
	defaultJWTSecret   = "change-me-in-production"
	pandaDocBaseURL    = "https://api.pandadoc.com/public/v1"
	maxCampaignChunk   = 1000
	minProdSecretBytes = 32
)

// defaults registers every key so FURN_ env vars bind even when config.toml
// does not mention them. Empty values mean "feature off".
var defaults = map[string]any{
	"app.name": "furnitureops",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "furnitureops",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.host":     "",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   defaultJWTSecret,
	"jwt.refresh_secret":           "",
	"jwt.access_token_expiration":  15 * time.Minute,
	"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
	"jwt.issuer":                   "furnitureops",
	"jwt.max_refresh_count":        10,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            60 * time.Second, // invoice PDFs render inline
	"http.idle_timeout":             60 * time.Second,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            int64(10 << 20),
	"http.rate_limit_enabled":       true,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  true,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	"http.cors_allow_origins":       []string{},
	"http.cors_allow_methods":       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"http.cors_allow_headers":       []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":          []string{},

	"storage.endpoint":          "",
	"storage.region":            "us-east-1",
	"storage.bucket":            "",
	"storage.access_key_id":     "",
	"storage.secret_access_key": "",
	"storage.use_path_style":    false,
	"storage.presign_expiry":    15 * time.Minute,
	"storage.max_upload_size":   int64(50 << 20),

	"email.from_name":      "",
	"esign.webhook_secret": "",

	"webhook.timeout":     10 * time.Second,
	"webhook.retry_count": 0,
	"webhook.secret":      "",

	"automation.enabled":        true,
	"automation.action_timeout": 30 * time.Second,

	"campaign.chunk_size": 50,

	"printing.chrome_url":   "",
	"printing.no_sandbox":   false,
	"printing.timeout":      30 * time.Second,
	"printing.company_name": "",

	"analytics.cache_ttl": 5 * time.Minute,

	"scheduler.enabled":                false,
	"scheduler.max_concurrent_jobs":    2,
	"scheduler.job_timeout":            10 * time.Minute,
	"scheduler.retry_attempts":         3,
	"scheduler.retry_delay":            time.Minute,
	"scheduler.overdue_interval":       time.Hour,
	"scheduler.churn_refresh_interval": 24 * time.Hour,

	"swagger.enabled":      true,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "furnitureops",
	"telemetry.insecure":                true,
	"telemetry.metrics_enabled":         true,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        true,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.profiling_enabled":       false,
	"telemetry.pyroscope_endpoint":      "http://localhost:4040",
}

// outbound providers share their key layout
func init() {
	for _, section := range []string{"sms", "email", "esign"} {
		defaults[section+".base_url"] = ""
		defaults[section+".api_key"] = ""
		defaults[section+".from"] = ""
		defaults[section+".timeout"] = 10 * time.Second
		defaults[section+".retry_count"] = 2
	}
}

// Load reads config.toml from the working directory, ./backend or /app,
// then applies FURN_ environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return loadFrom(v)
}

func loadFrom(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("FURN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.ESign.BaseURL == "" && cfg.ESign.APIKey != "" {
		cfg.ESign.BaseURL = pandaDocBaseURL
	}
	if cfg.Printing.CompanyName == "" {
		cfg.Printing.CompanyName = cfg.App.Name
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Database.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case c.Database.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case c.Database.MaxIdleConns > c.Database.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	case c.Campaign.ChunkSize < 1 || c.Campaign.ChunkSize > maxCampaignChunk:
		return fmt.Errorf("campaign.chunk_size must be between 1 and %d, got %d", maxCampaignChunk, c.Campaign.ChunkSize)
	case c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1:
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.IsProduction() {
		return c.validateProduction()
	}
	return nil
}

func (c *Config) validateProduction() error {
	switch {
	case c.JWT.Secret == defaultJWTSecret:
		return errors.New("jwt.secret must be set in production")
	case len(c.JWT.Secret) < minProdSecretBytes:
		return fmt.Errorf("jwt.secret must be at least %d characters in production", minProdSecretBytes)
	case c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Database.SSLMode == "disable":
		return errors.New("database.sslmode cannot be 'disable' in production")
	case c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0:
		return errors.New("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
	case c.Telemetry.DBLogFullSQL:
		return errors.New("telemetry.db_log_full_sql must be false in production")
	case c.ESign.APIKey != "" && c.ESign.WebhookSecret == "":
		return errors.New("esign.webhook_secret is required in production when e-sign is configured")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return errors.New("http.cors_allow_origins cannot be '*' in production")
		}
	}
	return nil
}

// IsProduction reports whether app.env is "production"
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN builds a postgres URL with user and password escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr returns host:port, or "" when redis is not configured
func (r *RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
