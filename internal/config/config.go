package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageBackendDisk     = "disk"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// ingestion
	StorageDir     string `toml:"storage_dir"`
	StorageBackend string `toml:"storage_backend"`
	CacheDir       string `toml:"cache_dir"`
	UploadDir      string `toml:"upload_dir"`
	GarminApiURL   string `toml:"garmin_api_url"`
	// postgres, used when storage_backend = "postgres"
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis, used for rate limiting
	RedisHost                string `toml:"redis_host"`
	RedisPort                string `toml:"redis_port"`
	UploadRateLimitPerMinute int    `toml:"upload_rate_limit_per_min"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// browser origins allowed to call the api
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	// advisor
	ModelName      string `toml:"model_name"`
	ModelEndpoint  string `toml:"model_endpoint"`
	UseMockAdvisor bool   `toml:"use_mock_advisor"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env,
// with defaults applied to everything left unset.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageDir == "" {
		c.StorageDir = "./data/storage"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageBackendDisk
	}
	if c.CacheDir == "" {
		c.CacheDir = "./data/cache"
	}
	if c.UploadDir == "" {
		c.UploadDir = "./data/uploads"
	}
	if c.UploadRateLimitPerMinute == 0 {
		c.UploadRateLimitPerMinute = 10
	}
	if c.ModelName == "" {
		c.ModelName = "llama3"
	}
	if c.ModelEndpoint == "" {
		c.ModelEndpoint = "http://localhost:11434"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendDisk:
	case StorageBackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres storage backend needs postgres_host, postgres_port and postgres_db_name")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
