package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "ADPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"CACHE"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// SourceConfig selects where the ads export is read from.
type SourceConfig struct {
	Kind            string        `yaml:"kind" envconfig:"KIND"`
	SpreadsheetID   string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	SpreadsheetName string        `yaml:"spreadsheet_name" envconfig:"SPREADSHEET_NAME"`
	Worksheet       string        `yaml:"worksheet" envconfig:"WORKSHEET"`
	CredentialsFile string        `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	CredentialsJSON string        `yaml:"-" envconfig:"CREDENTIALS_JSON"`
	FilePath        string        `yaml:"file_path" envconfig:"FILE_PATH"`
	Watch           bool          `yaml:"watch" envconfig:"WATCH"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// CacheConfig controls dataset snapshot caching.
type CacheConfig struct {
	Backend   string        `yaml:"backend" envconfig:"BACKEND"`
	TTL       time.Duration `yaml:"ttl" envconfig:"TTL"`
	RedisURL  string        `yaml:"redis_url" envconfig:"REDIS_URL"`
	KeyPrefix string        `yaml:"key_prefix" envconfig:"KEY_PREFIX"`
}

// PipelineConfig tunes report generation.
type PipelineConfig struct {
	Parallel     bool `yaml:"parallel" envconfig:"PARALLEL"`
	TopCampaigns int  `yaml:"top_campaigns" envconfig:"TOP_CAMPAIGNS"`
}

// TelemetryConfig contains OpenTelemetry exporter settings
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = getConfigFilePath()
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path. An empty path skips the
// file layer.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Fields without a matching variable keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values on top of cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration after callers apply their own
// overrides, such as command-line flags.
func (c *Config) Validate() error {
	return c.validate()
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	switch c.Source.Kind {
	case SourceSheets:
		if c.Source.SpreadsheetID == "" && c.Source.SpreadsheetName == "" {
			return fmt.Errorf("sheets source requires a spreadsheet id or name")
		}
	case SourceXLSX, SourceCSV:
		if c.Source.FilePath == "" {
			return fmt.Errorf("%s source requires a file path", c.Source.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	if c.Source.Worksheet == "" {
		c.Source.Worksheet = DefaultWorksheet
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis cache backend requires a redis url")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if c.Pipeline.TopCampaigns <= 0 {
		return fmt.Errorf("pipeline top campaigns must be positive, got %d", c.Pipeline.TopCampaigns)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0,1], got %v", c.Telemetry.SampleRatio)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Source: SourceConfig{
			Kind:            SourceSheets,
			SpreadsheetName: DefaultSpreadsheetName,
			Worksheet:       DefaultWorksheet,
			CredentialsFile: "credentials.json",
			Watch:           true,
			Timeout:         DefaultSourceTimeout,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			TTL:       DefaultCacheTTL,
			KeyPrefix: "adpulse:",
		},
		Pipeline: PipelineConfig{
			Parallel:     true,
			TopCampaigns: DefaultTopCampaigns,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
