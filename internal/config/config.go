package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
)

// Config holds the intell API and crawler configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Cache         CacheConfig         `yaml:"cache"`
	Auth          AuthConfig          `yaml:"auth"`
	Crawler       CrawlerConfig       `yaml:"crawler"`
	Repair        RepairConfig        `yaml:"repair"`
	Safety        SafetyConfig        `yaml:"safety"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	// IndexAPIKey guards POST /index-page. Empty makes the route answer 500.
	IndexAPIKey string `yaml:"index_api_key"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search engine connection settings.
type ElasticsearchConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"`
	LogIndex         string   `yaml:"log_index"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the optional suggest/trending cache settings.
type CacheConfig struct {
	Driver   string   `yaml:"driver"` // none, redis (default: none)
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// CrawlerConfig holds crawler CLI settings.
type CrawlerConfig struct {
	Seeds             []string `yaml:"seeds"`
	MaxDepth          int      `yaml:"max_depth"`
	MaxPages          int      `yaml:"max_pages"`
	DelayMs           int      `yaml:"delay_ms"`
	ConnectTimeoutSec int      `yaml:"connect_timeout_sec"`
	ReadTimeoutSec    int      `yaml:"read_timeout_sec"`
	UserAgent         string   `yaml:"user_agent"`
	IndexEndpoint     string   `yaml:"index_endpoint"`
	APIKey            string   `yaml:"api_key"`
	PDFEnabled        *bool    `yaml:"pdf_enabled"`
}

// RepairConfig holds repair pass settings.
type RepairConfig struct {
	RatePerSec float64 `yaml:"rate_per_sec"`
}

// SafetyConfig holds the safety classifier lexicon. Empty uses the built-in list.
type SafetyConfig struct {
	Lexicon []string `yaml:"lexicon"`
}

// Delay returns the politeness delay between fetches.
func (c CrawlerConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// PDF reports whether PDF extraction is enabled.
func (c CrawlerConfig) PDF() bool {
	return c.PDFEnabled == nil || *c.PDFEnabled
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references and applying defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "my_web_pages"
	}
	if c.Elasticsearch.LogIndex == "" {
		c.Elasticsearch.LogIndex = "search_logs"
	}
	if c.Elasticsearch.ReadinessTimeout <= 0 {
		c.Elasticsearch.ReadinessTimeout = 30
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}

	if c.Crawler.MaxDepth <= 0 {
		c.Crawler.MaxDepth = 2
	}
	if c.Crawler.MaxPages <= 0 {
		c.Crawler.MaxPages = 300
	}
	if c.Crawler.DelayMs <= 0 {
		c.Crawler.DelayMs = 1000
	}
	if c.Crawler.ConnectTimeoutSec <= 0 {
		c.Crawler.ConnectTimeoutSec = 5
	}
	if c.Crawler.ReadTimeoutSec <= 0 {
		c.Crawler.ReadTimeoutSec = 10
	}
	if c.Crawler.UserAgent == "" {
		c.Crawler.UserAgent = "IntellCrawler/1.0"
	}
	if c.Crawler.IndexEndpoint == "" {
		c.Crawler.IndexEndpoint = "http://localhost:8000"
	}

	if c.Repair.RatePerSec <= 0 {
		c.Repair.RatePerSec = 2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addrs) == 0 {
		return fmt.Errorf("elasticsearch.addrs is required")
	}
	switch c.Cache.Driver {
	case CacheNone:
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", CacheRedis)
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q", CacheNone, CacheRedis, c.Cache.Driver)
	}
	if c.Crawler.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0, got %d", c.Crawler.MaxDepth)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
