// Package config loads the per-environment YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the incidentrag configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Chat       ChatConfig       `yaml:"chat"`
	Search     SearchConfig     `yaml:"search"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	URL              string   `yaml:"url"`    // redis://[user:pass@]host:port/db, overrides addrs
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TextScorer       string   `yaml:"text_scorer"` // FT.SEARCH scorer, BM25 when empty
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds the incident index layout and HNSW parameters.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	EFRuntime       int    `yaml:"ef_runtime"`
}

// EmbeddingConfig holds embedding provider and cache settings.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"`
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	QueryInstruction    string `yaml:"query_instruction"`
	DocumentInstruction string `yaml:"document_instruction"`
	CacheSize           int    `yaml:"cache_size"`      // in-process LRU entries, 0 = default
	RedisCache          bool   `yaml:"redis_cache"`     // shared cache, redis driver only
	CacheTTLHours       int    `yaml:"cache_ttl_hours"` // 0 = keep forever
}

// ChatConfig holds chat completion settings.
type ChatConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig holds retrieval defaults and hybrid weights.
type SearchConfig struct {
	DefaultTopK         int     `yaml:"default_top_k"`
	MaxTopK             int     `yaml:"max_top_k"`
	VectorWeight        float64 `yaml:"vector_weight"`
	KeywordWeight       float64 `yaml:"keyword_weight"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
	AdapterTimeoutMS    int     `yaml:"adapter_timeout_ms"`
}

// AdapterTimeout returns the per-engine deadline.
func (s SearchConfig) AdapterTimeout() time.Duration {
	return time.Duration(s.AdapterTimeoutMS) * time.Millisecond
}

// PreprocessConfig holds query preprocessing settings.
type PreprocessConfig struct {
	DictionaryPath string `yaml:"dictionary_path"` // empty = built-in dictionary
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"`
}

// Load reads configuration by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return LoadFile(FindConfigPath(env))
}

// LoadDotEnv loads .env from the working directory without overriding variables
// that are already set. A missing file is fine.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadFile reads, expands, defaults and validates one YAML file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

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
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "idx:incidents"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "incident:"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "gpt-4o-mini"
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = 1024
	}
	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 5
	}
	if c.Search.MaxTopK <= 0 {
		c.Search.MaxTopK = 50
	}
	if c.Search.VectorWeight == 0 && c.Search.KeywordWeight == 0 {
		c.Search.VectorWeight = 0.6
		c.Search.KeywordWeight = 0.4
	}
	if c.Search.CandidateMultiplier <= 0 {
		c.Search.CandidateMultiplier = 3
	}
	if c.Search.AdapterTimeoutMS <= 0 {
		c.Search.AdapterTimeoutMS = 5000
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 10
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if c.Database.URL == "" && len(c.Database.Addrs) == 0 {
			return errors.New("database.url or database.addrs is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverMemory, c.Database.Driver)
	}
	if c.Search.DefaultTopK > c.Search.MaxTopK {
		return fmt.Errorf("search.default_top_k (%d) exceeds search.max_top_k (%d)",
			c.Search.DefaultTopK, c.Search.MaxTopK)
	}
	if err := checkWeight("search.vector_weight", c.Search.VectorWeight); err != nil {
		return err
	}
	if err := checkWeight("search.keyword_weight", c.Search.KeywordWeight); err != nil {
		return err
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be within [0, 2], got %v", c.Chat.Temperature)
	}
	return nil
}

func checkWeight(name string, w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%s must be within [0, 1], got %v", name, w)
	}
	return nil
}

// WeightsSumWarning returns a message when the hybrid weights do not sum to 1.
// Such weights are accepted; scores are simply not bounded by 1.
func (c *Config) WeightsSumWarning() string {
	sum := c.Search.VectorWeight + c.Search.KeywordWeight
	if math.Abs(sum-1) > 0.01 {
		return fmt.Sprintf("search weights sum to %.3f, not 1: fused scores will not be bounded by 1", sum)
	}
	return ""
}

// FindConfigPath locates config/<env>.yaml.
func FindConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package directories.
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
