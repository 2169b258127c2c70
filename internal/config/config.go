// Package config handles reading and writing the tmcheck configuration file (~/.tmcheck/config.toml).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Defaults applied when a key is unset.
const (
	DefaultRegistryURL     = "https://uspto-trademark.p.rapidapi.com"
	DefaultRegistryTimeout = 10 * time.Second
	DefaultCacheBackend    = "memory"
	DefaultCacheTTL        = time.Hour
	DefaultMaxDetails      = 5
	DefaultMinWordLength   = 3
	DefaultConcurrency     = 4
)

// EnvRegistryKey overrides registry_key so the key can stay out of the file.
const EnvRegistryKey = "TMCHECK_REGISTRY_KEY"

// Config holds tmcheck configuration settings. Zero values mean "use the default".
type Config struct {
	RegistryURL     string `toml:"registry_url,omitempty" json:"registry_url,omitempty"`
	RegistryKey     string `toml:"registry_key,omitempty" json:"registry_key,omitempty"`
	RegistryHost    string `toml:"registry_host,omitempty" json:"registry_host,omitempty"`
	Verify          *bool  `toml:"verify,omitempty" json:"verify,omitempty"`
	RegistryTimeout string `toml:"registry_timeout,omitempty" json:"registry_timeout,omitempty"`
	CacheBackend    string `toml:"cache_backend,omitempty" json:"cache_backend,omitempty"`
	CachePath       string `toml:"cache_path,omitempty" json:"cache_path,omitempty"`
	RedisURL        string `toml:"redis_url,omitempty" json:"redis_url,omitempty"`
	CacheTTL        string `toml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
	MaxDetails      int    `toml:"max_details,omitempty" json:"max_details,omitempty"`
	MinWordLength   int    `toml:"min_word_length,omitempty" json:"min_word_length,omitempty"`
	DictionaryPath  string `toml:"dictionary_path,omitempty" json:"dictionary_path,omitempty"`
	Concurrency     int    `toml:"concurrency,omitempty" json:"concurrency,omitempty"`
	Heuristic       bool   `toml:"heuristic,omitempty" json:"heuristic,omitempty"`
	DefaultFormat   string `toml:"default_format,omitempty" json:"default_format,omitempty"`
}

// validKeys lists the allowed configuration keys.
var validKeys = map[string]bool{
	"registry_url":     true,
	"registry_key":     true,
	"registry_host":    true,
	"verify":           true,
	"registry_timeout": true,
	"cache_backend":    true,
	"cache_path":       true,
	"redis_url":        true,
	"cache_ttl":        true,
	"max_details":      true,
	"min_word_length":  true,
	"dictionary_path":  true,
	"concurrency":      true,
	"heuristic":        true,
	"default_format":   true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{
		"cache_backend", "cache_path", "cache_ttl", "concurrency", "default_format",
		"dictionary_path", "heuristic", "max_details", "min_word_length", "redis_url",
		"registry_host", "registry_key", "registry_timeout", "registry_url", "verify",
	}
}

// Dir returns the tmcheck data directory (~/.tmcheck).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tmcheck")
	}
	return filepath.Join(home, ".tmcheck")
}

// Path returns the default config file path (~/.tmcheck/config.toml).
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultCachePath is where the SQLite cache lives unless cache_path is set.
func DefaultCachePath() string {
	return filepath.Join(Dir(), "cache.db")
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist. Supports both TOML and JSON formats (detected by
// file extension; defaults to TOML).
func LoadFrom(path string) (*Config, error) {
	if filepath.Ext(path) == ".json" {
		return loadJSON(path)
	}
	return loadTOML(path)
}

// loadTOML reads a TOML config file.
func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// loadJSON reads a JSON config file, e.g. settings exported by the extension.
func loadJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables on the file values.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvRegistryKey); key != "" {
		c.RegistryKey = key
	}
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
// Writes TOML format regardless of file extension. The file may hold an API
// key, so it is written owner-readable only.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string value of a configuration key. Unset keys return "".
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "registry_url":
		return c.RegistryURL, nil
	case "registry_key":
		return c.RegistryKey, nil
	case "registry_host":
		return c.RegistryHost, nil
	case "verify":
		if c.Verify == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Verify), nil
	case "registry_timeout":
		return c.RegistryTimeout, nil
	case "cache_backend":
		return c.CacheBackend, nil
	case "cache_path":
		return c.CachePath, nil
	case "redis_url":
		return c.RedisURL, nil
	case "cache_ttl":
		return c.CacheTTL, nil
	case "max_details":
		return formatInt(c.MaxDetails), nil
	case "min_word_length":
		return formatInt(c.MinWordLength), nil
	case "dictionary_path":
		return c.DictionaryPath, nil
	case "concurrency":
		return formatInt(c.Concurrency), nil
	case "heuristic":
		if !c.Heuristic {
			return "", nil
		}
		return "true", nil
	case "default_format":
		return c.DefaultFormat, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns a value to a configuration key. An empty value resets the key
// to its default.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "registry_url":
		c.RegistryURL = value
	case "registry_key":
		c.RegistryKey = value
	case "registry_host":
		c.RegistryHost = value
	case "verify":
		if value == "" {
			c.Verify = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verify must be true or false, got %q", value)
		}
		c.Verify = &b
	case "registry_timeout":
		if err := checkDuration(key, value); err != nil {
			return err
		}
		c.RegistryTimeout = value
	case "cache_backend":
		if value != "" && value != "memory" && value != "sqlite" && value != "redis" {
			return fmt.Errorf("cache_backend must be \"memory\", \"sqlite\" or \"redis\", got %q", value)
		}
		c.CacheBackend = value
	case "cache_path":
		c.CachePath = value
	case "redis_url":
		c.RedisURL = value
	case "cache_ttl":
		if err := checkDuration(key, value); err != nil {
			return err
		}
		c.CacheTTL = value
	case "max_details":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.MaxDetails = n
	case "min_word_length":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.MinWordLength = n
	case "dictionary_path":
		c.DictionaryPath = value
	case "concurrency":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.Concurrency = n
	case "heuristic":
		if value == "" {
			c.Heuristic = false
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("heuristic must be true or false, got %q", value)
		}
		c.Heuristic = b
	case "default_format":
		if value != "" && value != "table" && value != "json" {
			return fmt.Errorf("default_format must be \"table\" or \"json\", got %q", value)
		}
		c.DefaultFormat = value
	}
	return nil
}

// Validate checks values that may have been edited by hand.
func (c *Config) Validate() error {
	for _, key := range ValidKeys() {
		v, err := c.Get(key)
		if err != nil {
			return err
		}
		if err := (&Config{}).Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

// RegistryEndpoint returns registry_url or the default.
func (c *Config) RegistryEndpoint() string {
	if c.RegistryURL == "" {
		return DefaultRegistryURL
	}
	return c.RegistryURL
}

// VerifyEnabled reports whether dictionary hits are re-checked remotely.
func (c *Config) VerifyEnabled() bool {
	return c.Verify == nil || *c.Verify
}

// Timeout returns registry_timeout or the default.
func (c *Config) Timeout() time.Duration {
	return durationOr(c.RegistryTimeout, DefaultRegistryTimeout)
}

// TTL returns cache_ttl or the default.
func (c *Config) TTL() time.Duration {
	return durationOr(c.CacheTTL, DefaultCacheTTL)
}

// Backend returns cache_backend or the default.
func (c *Config) Backend() string {
	if c.CacheBackend == "" {
		return DefaultCacheBackend
	}
	return c.CacheBackend
}

// CacheFile returns cache_path or the default SQLite location.
func (c *Config) CacheFile() string {
	if c.CachePath == "" {
		return DefaultCachePath()
	}
	return c.CachePath
}

// Details returns max_details or the default.
func (c *Config) Details() int {
	return intOr(c.MaxDetails, DefaultMaxDetails)
}

// WordLength returns min_word_length or the default.
func (c *Config) WordLength() int {
	return intOr(c.MinWordLength, DefaultMinWordLength)
}

// Workers returns concurrency or the default.
func (c *Config) Workers() int {
	return intOr(c.Concurrency, DefaultConcurrency)
}

func checkDuration(key, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s must be a positive duration like \"30s\" or \"1h\", got %q", key, value)
	}
	return nil
}

func parsePositive(key, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func intOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
