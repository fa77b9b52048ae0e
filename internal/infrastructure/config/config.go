// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv("config.yaml")
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/domain/registry"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Matching      MatchingConfig      `yaml:"matching"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ExtractionConfig holds extractor settings and extra institutions
// registered on top of the built-in seed table.
type ExtractionConfig struct {
	GenericFallback bool                `yaml:"generic_fallback"`
	Institutions    []InstitutionConfig `yaml:"institutions"`
}

// InstitutionConfig is the YAML shape of a registry entry. Patterns
// are compiled case-insensitively; group 1 must capture the amount,
// group 2 (optional) the counterparty.
type InstitutionConfig struct {
	Name         string `yaml:"name"`
	Identifier   string `yaml:"identifier"`
	AccountLabel string `yaml:"account_label"`
	Expense      string `yaml:"expense"`
	Income       string `yaml:"income"`
	Transfer     string `yaml:"transfer"`
}

// ToEntry compiles an institution config into a registry entry.
func (ic InstitutionConfig) ToEntry() (registry.Entry, error) {
	entry := registry.Entry{
		Name:         ic.Name,
		Identifier:   ic.Identifier,
		AccountLabel: ic.AccountLabel,
	}

	compile := func(pattern string) (*regexp.Regexp, error) {
		if strings.TrimSpace(pattern) == "" {
			return nil, nil
		}
		return regexp.Compile("(?i)" + pattern)
	}

	var err error
	if entry.Expense, err = compile(ic.Expense); err != nil {
		return registry.Entry{}, fmt.Errorf("institution %q: expense pattern: %w", ic.Name, err)
	}
	if entry.Income, err = compile(ic.Income); err != nil {
		return registry.Entry{}, fmt.Errorf("institution %q: income pattern: %w", ic.Name, err)
	}
	if entry.Transfer, err = compile(ic.Transfer); err != nil {
		return registry.Entry{}, fmt.Errorf("institution %q: transfer pattern: %w", ic.Name, err)
	}

	if verr := entry.Validate(); verr != nil {
		return registry.Entry{}, verr
	}
	return entry, nil
}

// BuildRegistry constructs the institution registry: the built-in
// seed table first, then any configured institutions appended in
// declared order.
func (c *Config) BuildRegistry() (*registry.Registry, error) {
	reg, err := registry.New(registry.Seed())
	if err != nil {
		return nil, err
	}
	for _, ic := range c.Extraction.Institutions {
		entry, err := ic.ToEntry()
		if err != nil {
			return nil, err
		}
		if err := reg.Append(entry); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// MatchingConfig exposes the matcher tolerances for tuning. Zero
// values fall back to the defaults.
type MatchingConfig struct {
	AmountTolerance     float64 `yaml:"amount_tolerance"`
	DateToleranceDays   int     `yaml:"date_tolerance_days"`
	MinDescriptionScore float64 `yaml:"min_description_score"`
}

// ToMatcherConfig merges the configured tolerances over the defaults.
func (mc MatchingConfig) ToMatcherConfig() matcher.Config {
	cfg := matcher.DefaultConfig()
	if mc.AmountTolerance > 0 {
		cfg.AmountTolerance = mc.AmountTolerance
	}
	if mc.DateToleranceDays > 0 {
		cfg.DateToleranceDays = mc.DateToleranceDays
	}
	if mc.MinDescriptionScore > 0 {
		cfg.MinDescriptionScore = mc.MinDescriptionScore
	}
	return cfg
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${BANKTEXT_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("BANKTEXT_PORT", 8080),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("BANKTEXT_DB_PATH", "banktext.db"),
		},
		Extraction: ExtractionConfig{
			GenericFallback: os.Getenv("BANKTEXT_GENERIC_FALLBACK") == "true",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level: getEnv("BANKTEXT_LOG_LEVEL", "info"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv loads the config file if it exists, otherwise falls back
// to environment variables.
func LoadOrEnv(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "banktext.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
