package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Wealthfolio
type Config struct {
	Environment  string        `toml:"environment"`
	BaseCurrency string        `toml:"base_currency"` // default base currency for new users
	Server       ServerConfig  `toml:"server"`
	Storage      StorageConfig `toml:"storage"`
	Rates        RatesConfig   `toml:"rates"`
	Clients      ClientsConfig `toml:"clients"`
	Auth         AuthConfig    `toml:"auth"`
	Logging      LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"` // ws://host:port/rpc
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// RatesConfig holds exchange-rate table configuration.
type RatesConfig struct {
	Path            string `toml:"path"`             // JSON file with code -> factor entries
	RefreshSchedule string `toml:"refresh_schedule"` // cron spec for periodic reloads
}

// ClientsConfig holds price-provider client configurations
type ClientsConfig struct {
	TwelveData TwelveDataConfig `toml:"twelvedata"`
	Yahoo      YahooConfig      `toml:"yahoo"`
	Gemini     GeminiConfig     `toml:"gemini"`
	PriceTTL   string           `toml:"price_ttl"` // price cache expiry, duration string
}

// GetPriceTTL parses and returns the price cache TTL.
func (c *ClientsConfig) GetPriceTTL() time.Duration {
	d, err := time.ParseDuration(c.PriceTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// TwelveDataConfig holds Twelve Data API configuration
type TwelveDataConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TwelveDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration for dashboard insights
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:  "development",
		BaseCurrency: "USD",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "wealthfolio",
			Database:  "wealthfolio",
			Username:  "root",
			Password:  "root",
		},
		Rates: RatesConfig{
			Path:            "data/exchange_rates.json",
			RefreshSchedule: "@every 1h",
		},
		Clients: ClientsConfig{
			TwelveData: TwelveDataConfig{
				BaseURL:   "https://api.twelvedata.com",
				RateLimit: 8,
				Timeout:   "10s",
			},
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "10s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			PriceTTL: "5m",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateBaseCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WEALTHFOLIO_ENV"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("WEALTHFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("WEALTHFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("WEALTHFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if addr := os.Getenv("WEALTHFOLIO_DB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if path := os.Getenv("WEALTHFOLIO_RATES_PATH"); path != "" {
		config.Rates.Path = path
	}
	if cur := os.Getenv("WEALTHFOLIO_BASE_CURRENCY"); cur != "" {
		config.BaseCurrency = strings.ToUpper(cur)
	}
	if v := os.Getenv("WEALTHFOLIO_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		config.Clients.TwelveData.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateBaseCurrency uppercases the default base currency, falling back to
// USD when unset.
func validateBaseCurrency(config *Config) {
	cur := strings.ToUpper(strings.TrimSpace(config.BaseCurrency))
	if cur == "" {
		cur = "USD"
	}
	config.BaseCurrency = cur
}
