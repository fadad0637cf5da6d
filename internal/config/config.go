package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Market   MarketConfig
	Trading  TradingConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// MarketConfig controls where historical series are read from and which symbols are tradable.
type MarketConfig struct {
	DataDir string
	Symbols []string
	// AnalysisLookup is "nearest" or "strict" and only affects analysis endpoints.
	AnalysisLookup string
}

// TradingConfig holds trade execution tuning.
type TradingConfig struct {
	MaxAttempts uint64
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// AuthConfig holds caller identity and admin key configuration
type AuthConfig struct {
	DefaultOwnerID string
	InternalAPIKey string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// DefaultSymbols is the tradable universe used when MARKET_SYMBOLS is not set.
var DefaultSymbols = []string{"RELIANCE", "ICICIBANK", "HDFCBANK", "TATAMOTORS"}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	attempts, err := strconv.ParseUint(getEnv("TRADE_MAX_ATTEMPTS", "3"), 10, 64)
	if err != nil || attempts == 0 {
		return nil, fmt.Errorf("invalid TRADE_MAX_ATTEMPTS: must be a positive integer")
	}

	lookup := strings.ToLower(getEnv("ANALYSIS_PRICE_LOOKUP", "nearest"))
	if lookup != "nearest" && lookup != "strict" {
		return nil, fmt.Errorf("invalid ANALYSIS_PRICE_LOOKUP %q: must be nearest or strict", lookup)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_sim.db"),
		},
		Market: MarketConfig{
			DataDir:        getEnv("MARKET_DATA_DIR", "./data/market"),
			Symbols:        splitList(getEnv("MARKET_SYMBOLS", ""), DefaultSymbols, strings.ToUpper),
			AnalysisLookup: lookup,
		},
		Trading: TradingConfig{
			MaxAttempts: attempts,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			DefaultOwnerID: getEnv("DEFAULT_OWNER_ID", ""),
			InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", ""), []string{
				"http://localhost:3000",
				"http://localhost",
			}, nil),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, falling back to def when nothing remains.
func splitList(raw string, def []string, norm func(string) string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if norm != nil {
			part = norm(part)
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
