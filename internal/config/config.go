// Package config defines the top-level configuration for the chartpulse
// server and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by CHARTPULSE_* environment
// variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	FMP      FMPConfig      `toml:"fmp"`
	Dex      DexConfig      `toml:"dexscreener"`
	LLM      LLMConfig      `toml:"llm"`
	Usage    UsageConfig    `toml:"usage"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds the HTTP listener parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// AuthConfig holds token verification parameters.
type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	Issuer        string `toml:"issuer"`
	Audience      string `toml:"audience"`
	AllowLegacyID bool   `toml:"allow_legacy_id"`
	DemoToken     string `toml:"demo_token"`
}

// PostgresConfig holds the subscription store connection parameters.
// When DSN and Host are both empty the server falls back to an in-memory
// subscription store (demo mode).
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
	MaxConns int    `toml:"pool_max_conns"`
	MinConns int    `toml:"pool_min_conns"`
}

// RedisConfig holds Redis connection parameters for the usage ledger and
// news cache. When Addr is empty both fall back to in-memory stores.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// FMPConfig holds the Financial Modeling Prep API parameters.
type FMPConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// DexConfig holds the DexScreener pair-search API parameters.
type DexConfig struct {
	BaseURL string `toml:"base_url"`
}

// LLMConfig holds the hosted text-generation API parameters.
type LLMConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// UsageConfig controls ledger retention and the purge sweep schedule.
type UsageConfig struct {
	RetentionDays int    `toml:"retention_days"`
	PurgeCron     string `toml:"purge_cron"`
}

// Defaults returns the built-in configuration used as the base layer before
// TOML and environment overrides are applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Auth: AuthConfig{
			Issuer:        "chartpulse",
			Audience:      "chartpulse-api",
			AllowLegacyID: true,
		},
		Postgres: PostgresConfig{
			Port:     5432,
			Database: "chartpulse",
			User:     "postgres",
			SSLMode:  "disable",
			MaxConns: 10,
			MinConns: 2,
		},
		Redis: RedisConfig{
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		FMP: FMPConfig{
			BaseURL: "https://financialmodelingprep.com/api/v3",
		},
		Dex: DexConfig{
			BaseURL: "https://api.dexscreener.com",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.x.ai/v1",
			Model:   "grok-2-latest",
		},
		Usage: UsageConfig{
			RetentionDays: 7,
			PurgeCron:     "@hourly",
		},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// RetentionWindow returns the ledger retention as a duration.
func (c *Config) RetentionWindow() time.Duration {
	days := c.Usage.RetentionDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth: jwt_secret must be set")
	}
	if c.Auth.Issuer == "" {
		errs = append(errs, "auth: issuer must not be empty")
	}
	if c.Auth.Audience == "" {
		errs = append(errs, "auth: audience must not be empty")
	}

	if c.FMP.BaseURL == "" {
		errs = append(errs, "fmp: base_url must not be empty")
	}
	if c.FMP.APIKey == "" {
		errs = append(errs, "fmp: api_key must be set")
	}
	if c.Dex.BaseURL == "" {
		errs = append(errs, "dexscreener: base_url must not be empty")
	}
	if c.LLM.BaseURL == "" {
		errs = append(errs, "llm: base_url must not be empty")
	}

	if c.Usage.RetentionDays < 0 {
		errs = append(errs, "usage: retention_days must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
