package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CHARTPULSE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known CHARTPULSE_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "CHARTPULSE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CHARTPULSE_SERVER_CORS_ORIGINS")

	// ── Auth ──
	setStr(&cfg.Auth.JWTSecret, "CHARTPULSE_AUTH_JWT_SECRET")
	setStr(&cfg.Auth.Issuer, "CHARTPULSE_AUTH_ISSUER")
	setStr(&cfg.Auth.Audience, "CHARTPULSE_AUTH_AUDIENCE")
	setBool(&cfg.Auth.AllowLegacyID, "CHARTPULSE_AUTH_ALLOW_LEGACY_ID")
	setStr(&cfg.Auth.DemoToken, "CHARTPULSE_AUTH_DEMO_TOKEN")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "CHARTPULSE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "CHARTPULSE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "CHARTPULSE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "CHARTPULSE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "CHARTPULSE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "CHARTPULSE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "CHARTPULSE_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.MaxConns, "CHARTPULSE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.MinConns, "CHARTPULSE_POSTGRES_POOL_MIN_CONNS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "CHARTPULSE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CHARTPULSE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CHARTPULSE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CHARTPULSE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CHARTPULSE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CHARTPULSE_REDIS_TLS_ENABLED")

	// ── Upstream providers ──
	setStr(&cfg.FMP.BaseURL, "CHARTPULSE_FMP_BASE_URL")
	setStr(&cfg.FMP.APIKey, "CHARTPULSE_FMP_API_KEY")
	setStr(&cfg.Dex.BaseURL, "CHARTPULSE_DEX_BASE_URL")
	setStr(&cfg.LLM.BaseURL, "CHARTPULSE_LLM_BASE_URL")
	setStr(&cfg.LLM.APIKey, "CHARTPULSE_LLM_API_KEY")
	setStr(&cfg.LLM.Model, "CHARTPULSE_LLM_MODEL")

	// ── Usage ──
	setInt(&cfg.Usage.RetentionDays, "CHARTPULSE_USAGE_RETENTION_DAYS")
	setStr(&cfg.Usage.PurgeCron, "CHARTPULSE_USAGE_PURGE_CRON")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "CHARTPULSE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
