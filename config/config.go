package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Dispatch   DispatchConfig
	Pricing    PricingConfig
	Preference PreferenceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// PostgresConfig holds PostgreSQL connection settings for the audit log.
type PostgresConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	DBName   string `mapstructure:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	MaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	MinConns int32  `mapstructure:"POSTGRES_MIN_CONNS"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// DispatchConfig holds the external dispatch API settings. An empty BaseURL
// disables dispatch integration (availability falls back, bookings record
// locally).
type DispatchConfig struct {
	BaseURL string        `mapstructure:"DISPATCH_BASE_URL"`
	APIKey  string        `mapstructure:"DISPATCH_API_KEY"`
	Timeout time.Duration `mapstructure:"DISPATCH_TIMEOUT"`
}

// PricingConfig holds rate data locations and display policy. Empty file
// paths select the shipped tables.
type PricingConfig struct {
	RatesFile      string `mapstructure:"RATES_FILE"`
	HolidaysFile   string `mapstructure:"HOLIDAYS_FILE"`
	ShowCommission bool   `mapstructure:"SHOW_PARTNER_COMMISSION"`
}

// PreferenceConfig holds the two platform-preference retention horizons.
type PreferenceConfig struct {
	SessionTTL time.Duration `mapstructure:"PREF_SESSION_TTL"`
	LongTTL    time.Duration `mapstructure:"PREF_LONG_TTL"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "tnt")
	viper.SetDefault("POSTGRES_PASSWORD", "tnt_secret")
	viper.SetDefault("POSTGRES_DB", "tnt_quotes")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 25)
	viper.SetDefault("POSTGRES_MIN_CONNS", 5)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 50)

	viper.SetDefault("DISPATCH_BASE_URL", "")
	viper.SetDefault("DISPATCH_API_KEY", "")
	viper.SetDefault("DISPATCH_TIMEOUT", "10s")

	viper.SetDefault("RATES_FILE", "")
	viper.SetDefault("HOLIDAYS_FILE", "")
	viper.SetDefault("SHOW_PARTNER_COMMISSION", false)

	viper.SetDefault("PREF_SESSION_TTL", "30m")
	viper.SetDefault("PREF_LONG_TTL", "720h")

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Postgres ────────────────────────────────────────
	cfg.Postgres = PostgresConfig{
		Host:     viper.GetString("POSTGRES_HOST"),
		Port:     viper.GetInt("POSTGRES_PORT"),
		User:     viper.GetString("POSTGRES_USER"),
		Password: viper.GetString("POSTGRES_PASSWORD"),
		DBName:   viper.GetString("POSTGRES_DB"),
		SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		MinConns: viper.GetInt32("POSTGRES_MIN_CONNS"),
	}

	// ── Redis ───────────────────────────────────────────
	cfg.Redis = RedisConfig{
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetInt("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
		PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
	}

	// ── Dispatch ────────────────────────────────────────
	cfg.Dispatch = DispatchConfig{
		BaseURL: viper.GetString("DISPATCH_BASE_URL"),
		APIKey:  viper.GetString("DISPATCH_API_KEY"),
		Timeout: viper.GetDuration("DISPATCH_TIMEOUT"),
	}

	// ── Pricing ─────────────────────────────────────────
	cfg.Pricing = PricingConfig{
		RatesFile:      viper.GetString("RATES_FILE"),
		HolidaysFile:   viper.GetString("HOLIDAYS_FILE"),
		ShowCommission: viper.GetBool("SHOW_PARTNER_COMMISSION"),
	}

	// ── Preference store ────────────────────────────────
	cfg.Preference = PreferenceConfig{
		SessionTTL: viper.GetDuration("PREF_SESSION_TTL"),
		LongTTL:    viper.GetDuration("PREF_LONG_TTL"),
	}

	return cfg, nil
}
