// Package config loads the portal settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Debug bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	WebOrigin       string        `mapstructure:"web_origin"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// SecureCookies reports whether cookies must carry the Secure flag
func (s ServerConfig) SecureCookies() bool { return strings.HasPrefix(s.WebOrigin, "https://") }

// GatewayConfig points at the API gateway in front of the microservices
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// ScopedLoans counts dashboard loans through /prestamos/prestamos/usuario/{id}
	// instead of listing every loan and filtering locally.
	ScopedLoans bool `mapstructure:"scoped_loans"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	SubmitGuard time.Duration `mapstructure:"submit_guard"`
	// CLI session file; empty means ~/.biblioteca/session.json
	File string `mapstructure:"file"`
}

// DatabaseConfig configures the optional activity log. Empty URL disables it.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// LoadEnv reads .env into the process environment. A missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Server: ServerConfig{
			Port:            serverPort(v),
			WebOrigin:       v.GetString("WEB_ORIGIN"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Gateway: GatewayConfig{
			BaseURL:     strings.TrimRight(v.GetString("API_BASE"), "/"),
			ScopedLoans: v.GetBool("DASHBOARD_SCOPED_LOANS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			TTL:         v.GetDuration("SESSION_TTL"),
			SubmitGuard: v.GetDuration("SUBMIT_GUARD_WINDOW"),
			File:        v.GetString("SESSION_FILE"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "biblioteca-portal")
	v.SetDefault("APP_DEBUG", false)

	v.SetDefault("SERVER_PORT", 0)
	v.SetDefault("PORT", 3001)
	v.SetDefault("WEB_ORIGIN", "http://localhost:3001")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("API_BASE", "http://api-gateway:8000")
	v.SetDefault("DASHBOARD_SCOPED_LOANS", false)

	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SUBMIT_GUARD_WINDOW", "2s")
	v.SetDefault("SESSION_FILE", "")

	v.SetDefault("DATABASE_URL", "")
}

// SERVER_PORT wins over the PORT variable most hosts inject
func serverPort(v *viper.Viper) int {
	if p := v.GetInt("SERVER_PORT"); p > 0 {
		return p
	}
	return v.GetInt("PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("API_BASE is required")
	}
	if !strings.HasPrefix(c.Gateway.BaseURL, "http://") && !strings.HasPrefix(c.Gateway.BaseURL, "https://") {
		return fmt.Errorf("API_BASE must be an http(s) URL, got %q", c.Gateway.BaseURL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.SubmitGuard < 0 {
		return fmt.Errorf("SUBMIT_GUARD_WINDOW must not be negative")
	}
	return nil
}
