package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevAdminPassword is the password accepted by the admin gate in development
// when no ADMIN_PASSWORD_HASH is configured.
const DevAdminPassword = "admin123"

const devTokenSecret = "mediway-development-token-secret"

type Config struct {
	Env                   string        `mapstructure:"ENV"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	APIBaseURL            string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout           time.Duration `mapstructure:"HTTP_TIMEOUT"`
	SessionFile           string        `mapstructure:"SESSION_FILE"`
	ConsolePort           string        `mapstructure:"CONSOLE_PORT"`
	AdminUsername         string        `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash     string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret      string        `mapstructure:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTL         time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`
	BookingRedirectDelay  time.Duration `mapstructure:"BOOKING_REDIRECT_DELAY"`
	ReportRefreshInterval time.Duration `mapstructure:"REPORT_REFRESH_INTERVAL"`
	ExportDir             string        `mapstructure:"EXPORT_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("CONSOLE_PORT", "3000")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")
	v.SetDefault("BOOKING_REDIRECT_DELAY", "1800ms")
	v.SetDefault("REPORT_REFRESH_INTERVAL", "60s")
	v.SetDefault("EXPORT_DIR", ".")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("HTTP_TIMEOUT")
	v.BindEnv("SESSION_FILE")
	v.BindEnv("CONSOLE_PORT")
	v.BindEnv("ADMIN_USERNAME")
	v.BindEnv("ADMIN_PASSWORD_HASH")
	v.BindEnv("ADMIN_TOKEN_SECRET")
	v.BindEnv("ADMIN_TOKEN_TTL")
	v.BindEnv("BOOKING_REDIRECT_DELAY")
	v.BindEnv("REPORT_REFRESH_INTERVAL")
	v.BindEnv("EXPORT_DIR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.IsDev() && cfg.AdminTokenSecret == "" {
		cfg.AdminTokenSecret = devTokenSecret
	}

	if cfg.IsDev() && cfg.AdminPasswordHash == "" {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Admin gate accepts the built-in development password.")
		log.Println("WARNING: Set ADMIN_PASSWORD_HASH and ADMIN_TOKEN_SECRET outside development.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the client is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is usable. Outside development the
// admin gate must be backed by a bcrypt hash and a signing secret.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.SessionFile == "" {
		return fmt.Errorf("SESSION_FILE is required")
	}

	if !c.IsDev() {
		if c.AdminPasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is required when ENV=%q", c.Env)
		}
		if len(c.AdminTokenSecret) < 32 {
			return fmt.Errorf("ADMIN_TOKEN_SECRET must be at least 32 characters when ENV=%q", c.Env)
		}
	}
	if c.AdminTokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be positive, got %s", c.AdminTokenTTL)
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".mediway-session.json"
	}
	return filepath.Join(dir, "mediway", "session.json")
}
