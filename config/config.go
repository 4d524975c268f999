package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig           `envPrefix:"APP_"`
	Server        ServerConfig        `envPrefix:"SERVER_"`
	Log           LogConfig           `envPrefix:"LOG_"`
	Database      DatabaseConfig      `envPrefix:"DATABASE_"`
	Mail          MailConfig          `envPrefix:"MAIL_"`
	Identity      IdentityConfig      `envPrefix:"IDENTITY_"`
	PasswordReset PasswordResetConfig `envPrefix:"PASSWORD_RESET_"`
	RateLimit     RateLimitConfig     `envPrefix:"RATE_LIMIT_"`
	Contact       ContactConfig       `envPrefix:"CONTACT_"`
	OpenAPI       OpenAPIConfig       `envPrefix:"OPENAPI_"`
	Metrics       MetricsConfig       `envPrefix:"METRICS_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"Cadence Studio"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" envSeparator:","`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"DSN" envDefault:"cadence.db"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

type MailConfig struct {
	Transport   string        `env:"TRANSPORT" envDefault:"log"`
	Host        string        `env:"HOST"`
	Port        int           `env:"PORT" envDefault:"587"`
	Username    string        `env:"USERNAME"`
	Password    string        `env:"PASSWORD"`
	Encryption  string        `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string        `env:"FROM_ADDRESS"`
	FromName    string        `env:"FROM_NAME"`
	APIURL      string        `env:"API_URL" envDefault:"https://api.resend.com/emails"`
	APIKey      string        `env:"API_KEY"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type IdentityConfig struct {
	Provider           string        `env:"PROVIDER" envDefault:"local"`
	SupabaseURL        string        `env:"SUPABASE_URL"`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_KEY"`
	PageSize           int           `env:"PAGE_SIZE" envDefault:"200"`
	Timeout            time.Duration `env:"TIMEOUT" envDefault:"10s"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
}

// BcryptMaxPasswordBytes is the longest input bcrypt will hash.
const BcryptMaxPasswordBytes = 72

type PasswordResetConfig struct {
	Store           string        `env:"STORE" envDefault:"database"`
	CodeExpiry      time.Duration `env:"CODE_EXPIRY" envDefault:"15m"`
	MinLength       int           `env:"MIN_LENGTH" envDefault:"8"`
	MaxBytes        int           `env:"MAX_BYTES" envDefault:"72"`
	RequireUpper    bool          `env:"REQUIRE_UPPER" envDefault:"true"`
	RequireLower    bool          `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber   bool          `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial  bool          `env:"REQUIRE_SPECIAL" envDefault:"false"`
	NotifyOnSuccess bool          `env:"NOTIFY_ON_SUCCESS" envDefault:"true"`
	CleanupEnabled  bool          `env:"CLEANUP_ENABLED" envDefault:"true"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
}

// CountingMode selects which responses count against a rate limit.
type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

type RateLimitConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Store     string        `env:"STORE" envDefault:"memory"`
	Rate      int           `env:"RATE" envDefault:"10"`
	Period    time.Duration `env:"PERIOD" envDefault:"15m"`
	CountMode CountingMode  `env:"COUNT_MODE" envDefault:"all"`
}

type ContactConfig struct {
	Inbox         string `env:"INBOX"`
	SendAutoReply bool   `env:"SEND_AUTO_REPLY" envDefault:"true"`
}

type OpenAPIConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/openapi"`
}

type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return c.Validate()
	}

	return nil
}

// Validate checks cross-field requirements that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if err := validateDatabaseConfig(&c.Database); err != nil {
		errs = append(errs, err)
	}
	if err := validateMailConfig(&c.Mail); err != nil {
		errs = append(errs, err)
	}
	if err := validateIdentityConfig(&c.Identity); err != nil {
		errs = append(errs, err)
	}
	if err := validatePasswordResetConfig(&c.PasswordReset); err != nil {
		errs = append(errs, err)
	}
	if c.Identity.Provider == "local" && c.PasswordReset.MaxBytes > BcryptMaxPasswordBytes {
		errs = append(errs, fmt.Errorf("password reset max bytes cannot exceed %d with the local identity provider", BcryptMaxPasswordBytes))
	}
	if err := validateRateLimitConfig(&c.RateLimit); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateDatabaseConfig(cfg *DatabaseConfig) error {
	switch cfg.Driver {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres, mysql)", cfg.Driver)
	}
	if cfg.DSN == "" {
		return errors.New("database DSN is required")
	}
	return nil
}

func validateMailConfig(cfg *MailConfig) error {
	switch cfg.Transport {
	case "smtp":
		if cfg.Host == "" {
			return errors.New("mail host is required for smtp transport")
		}
		if cfg.Port <= 0 {
			return errors.New("mail port must be positive for smtp transport")
		}
		if cfg.FromAddress == "" {
			return errors.New("mail from address is required for smtp transport")
		}
		switch cfg.Encryption {
		case "tls", "starttls", "ssl", "none":
		default:
			return fmt.Errorf("mail encryption must be: tls, starttls, ssl, or none (got %q)", cfg.Encryption)
		}
	case "api":
		if cfg.APIURL == "" || cfg.APIKey == "" {
			return errors.New("mail API URL and API key are required for api transport")
		}
		if cfg.FromAddress == "" {
			return errors.New("mail from address is required for api transport")
		}
	case "log":
	default:
		return fmt.Errorf("mail transport must be: smtp, api, or log (got %q)", cfg.Transport)
	}
	return nil
}

func validateIdentityConfig(cfg *IdentityConfig) error {
	switch cfg.Provider {
	case "local":
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return errors.New("supabase URL and service key are required for the supabase identity provider")
		}
		if !strings.HasPrefix(cfg.SupabaseURL, "http://") && !strings.HasPrefix(cfg.SupabaseURL, "https://") {
			return fmt.Errorf("supabase URL must be an http(s) URL (got %q)", cfg.SupabaseURL)
		}
	default:
		return fmt.Errorf("identity provider must be: local or supabase (got %q)", cfg.Provider)
	}
	return nil
}

func validatePasswordResetConfig(cfg *PasswordResetConfig) error {
	if cfg.Store != "database" && cfg.Store != "memory" {
		return fmt.Errorf("password reset store must be: database or memory (got %q)", cfg.Store)
	}
	if cfg.CodeExpiry <= 0 {
		return errors.New("password reset code expiry must be positive")
	}
	if cfg.MaxBytes < cfg.MinLength || cfg.MaxBytes <= 0 {
		return fmt.Errorf("password reset max bytes must be positive and at least the min length (got %d)", cfg.MaxBytes)
	}
	if cfg.CleanupEnabled && cfg.CleanupInterval <= 0 {
		return errors.New("password reset cleanup interval must be positive when cleanup is enabled")
	}
	return nil
}

func validateRateLimitConfig(cfg *RateLimitConfig) error {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.CountMode {
	case CountAll, CountFailures, CountSuccess:
	default:
		return fmt.Errorf("rate limit count mode must be: all, failures, or success (got %q)", cfg.CountMode)
	}
	return nil
}
