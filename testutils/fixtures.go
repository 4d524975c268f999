package testutils

import (
	"time"

	"github.com/tech-arch1tect/cadence/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test Studio",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ShutdownTimeout: time.Second,
		},
		Log: config.LogConfig{
			Level:  "debug",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          ":memory:",
			AutoMigrate:  true,
			MaxOpenConns: 1,
		},
		Mail: config.MailConfig{
			Transport:   "log",
			FromAddress: "studio@example.com",
			FromName:    "Test Studio",
			Timeout:     time.Second,
		},
		Identity: config.IdentityConfig{
			Provider:   "local",
			PageSize:   50,
			Timeout:    time.Second,
			BcryptCost: bcrypt.MinCost,
		},
		PasswordReset: config.PasswordResetConfig{
			Store:           "memory",
			CodeExpiry:      15 * time.Minute,
			MinLength:       8,
			MaxBytes:        72,
			RequireUpper:    true,
			RequireLower:    true,
			RequireNumber:   true,
			RequireSpecial:  false,
			NotifyOnSuccess: true,
			CleanupEnabled:  false,
			CleanupInterval: time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:   false,
			Store:     "memory",
			Rate:      10,
			Period:    time.Minute,
			CountMode: config.CountAll,
		},
		Contact: config.ContactConfig{
			Inbox:         "desk@example.com",
			SendAutoReply: true,
		},
		OpenAPI: config.OpenAPIConfig{
			Enabled: true,
			Path:    "/openapi",
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

var TestPasswords = struct {
	Valid       string
	TooShort    string
	NoUpper     string
	NoLower     string
	NoNumber    string
	WithSpecial string
}{
	Valid:       "Password123",
	TooShort:    "Pass1",
	NoUpper:     "password123",
	NoLower:     "PASSWORD123",
	NoNumber:    "Password",
	WithSpecial: "NewPass1!",
}

var TestUsers = struct {
	ValidEmail   string
	UnknownEmail string
	InvalidEmail string
}{
	ValidEmail:   "musician@example.com",
	UnknownEmail: "nobody@example.com",
	InvalidEmail: "not-an-email",
}
