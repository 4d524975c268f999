package passwordreset

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tech-arch1tect/cadence/config"
)

type PasswordPolicy struct {
	MinLength      int
	MaxBytes       int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

func PolicyFromConfig(cfg *config.PasswordResetConfig) PasswordPolicy {
	return PasswordPolicy{
		MinLength:      cfg.MinLength,
		MaxBytes:       cfg.MaxBytes,
		RequireUpper:   cfg.RequireUpper,
		RequireLower:   cfg.RequireLower,
		RequireNumber:  cfg.RequireNumber,
		RequireSpecial: cfg.RequireSpecial,
	}
}

func (p PasswordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters", p.MinLength)
	}
	// Length in bytes, as the hash backend sees it.
	if p.MaxBytes > 0 && len(password) > p.MaxBytes {
		return fmt.Errorf("password must be at most %d bytes", p.MaxBytes)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if p.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if p.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}
	return nil
}
