package internal

import (
	"fmt"
	"strings"
	"time"
)

// ValidationMode controls how data-quality violations are handled
type ValidationMode string

const (
	ValidateOff    ValidationMode = "off"
	ValidateWarn   ValidationMode = "warn"
	ValidateStrict ValidationMode = "strict"
)

// DefaultSessionGap is the inactivity gap that splits sessions
const DefaultSessionGap = 30 * time.Minute

// ParseValidationMode parses off, warn or strict (case-insensitive)
func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ValidateOff:
		return ValidateOff, nil
	case ValidateWarn, "":
		return ValidateWarn, nil
	case ValidateStrict:
		return ValidateStrict, nil
	default:
		return "", fmt.Errorf("unsupported validation mode: %s (supported: off, warn, strict)", s)
	}
}

// Config is the immutable run configuration passed to every stage.
// Stages take it by value so none of them can change it for the next.
type Config struct {
	Mode                ValidationMode
	SessionGap          time.Duration
	DropUnknownSeverity bool
	Summary             bool
	RequiredColumns     []string
}

// DefaultConfig returns the configuration used when no options are given
func DefaultConfig() Config {
	return Config{
		Mode:            ValidateWarn,
		SessionGap:      DefaultSessionGap,
		RequiredColumns: append([]string(nil), RequiredColumns...),
	}
}

// NewConfig builds a validated Config from CLI-level options
func NewConfig(mode string, sessionGapMinutes int, dropUnknownSeverity, summary bool) (Config, error) {
	m, err := ParseValidationMode(mode)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Mode = m
	cfg.SessionGap = time.Duration(sessionGapMinutes) * time.Minute
	cfg.DropUnknownSeverity = dropUnknownSeverity
	cfg.Summary = summary
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no stage can work with
func (c Config) Validate() error {
	switch c.Mode {
	case ValidateOff, ValidateWarn, ValidateStrict:
	default:
		return fmt.Errorf("invalid validation mode %q", c.Mode)
	}
	if c.SessionGap <= 0 {
		return fmt.Errorf("session gap must be positive, got %s", c.SessionGap)
	}
	if len(c.RequiredColumns) == 0 {
		return fmt.Errorf("required columns must not be empty")
	}
	return nil
}

// required returns the configured required columns, falling back to the fixed schema
func (c Config) required() []string {
	if len(c.RequiredColumns) == 0 {
		return RequiredColumns
	}
	return c.RequiredColumns
}
