package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for invalid or inconsistent values.
//
// Struct tag validation (via go-playground/validator) covers field-level
// constraints; cross-field rules that tags cannot express are checked
// explicitly afterwards.
//
// Validate does not mutate the configuration. Normalization (e.g. log level
// case) happens in ApplyDefaults.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid configuration structure: %w", err)
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	// Cross-field rules
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return errors.New("telemetry is enabled but no endpoint is configured")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return errors.New("metrics server is enabled but no port is configured")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Server.Port {
		return fmt.Errorf("metrics port %d collides with server port", cfg.Metrics.Port)
	}
	if cfg.Session.SweepInterval > cfg.Session.IdleTimeout {
		return fmt.Errorf("session sweep_interval (%s) must not exceed idle_timeout (%s)",
			cfg.Session.SweepInterval, cfg.Session.IdleTimeout)
	}

	return nil
}

// formatFieldError renders a single validation failure, keeping the tag name
// in the message so callers can match on it.
func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s failed 'oneof' validation: must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s failed 'min' validation: must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s failed 'max' validation: must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s failed 'gt' validation: must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s failed 'gte' validation: must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s failed 'lte' validation: must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}
