package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRegistry     = errors.New("endpoint registry is empty")
	ErrDuplicateEndpoint = errors.New("duplicate endpoint name")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrInvalidIterations = errors.New("iterations must be positive")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrNegativeCooldown  = errors.New("cooldown must not be negative")
	ErrRunInterrupted    = errors.New("benchmark run interrupted")
)

// ConfigurationError is returned before any network activity when a run
// cannot start.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}
