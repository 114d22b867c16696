// Package config holds the command-line configuration and its validation.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/gogen/pkg/validator"
)

// Config is populated from flags and GOCBC_* environment variables.
type Config struct {
	// Common flags
	Show     bool
	Verbose  bool
	Quiet    bool
	Parallel int `validate:"gte=1"`

	Key     string `label:"--key"      mask:"fixed" validate:"exclusive=KeyFile"`
	KeyFile string `label:"--key-file" mapstructure:"key-file"`

	EncryptSuffix string `label:"--encrypt-ext" mapstructure:"encrypt-ext" validate:"required"`
	DecryptSuffix string `label:"--decrypt-ext" mapstructure:"decrypt-ext"`

	EncryptChunk int `label:"--encrypt-chunk" mapstructure:"encrypt-chunk" validate:"gt=0,blockmultiple"`
	DecryptChunk int `label:"--decrypt-chunk" mapstructure:"decrypt-chunk" validate:"gt=0,blockmultiple"`

	Include     []string
	Exclude     []string
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`

	Dry                bool
	Stats              bool
	Progress           bool
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Command-specific flags
	Size int

	// Set by the command, not by flags
	Decrypt  bool     `mapstructure:"-"`
	NeedsKey bool     `mapstructure:"-"`
	Files    []string `mapstructure:"-"`
}

var (
	// ErrUsage indicates an error in command-line usage or configuration.
	ErrUsage = errors.New("usage error")

	// ErrMissingKey is returned when a command needs a key and neither --key nor --key-file is set.
	ErrMissingKey = errors.New("one of --key or --key-file is required")
)

// Display returns the value of the Show field.
func (c *Config) Display() bool {
	return c.Show
}

// Validate checks config against its struct tags, then checks that a key source
// is present when the command needs one.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := register(validator); err != nil {
		return fmt.Errorf("registering validations: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	case len(errs) > 1:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}

	if c.NeedsKey && c.Key == "" && c.KeyFile == "" {
		return fmt.Errorf("%w: %w", ErrUsage, ErrMissingKey)
	}

	return nil
}

// ReadKey returns the hex key from --key or the contents of --key-file.
func (c *Config) ReadKey() (string, error) {
	if c.Key != "" {
		return c.Key, nil
	}

	if c.KeyFile == "" {
		return "", ErrMissingKey
	}

	data, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return "", fmt.Errorf("reading key file: %w", err)
	}

	return string(data), nil
}
