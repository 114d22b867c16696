// Package commands provides the command-line interface for the gocbc tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - key generation
//   - container inspection
//   - pattern checking
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/logging"
)

// preRun returns a PreRunE handler that resolves positional args into cfg.Files
// and validates the configuration.
func preRun(cfg *config.Config, needsKey bool) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			cfg.Files = []string{"."}
		} else {
			cfg.Files = args
		}

		cfg.NeedsKey = needsKey

		return cobraext.Validate(cfg, cfg)
	}
}

// run wraps a RunE body with a logger configured from cfg.
func run(cfg *config.Config, fn func(cmd *cobra.Command, log zerolog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return fn(cmd, logging.New(os.Stderr, logging.Level(cfg.Verbose, cfg.Quiet)))
	}
}
