package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/encryption"
	"github.com/idelchi/gocbc/internal/logic"
)

// NewGenerateCommand creates a new cobra command that prints a random key.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate a random hex-encoded key",
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(cfg, cfg)
		},
		RunE: run(cfg, func(cmd *cobra.Command, _ zerolog.Logger) error {
			return logic.RunGenerate(cfg, cmd.OutOrStdout())
		}),
	}

	cmd.Flags().Int("size", encryption.KeySize256, "Key size in bytes: 16, 24 or 32")

	return cmd
}
