package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] [paths...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files into containers",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, true),
		RunE: run(cfg, func(cmd *cobra.Command, log zerolog.Logger) error {
			return logic.Run(cmd.Context(), cfg, log)
		}),
	}
}
