package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] [paths...]",
		Aliases: []string{"dec"},
		Short:   "Decrypt containers",
		Args:    cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg, true)(cmd, args)
		},
		RunE: run(cfg, func(cmd *cobra.Command, log zerolog.Logger) error {
			return logic.Run(cmd.Context(), cfg, log)
		}),
	}
}
