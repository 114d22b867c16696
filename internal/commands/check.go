package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "check [flags] [paths...]",
		Short:   "Validate that include/exclude patterns match files",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, false),
		RunE: run(cfg, func(cmd *cobra.Command, _ zerolog.Logger) error {
			return logic.RunCheck(cfg, cmd.ErrOrStderr())
		}),
	}
}
