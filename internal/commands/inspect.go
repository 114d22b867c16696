package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/logic"
)

// NewInspectCommand creates a new cobra command that prints container headers.
func NewInspectCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [flags] containers...",
		Short: "Show the header of containers",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			cfg.Files = args

			return cobraext.Validate(cfg, cfg)
		},
		RunE: run(cfg, func(cmd *cobra.Command, _ zerolog.Logger) error {
			return logic.RunInspect(cfg, afero.NewOsFs(), cmd.OutOrStdout())
		}),
	}
}
