// Package cli wires the cobra command surface, plus the
// run/schedule/validate subcommands around the minimal run-only
// surface a simulated fleet needs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fleetsim/citysim/config"
	"github.com/fleetsim/citysim/pkg/logger"
)

// NewRootCommand builds the citysim command tree.
func NewRootCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "citysim",
		Short:        "Discrete-event simulation of an on-demand ride-hailing fleet",
		SilenceUsage: true,
	}

	root.AddCommand(newRunCommand(cfg, log))
	root.AddCommand(newScheduleCommand(cfg, log))
	root.AddCommand(newValidateCommand(cfg, log))

	return root
}
