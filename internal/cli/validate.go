package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	csvadapter "github.com/fleetsim/citysim/internal/adapter/csv"
	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/config"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
	"github.com/fleetsim/citysim/pkg/logger"
)

// newValidateCommand builds `citysim validate <input_folder>`, which
// checks a folder of flat-file inputs before a run is attempted:
// malformed OD matrix,
// index mismatch between arrivals and the OD matrix, missing files.
func newValidateCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	var zones int

	cmd := &cobra.Command{
		Use:   "validate <input_folder>",
		Short: "Validate a folder of simulation input files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			if zones == 0 {
				zones = cfg.Simulation.DefaultZoneCount
			}

			ctx := wrap.WithAction(cmd.Context(), types.ActionLoadInputs)

			arrivals, err := csvadapter.ReadArrivals(filepath.Join(folder, "arrivals.csv"))
			if err != nil {
				return fmt.Errorf("arrivals: %w", err)
			}
			if len(arrivals) == 0 {
				return types.ErrNoArrivals
			}

			matrix, err := csvadapter.ReadODMatrix(filepath.Join(folder, "od_matrix.csv"), zones)
			if err != nil {
				return fmt.Errorf("od matrix: %w", err)
			}

			for i, a := range arrivals {
				if a.StartZone < 1 || a.StartZone > matrix.Zones || a.EndZone < 1 || a.EndZone > matrix.Zones {
					return fmt.Errorf("%w: arrival row %d references zone outside [1,%d]", types.ErrZoneOutOfRange, i, matrix.Zones)
				}
				if a.ServiceDuration < 0 {
					return fmt.Errorf("%w: arrival row %d", types.ErrNegativeService, i)
				}
			}

			shifts, err := csvadapter.ReadSchedule(filepath.Join(folder, "schedule.csv"))
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}
			for i, s := range shifts {
				if s.StartZone < 1 || s.StartZone > matrix.Zones {
					return fmt.Errorf("%w: shift %d references zone outside [1,%d]", types.ErrZoneOutOfRange, i, matrix.Zones)
				}
			}

			log.Info(ctx, "input folder valid", "arrivals", len(arrivals), "shifts", len(shifts), "zones", matrix.Zones)
			return nil
		},
	}

	cmd.Flags().IntVar(&zones, "zones", 0, "zone count (defaults to the configured default)")

	return cmd
}
