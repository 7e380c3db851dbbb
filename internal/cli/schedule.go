package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	csvadapter "github.com/fleetsim/citysim/internal/adapter/csv"
	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/internal/sim"
	"github.com/fleetsim/citysim/config"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
	"github.com/fleetsim/citysim/pkg/logger"
)

// newScheduleCommand builds `citysim schedule <output_file>`, which
// generates a driver schedule via ScheduleBuilder and writes it to
// CSV.
func newScheduleCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	var (
		staffingCurvePath string
		zoneVolumesPath   string
		zones             int
		seed              int64
	)

	cmd := &cobra.Command{
		Use:   "schedule <output_file>",
		Short: "Generate a driver schedule from a preferred staffing curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := args[0]

			if zones == 0 {
				zones = cfg.Simulation.DefaultZoneCount
			}
			if seed == 0 {
				seed = cfg.Simulation.BaseSeed
			}

			ctx := wrap.WithAction(cmd.Context(), types.ActionLoadInputs)

			preferred, err := csvadapter.ReadStaffingCurve(staffingCurvePath)
			if err != nil {
				return fmt.Errorf("loading preferred staffing curve: %w", err)
			}

			var volumes map[int]int
			if zoneVolumesPath != "" {
				volumes, err = csvadapter.ReadZoneVolumes(zoneVolumesPath)
				if err != nil {
					return fmt.Errorf("loading zone volumes: %w", err)
				}
			}

			builder, err := sim.NewScheduleBuilder(preferred)
			if err != nil {
				return fmt.Errorf("constructing schedule builder: %w", err)
			}

			ctx = wrap.WithAction(ctx, types.ActionBuildSchedule)
			rng := rand.New(rand.NewSource(seed))
			result := builder.Build(rng)

			if !result.Converged {
				log.Warn(ctx, "schedule generation did not converge within the chunk budget",
					"shortfall", result.Shortfall)
			}

			shifts := sim.DistributeShifts(result.Shifts, zones, volumes, rng)

			ctx = wrap.WithAction(ctx, types.ActionPersistResults)
			if err := csvadapter.WriteSchedule(outputFile, shifts); err != nil {
				return fmt.Errorf("writing schedule: %w", err)
			}

			log.Info(ctx, "schedule generated", "shifts", len(shifts), "converged", result.Converged)
			return nil
		},
	}

	cmd.Flags().StringVar(&staffingCurvePath, "preferred", "", "path to the preferred staffing curve CSV")
	cmd.Flags().StringVar(&zoneVolumesPath, "zone-volumes", "", "path to the historical per-zone arrival volume CSV (optional)")
	cmd.Flags().IntVar(&zones, "zones", 0, "zone count (defaults to the configured default)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (defaults to the configured default)")
	cmd.MarkFlagRequired("preferred")

	return cmd
}
