package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	csvadapter "github.com/fleetsim/citysim/internal/adapter/csv"
	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/internal/report"
	"github.com/fleetsim/citysim/internal/sim"
	"github.com/fleetsim/citysim/config"
	"github.com/fleetsim/citysim/pkg/hasher"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
	"github.com/fleetsim/citysim/pkg/logger"
	"github.com/fleetsim/citysim/pkg/uuid"
)

// newRunCommand builds the `citysim run <replications> <output_folder>`
// command.
func newRunCommand(cfg *config.Config, log logger.Logger) *cobra.Command {
	var (
		arrivalsPath  string
		odMatrixPath  string
		schedulePath  string
		zones         int
		seed          int64
	)

	cmd := &cobra.Command{
		Use:   "run <replications> <output_folder>",
		Short: "Run the fleet simulation for the given number of replications",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			replications, err := strconv.Atoi(args[0])
			if err != nil || replications <= 0 {
				return fmt.Errorf("replications must be a positive integer, got %q", args[0])
			}
			outputFolder := args[1]

			if zones == 0 {
				zones = cfg.Simulation.DefaultZoneCount
			}
			if seed == 0 {
				seed = cfg.Simulation.BaseSeed
			}

			runID, err := uuid.New()
			if err != nil {
				return fmt.Errorf("generating run id: %w", err)
			}

			ctx := wrap.WithAction(cmd.Context(), types.ActionLoadInputs)
			ctx = wrap.WithRequestID(ctx, runID.String())

			if err := prepareOutputFolder(outputFolder); err != nil {
				return err
			}

			arrivals, err := csvadapter.ReadArrivals(arrivalsPath)
			if err != nil {
				return fmt.Errorf("loading arrivals: %w", err)
			}
			if len(arrivals) == 0 {
				return types.ErrNoArrivals
			}

			matrix, err := csvadapter.ReadODMatrix(odMatrixPath, zones)
			if err != nil {
				return fmt.Errorf("loading od matrix: %w", err)
			}

			shifts, err := csvadapter.ReadSchedule(schedulePath)
			if err != nil {
				return fmt.Errorf("loading schedule: %w", err)
			}

			provenance, err := inputFingerprints(arrivalsPath, odMatrixPath, schedulePath)
			if err != nil {
				return fmt.Errorf("fingerprinting inputs: %w", err)
			}

			oracle := sim.NewTravelTimeOracle(matrix)

			ctx = wrap.WithAction(ctx, types.ActionRunReplication)
			log.Info(ctx, "starting replications", "run_id", runID.String(), "count", replications, "seed", seed, "input_sha256", provenance)

			results, err := sim.RunReplications(arrivals, shifts, oracle, seed, replications)
			if err != nil {
				return fmt.Errorf("running replications: %w", err)
			}

			ctx = wrap.WithAction(ctx, types.ActionPersistResults)
			if err := csvadapter.WritePassengerResults(filepath.Join(outputFolder, "passenger_results"), results); err != nil {
				return fmt.Errorf("writing passenger results: %w", err)
			}
			if err := csvadapter.WriteDriverHistories(filepath.Join(outputFolder, "driver_histories"), results); err != nil {
				return fmt.Errorf("writing driver histories: %w", err)
			}

			if err := writeLogfile(outputFolder, runID.String(), results); err != nil {
				return err
			}

			stats := report.Summarize(results)
			log.Info(ctx, "run complete", "run_id", runID.String(), "replications", stats.Replications, "served", stats.ServedPassengers)

			return nil
		},
	}

	cmd.Flags().StringVar(&arrivalsPath, "arrivals", "", "path to the passenger arrivals CSV")
	cmd.Flags().StringVar(&odMatrixPath, "od-matrix", "", "path to the OD matrix CSV")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "path to the generated driver schedule CSV")
	cmd.Flags().IntVar(&zones, "zones", 0, "zone count (defaults to the configured default)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed (defaults to the configured default)")
	cmd.MarkFlagRequired("arrivals")
	cmd.MarkFlagRequired("od-matrix")
	cmd.MarkFlagRequired("schedule")

	return cmd
}

// prepareOutputFolder creates outputFolder, failing if it already
// exists and is non-empty.
func prepareOutputFolder(outputFolder string) error {
	entries, err := os.ReadDir(outputFolder)
	if err == nil {
		if len(entries) > 0 {
			return types.ErrOutputFolderExists
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking output folder: %w", err)
	}
	return os.MkdirAll(outputFolder, 0o755)
}

// inputFingerprints returns the SHA-256 digest of each input file,
// keyed by flag name, so a run's provenance can be checked later
// against a copy of its inputs.
func inputFingerprints(paths ...string) (map[string]string, error) {
	names := []string{"arrivals", "od_matrix", "schedule"}
	out := make(map[string]string, len(paths))
	for i, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		out[names[i]] = hasher.SumBytes(b)
	}
	return out, nil
}

// writeLogfile mirrors standard output into logfile.txt via a per-run
// diagnostics report, tagged with runID so it can be matched back to
// the "starting replications" log line that began this run.
func writeLogfile(outputFolder, runID string, results []sim.Result) error {
	stats := report.Summarize(results)
	stats.RunID = runID

	f, err := os.Create(filepath.Join(outputFolder, "logfile.txt"))
	if err != nil {
		return fmt.Errorf("creating logfile: %w", err)
	}
	defer f.Close()

	w := io.MultiWriter(f, os.Stdout)
	if err := report.Write(w, stats); err != nil {
		return fmt.Errorf("writing diagnostics report: %w", err)
	}
	return nil
}
