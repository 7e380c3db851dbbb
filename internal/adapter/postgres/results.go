package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/internal/sim"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
)

// ResultsRepo persists replication results to tables mirroring the
// flat-file passenger-result and driver-movement-log outputs, for
// deployments that want queryable results instead of (or alongside)
// CSV files.
type ResultsRepo struct {
	db *pgxpool.Pool
}

func NewResultsRepo(db *pgxpool.Pool) *ResultsRepo {
	return &ResultsRepo{db: db}
}

// SavePassengerResults inserts one row per served passenger.
func (r *ResultsRepo) SavePassengerResults(ctx context.Context, results []sim.Result) error {
	const op = "ResultsRepo.SavePassengerResults"
	query := `
		INSERT INTO passenger_results
			(arrival_time, start_zone, end_zone, service_duration, waiting_time, replication_index)
		VALUES ($1, $2, $3, $4, $5, $6)`

	q := TxorDB(ctx, r.db)
	for _, run := range results {
		for _, p := range run.ServedPassengers() {
			if _, err := q.Exec(ctx, query,
				p.ArrivalTime, p.StartZone, p.EndZone, p.ServiceDuration, p.WaitingTime(), p.ReplicationIndex,
			); err != nil {
				ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
				return wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
			}
		}
	}
	return nil
}

// SaveDriverHistories inserts one row per movement-history entry,
// across every driver in every replication.
func (r *ResultsRepo) SaveDriverHistories(ctx context.Context, results []sim.Result) error {
	const op = "ResultsRepo.SaveDriverHistories"
	query := `
		INSERT INTO driver_histories
			(replication_index, driver_id, start_time, end_time, start_zone, end_zone, is_moving, has_passenger)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	q := TxorDB(ctx, r.db)
	for _, run := range results {
		for _, d := range run.Drivers {
			for _, m := range d.MovementHistory {
				if _, err := q.Exec(ctx, query,
					run.ReplicationIndex, d.ID, m.StartTime, m.EndTime, m.ZoneFrom, m.ZoneTo, m.IsMoving, m.HasPassenger,
				); err != nil {
					ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
					return wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
				}
			}
		}
	}
	return nil
}
