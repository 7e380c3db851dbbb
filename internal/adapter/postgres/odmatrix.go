package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetsim/citysim/internal/domain/models"
	"github.com/fleetsim/citysim/internal/domain/types"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
)

// InputRepo loads the OD matrix and preferred staffing curve from
// tables instead of flat files, for deployments that keep those
// fixtures in a database.
type InputRepo struct {
	db *pgxpool.Pool
}

func NewInputRepo(db *pgxpool.Pool) *InputRepo {
	return &InputRepo{db: db}
}

// LoadODMatrix reads every populated (origin, destination) cell for
// the given zone count.
func (r *InputRepo) LoadODMatrix(ctx context.Context, zones int) (*models.ODMatrix, error) {
	const op = "InputRepo.LoadODMatrix"
	query := `
		SELECT origin, destination, mean, stdev, min_clip, count
		FROM od_cells`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}
	defer rows.Close()

	matrix := models.NewODMatrix(zones)
	for rows.Next() {
		var origin, dest, count int
		var mean, stdev, minClip float64
		if err := rows.Scan(&origin, &dest, &mean, &stdev, &minClip, &count); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scanning row: %v", op, err))
		}
		matrix.Set(origin, dest, models.OdCell{Mean: mean, Stdev: stdev, MinClip: minClip, Count: count})
	}
	if err := rows.Err(); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}

	return matrix, nil
}

// LoadStaffingCurve reads the 1440-entry preferred staffing curve,
// indexed by minute-of-day.
func (r *InputRepo) LoadStaffingCurve(ctx context.Context) ([]int, error) {
	const op = "InputRepo.LoadStaffingCurve"
	query := `SELECT minute, preferred FROM staffing_curve ORDER BY minute`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}
	defer rows.Close()

	const minutesPerDay = 1440
	curve := make([]int, minutesPerDay)
	for rows.Next() {
		var minute, preferred int
		if err := rows.Scan(&minute, &preferred); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scanning row: %v", op, err))
		}
		if minute < 0 || minute >= minutesPerDay {
			return nil, fmt.Errorf("%s: minute %d out of range", op, minute)
		}
		curve[minute] = preferred
	}
	if err := rows.Err(); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}

	return curve, nil
}

// LoadZoneVolumes reads the historical per-zone arrival volume
// fixture used by DistributeShifts.
func (r *InputRepo) LoadZoneVolumes(ctx context.Context) (map[int]int, error) {
	const op = "InputRepo.LoadZoneVolumes"
	query := `SELECT zone, volume FROM zone_volumes`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}
	defer rows.Close()

	volumes := make(map[int]int)
	for rows.Next() {
		var zone, volume int
		if err := rows.Scan(&zone, &volume); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scanning row: %v", op, err))
		}
		volumes[zone] = volume
	}
	if err := rows.Err(); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %v", op, err))
	}

	return volumes, nil
}
