// Package sqlite holds a small embedded store of historical per-zone
// arrival volume, used by ScheduleBuilder's driver-to-zone assignment
// step to weight the random distribution.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ZoneVolumeStore is a sqlite-backed fixture of historical arrival
// counts per zone.
type ZoneVolumeStore struct {
	db *sql.DB
}

// OpenZoneVolumeStore opens (or creates) a sqlite database at path. An
// empty path opens an in-memory database, useful for tests and one-off
// runs that load the fixture from CSV instead.
func OpenZoneVolumeStore(path string) (*ZoneVolumeStore, error) {
	source := ":memory:"
	if path != "" {
		source = path
	}

	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("opening zone volume database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS zone_volume (
	zone   INTEGER PRIMARY KEY,
	volume INTEGER NOT NULL
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating zone_volume table: %w", err)
	}

	return &ZoneVolumeStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *ZoneVolumeStore) Close() error {
	return s.db.Close()
}

// Replace clears the store and loads volumes in a single transaction.
func (s *ZoneVolumeStore) Replace(volumes map[int]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM zone_volume`); err != nil {
		return fmt.Errorf("clearing zone_volume: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO zone_volume (zone, volume) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for zone, volume := range volumes {
		if _, err := stmt.Exec(zone, volume); err != nil {
			return fmt.Errorf("inserting zone %d: %w", zone, err)
		}
	}

	return tx.Commit()
}

// Load returns the full zone-to-volume map.
func (s *ZoneVolumeStore) Load() (map[int]int, error) {
	rows, err := s.db.Query(`SELECT zone, volume FROM zone_volume`)
	if err != nil {
		return nil, fmt.Errorf("querying zone_volume: %w", err)
	}
	defer rows.Close()

	volumes := make(map[int]int)
	for rows.Next() {
		var zone, volume int
		if err := rows.Scan(&zone, &volume); err != nil {
			return nil, fmt.Errorf("scanning zone_volume row: %w", err)
		}
		volumes[zone] = volume
	}
	return volumes, rows.Err()
}
