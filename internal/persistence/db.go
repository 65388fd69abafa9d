// Package persistence provides SQLite-based snapshot storage: one row per
// entity per tick, enough to reconstruct a full time series later.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"substratum/internal/phenomenal"
)

// DB wraps a SQLite connection for snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		entity_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		taken TEXT NOT NULL,
		mode TEXT NOT NULL,
		integrity REAL NOT NULL,
		stress REAL NOT NULL,
		urgency REAL NOT NULL,
		relief REAL NOT NULL,
		valence REAL NOT NULL,
		trauma_memory REAL NOT NULL,
		gratitude REAL NOT NULL,
		wisdom REAL NOT NULL,
		has_been_critical INTEGER NOT NULL,
		has_transcended INTEGER NOT NULL,
		PRIMARY KEY (entity_id, tick)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_entity ON snapshots(entity_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type snapshotRow struct {
	EntityID        string  `db:"entity_id"`
	Tick            uint64  `db:"tick"`
	Taken           string  `db:"taken"`
	Mode            string  `db:"mode"`
	Integrity       float64 `db:"integrity"`
	Stress          float64 `db:"stress"`
	Urgency         float64 `db:"urgency"`
	Relief          float64 `db:"relief"`
	Valence         float64 `db:"valence"`
	TraumaMemory    float64 `db:"trauma_memory"`
	Gratitude       float64 `db:"gratitude"`
	Wisdom          float64 `db:"wisdom"`
	HasBeenCritical int     `db:"has_been_critical"`
	HasTranscended  int     `db:"has_transcended"`
}

func (r snapshotRow) toSnapshot() phenomenal.Snapshot {
	taken, _ := time.Parse(time.RFC3339Nano, r.Taken)
	return phenomenal.Snapshot{
		EntityID:        r.EntityID,
		Tick:            r.Tick,
		Taken:           taken,
		Mode:            phenomenal.Mode(r.Mode),
		Integrity:       r.Integrity,
		Stress:          r.Stress,
		Urgency:         r.Urgency,
		Relief:          r.Relief,
		Valence:         r.Valence,
		TraumaMemory:    r.TraumaMemory,
		Gratitude:       r.Gratitude,
		Wisdom:          r.Wisdom,
		HasBeenCritical: r.HasBeenCritical != 0,
		HasTranscended:  r.HasTranscended != 0,
	}
}

// SaveSnapshots appends a batch of snapshots. A replayed (entity, tick) pair
// replaces the earlier row.
func (db *DB) SaveSnapshots(snaps []phenomenal.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO snapshots
		(entity_id, tick, taken, mode, integrity, stress, urgency, relief,
		 valence, trauma_memory, gratitude, wisdom, has_been_critical, has_transcended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snaps {
		critical, transcended := 0, 0
		if s.HasBeenCritical {
			critical = 1
		}
		if s.HasTranscended {
			transcended = 1
		}

		_, err := stmt.Exec(
			s.EntityID, s.Tick, s.Taken.Format(time.RFC3339Nano), string(s.Mode),
			s.Integrity, s.Stress, s.Urgency, s.Relief,
			s.Valence, s.TraumaMemory, s.Gratitude, s.Wisdom,
			critical, transcended,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %s/%d: %w", s.EntityID, s.Tick, err)
		}
	}

	return tx.Commit()
}

// LoadSeries returns the full snapshot series for one entity, tick-ordered.
func (db *DB) LoadSeries(entityID string) ([]phenomenal.Snapshot, error) {
	var rows []snapshotRow
	err := db.conn.Select(&rows,
		`SELECT entity_id, tick, taken, mode, integrity, stress, urgency, relief,
		        valence, trauma_memory, gratitude, wisdom, has_been_critical, has_transcended
		 FROM snapshots WHERE entity_id = ? ORDER BY tick`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("load series %s: %w", entityID, err)
	}

	snaps := make([]phenomenal.Snapshot, 0, len(rows))
	for _, r := range rows {
		snaps = append(snaps, r.toSnapshot())
	}
	return snaps, nil
}

// RecentSnapshots returns the most recent N snapshots for one entity,
// newest first.
func (db *DB) RecentSnapshots(entityID string, limit int) ([]phenomenal.Snapshot, error) {
	var rows []snapshotRow
	err := db.conn.Select(&rows,
		`SELECT entity_id, tick, taken, mode, integrity, stress, urgency, relief,
		        valence, trauma_memory, gratitude, wisdom, has_been_critical, has_transcended
		 FROM snapshots WHERE entity_id = ? ORDER BY tick DESC LIMIT ?`,
		entityID, limit,
	)
	if err != nil {
		return nil, err
	}

	snaps := make([]phenomenal.Snapshot, 0, len(rows))
	for _, r := range rows {
		snaps = append(snaps, r.toSnapshot())
	}
	return snaps, nil
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// SaveRun persists one entity's accumulated series plus run metadata.
func (db *DB) SaveRun(entityID string, snaps []phenomenal.Snapshot) error {
	slog.Info("saving snapshot series", "entity", entityID, "snapshots", len(snaps))

	if err := db.SaveSnapshots(snaps); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}
	if err := db.SaveMeta("last_entity", entityID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if len(snaps) > 0 {
		last := snaps[len(snaps)-1]
		if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", last.Tick)); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}

	slog.Info("snapshot series saved")
	return nil
}
