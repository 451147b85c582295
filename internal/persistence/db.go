// Package persistence provides SQLite-based park state storage.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/peep"
)

// ErrNoSave is returned by LoadWorld when the database holds no park.
var ErrNoSave = errors.New("no saved park")

// eventWindow is how many events a loaded park keeps in memory.
const eventWindow = 1000

// DB wraps a SQLite connection for park state persistence.
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
	CREATE TABLE IF NOT EXISTS peeps (
		idx INTEGER PRIMARY KEY,
		peep_id INTEGER NOT NULL,
		type INTEGER NOT NULL,
		name TEXT NOT NULL,
		record BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rides (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		ride_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		tile_json TEXT NOT NULL,
		PRIMARY KEY (x, y)
	);

	CREATE TABLE IF NOT EXISTS patrols (
		staff_id INTEGER PRIMARY KEY,
		area BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_peeps_type ON peeps(type, peep_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair in park metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a park has been saved.
func (db *DB) HasWorldState() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM world_meta WHERE key = 'save_id'"); err != nil {
		return false
	}
	return n > 0
}

// SaveWorldState performs a full save of the park. The park is encoded with
// the simulation locked and written afterwards, so ticks are held up only for
// the encoding.
func (db *DB) SaveWorldState(sim *engine.Simulation) error {
	var snap *snapshot
	var saved uint64
	if v, err := db.GetMeta("events_saved"); err == nil {
		saved, _ = strconv.ParseUint(v, 10, 64)
	}
	err := sim.Do(func() error {
		var err error
		snap, err = encode(sim.State(), sim.Peeps, saved)
		return err
	})
	if err != nil {
		return fmt.Errorf("encode park: %w", err)
	}

	slog.Info("saving park state",
		"peeps", len(snap.peeps),
		"rides", len(snap.rides),
		"new_events", len(snap.events),
		"tick", snap.meta["last_tick"],
	)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writePeeps(tx, snap.peeps); err != nil {
		return fmt.Errorf("save peeps: %w", err)
	}
	if err := writeRides(tx, snap.rides); err != nil {
		return fmt.Errorf("save rides: %w", err)
	}
	if err := writeTiles(tx, snap.tiles); err != nil {
		return fmt.Errorf("save tiles: %w", err)
	}
	if err := writePatrols(tx, snap.patrols); err != nil {
		return fmt.Errorf("save patrols: %w", err)
	}
	for _, e := range snap.events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return fmt.Errorf("save events: %w", err)
		}
	}
	for k, v := range snap.meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("park state saved", "save_id", snap.meta["save_id"])
	return nil
}

func writePeeps(tx *sqlx.Tx, rows []peepRow) error {
	if _, err := tx.Exec("DELETE FROM peeps"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO peeps (idx, peep_id, type, name, record) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Idx, r.ID, r.Type, r.Name, r.Record); err != nil {
			return fmt.Errorf("insert peep %d: %w", r.Idx, err)
		}
	}
	return nil
}

func writeRides(tx *sqlx.Tx, rows []rideRow) error {
	if _, err := tx.Exec("DELETE FROM rides"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := tx.Exec("INSERT INTO rides (id, name, ride_json) VALUES (?, ?, ?)", r.ID, r.Name, r.RideJSON); err != nil {
			return fmt.Errorf("insert ride %d: %w", r.ID, err)
		}
	}
	return nil
}

func writeTiles(tx *sqlx.Tx, rows []tileRow) error {
	if _, err := tx.Exec("DELETE FROM tiles"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO tiles (x, y, tile_json) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.X, r.Y, r.TileJSON); err != nil {
			return fmt.Errorf("insert tile %d,%d: %w", r.X, r.Y, err)
		}
	}
	return nil
}

func writePatrols(tx *sqlx.Tx, rows []patrolRow) error {
	if _, err := tx.Exec("DELETE FROM patrols"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := tx.Exec("INSERT INTO patrols (staff_id, area) VALUES (?, ?)", r.Staff, r.Area); err != nil {
			return fmt.Errorf("insert patrol %d: %w", r.Staff, err)
		}
	}
	return nil
}

// LoadPeeps decodes every saved peep in pool order.
func (db *DB) LoadPeeps() ([]*peep.Peep, error) {
	var records [][]byte
	if err := db.conn.Select(&records, "SELECT record FROM peeps ORDER BY idx"); err != nil {
		return nil, err
	}
	out := make([]*peep.Peep, 0, len(records))
	for i, rec := range records {
		p := &peep.Peep{}
		if err := p.UnmarshalBinary(rec); err != nil {
			return nil, fmt.Errorf("peep row %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadWorld restores the saved park.
func (db *DB) LoadWorld() (*engine.Simulation, error) {
	if !db.HasWorldState() {
		return nil, ErrNoSave
	}

	meta := map[string]string{}
	var rows []struct {
		Key   string
		Value string
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM world_meta"); err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	for _, r := range rows {
		meta[r.Key] = r.Value
	}

	var rides []rideRow
	if err := db.conn.Select(&rides, "SELECT id, name, ride_json AS ridejson FROM rides ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load rides: %w", err)
	}
	var tiles []tileRow
	if err := db.conn.Select(&tiles, "SELECT x, y, tile_json AS tilejson FROM tiles"); err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}
	var patrols []patrolRow
	if err := db.conn.Select(&patrols, "SELECT staff_id AS staff, area FROM patrols ORDER BY staff_id"); err != nil {
		return nil, fmt.Errorf("load patrols: %w", err)
	}
	events, err := db.RecentEvents(eventWindow)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	st, err := decode(meta, rides, tiles, patrols, events)
	if err != nil {
		return nil, err
	}
	peeps, err := db.LoadPeeps()
	if err != nil {
		return nil, fmt.Errorf("load peeps: %w", err)
	}

	sim, err := engine.RestoreSimulation(st, peeps)
	if err != nil {
		return nil, err
	}
	slog.Info("park state restored",
		"save_id", st.SaveID,
		"peeps", len(peeps),
		"rides", len(rides),
		"tick", st.Tick,
		"time", engine.ParkTime(st.Tick),
	)
	return sim, nil
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// metaJSON decodes a JSON metadata value into v.
func metaJSON(meta map[string]string, key string, v any) error {
	raw, ok := meta[key]
	if !ok {
		return fmt.Errorf("meta %s: missing", key)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("meta %s: %w", key, err)
	}
	return nil
}
