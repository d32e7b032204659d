// Package persistence archives finished matches in SQLite.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/social"
)

// DB wraps a SQLite connection for the match archive.
type DB struct {
	conn *sqlx.DB
}

// MatchRecord is one archived match.
type MatchRecord struct {
	ID        string  `db:"id"`
	Seed      int64   `db:"seed"`
	Mode      string  `db:"mode"` // "single" or "versus"
	Duration  float64 `db:"duration"`
	Ticks     uint64  `db:"ticks"`
	Winner    string  `db:"winner"` // Empty while undecided
	Reason    string  `db:"reason"`
	CreatedAt int64   `db:"created_at"` // Unix seconds

	Factions []FactionResult `db:"-"`
	Events   []engine.Event  `db:"-"`
}

// Created returns when the record was made.
func (r *MatchRecord) Created() time.Time {
	return time.Unix(r.CreatedAt, 0)
}

// FactionResult is one faction's standing at the end of a match.
type FactionResult struct {
	MatchID     string `db:"match_id"`
	Owner       string `db:"owner"`
	Name        string `db:"name"`
	Strategy    string `db:"strategy"`
	Ships       int    `db:"ships"`
	Ports       int    `db:"ports"`
	Settlements int    `db:"settlements"`
	Towers      int    `db:"towers"`
	Wood        int    `db:"wood"`
	Food        int    `db:"food"`
	ShipsBuilt  int    `db:"ships_built"`
	ShipsLost   int    `db:"ships_lost"`
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
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		mode TEXT NOT NULL,
		duration REAL NOT NULL,
		ticks INTEGER NOT NULL,
		winner TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faction_results (
		match_id TEXT NOT NULL REFERENCES matches(id),
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		strategy TEXT NOT NULL,
		ships INTEGER NOT NULL,
		ports INTEGER NOT NULL,
		settlements INTEGER NOT NULL,
		towers INTEGER NOT NULL,
		wood INTEGER NOT NULL,
		food INTEGER NOT NULL,
		ships_built INTEGER NOT NULL,
		ships_lost INTEGER NOT NULL,
		PRIMARY KEY (match_id, owner)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL REFERENCES matches(id),
		tick INTEGER NOT NULL,
		time REAL NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_match ON events(match_id);
	CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// NewRecord captures the current state of a simulation as a MatchRecord
// with a fresh ID.
func NewRecord(sim *engine.Simulation) *MatchRecord {
	rec := &MatchRecord{
		ID:        uuid.NewString(),
		Seed:      sim.Rand.Seed(),
		Mode:      "single",
		Duration:  sim.Time,
		Ticks:     sim.Tick,
		CreatedAt: time.Now().Unix(),
		Events:    sim.Events,
	}
	if sim.Config.Versus {
		rec.Mode = "versus"
	}
	if o := sim.Outcome(); o.Decided {
		rec.Winner = o.Winner.String()
		rec.Reason = o.Reason
	}

	assets := sim.Assets()
	for _, f := range sim.Factions {
		if f.Kind == social.KindPirate {
			continue
		}
		c := assets[f.Owner]
		fr := FactionResult{
			MatchID:     rec.ID,
			Owner:       f.Owner.String(),
			Name:        f.Name,
			Strategy:    f.Strategy,
			Ships:       c.Ships,
			Ports:       c.Ports,
			Settlements: c.Settlements,
			Towers:      c.Towers,
			ShipsBuilt:  sim.Stats.ShipsBuilt[f.Owner],
			ShipsLost:   sim.Stats.ShipsLost[f.Owner],
		}
		if sp := sim.Store.Stockpile(f.Owner); sp != nil {
			fr.Wood, fr.Food = sp.Wood, sp.Food
		}
		rec.Factions = append(rec.Factions, fr)
	}
	return rec
}

// SaveMatch writes a match, its faction results and its events in one
// transaction. A record without an ID is given one.
func (db *DB) SaveMatch(rec *MatchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO matches
		(id, seed, mode, duration, ticks, winner, reason, created_at)
		VALUES (:id, :seed, :mode, :duration, :ticks, :winner, :reason, :created_at)`, rec)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", rec.ID, err)
	}

	for i := range rec.Factions {
		fr := &rec.Factions[i]
		fr.MatchID = rec.ID
		_, err := tx.NamedExec(`INSERT INTO faction_results
			(match_id, owner, name, strategy, ships, ports, settlements, towers,
			 wood, food, ships_built, ships_lost)
			VALUES (:match_id, :owner, :name, :strategy, :ships, :ports, :settlements, :towers,
			 :wood, :food, :ships_built, :ships_lost)`, fr)
		if err != nil {
			return fmt.Errorf("insert faction %s: %w", fr.Owner, err)
		}
	}

	if len(rec.Events) > 0 {
		stmt, err := tx.Preparex(`INSERT INTO events
			(match_id, tick, time, description, category) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range rec.Events {
			if _, err := stmt.Exec(rec.ID, e.Tick, e.Time, e.Description, e.Category); err != nil {
				return fmt.Errorf("insert event: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("match archived", "id", rec.ID, "mode", rec.Mode, "winner", rec.Winner, "events", len(rec.Events))
	return nil
}

// RecentMatches returns the most recent matches, newest first, with
// their faction results but without events.
func (db *DB) RecentMatches(limit int) ([]MatchRecord, error) {
	var recs []MatchRecord
	err := db.conn.Select(&recs,
		`SELECT id, seed, mode, duration, ticks, winner, reason, created_at
		 FROM matches ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		err := db.conn.Select(&recs[i].Factions,
			`SELECT match_id, owner, name, strategy, ships, ports, settlements, towers,
			 wood, food, ships_built, ships_lost
			 FROM faction_results WHERE match_id = ? ORDER BY rowid`,
			recs[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("factions of %s: %w", recs[i].ID, err)
		}
	}
	return recs, nil
}

// MatchEvents returns a match's events in the order they happened.
func (db *DB) MatchEvents(id string) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, time, description, category FROM events WHERE match_id = ? ORDER BY id",
		id,
	)
	return events, err
}
