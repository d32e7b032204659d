package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/engine"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadMatch(t *testing.T) {
	db := openTemp(t)
	rec := &MatchRecord{
		Seed:     7,
		Mode:     "versus",
		Duration: 312.5,
		Ticks:    18750,
		Winner:   "ai1",
		Reason:   "last faction standing",
		Factions: []FactionResult{
			{Owner: "player", Name: "Player", Ports: 0, Ships: 0},
			{Owner: "ai1", Name: "Crimson Fleet", Strategy: "aggressive", Ports: 2, Ships: 5, Wood: 40, ShipsBuilt: 7},
		},
		Events: []engine.Event{
			{Tick: 1, Time: 0, Description: "Match begins", Category: "match"},
			{Tick: 900, Time: 15, Description: "ai1 built a cutter", Category: "build"},
		},
	}
	if err := db.SaveMatch(rec); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("SaveMatch did not assign an ID")
	}

	recs, err := db.RecentMatches(5)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d matches, want 1", len(recs))
	}
	got := recs[0]
	if got.ID != rec.ID || got.Seed != 7 || got.Mode != "versus" || got.Winner != "ai1" || got.Ticks != 18750 {
		t.Errorf("match = %+v", got)
	}
	if len(got.Factions) != 2 || got.Factions[1].Strategy != "aggressive" || got.Factions[1].ShipsBuilt != 7 {
		t.Errorf("factions = %+v", got.Factions)
	}
	if got.Events != nil {
		t.Errorf("RecentMatches loaded %d events", len(got.Events))
	}

	events, err := db.MatchEvents(rec.ID)
	if err != nil {
		t.Fatalf("MatchEvents: %v", err)
	}
	if len(events) != 2 || events[0].Category != "match" || events[1].Time != 15 {
		t.Errorf("events = %+v", events)
	}
}

func TestRecentMatchesNewestFirst(t *testing.T) {
	db := openTemp(t)
	for i, created := range []int64{100, 300, 200} {
		rec := &MatchRecord{Seed: int64(i), Mode: "single", CreatedAt: created}
		if err := db.SaveMatch(rec); err != nil {
			t.Fatalf("SaveMatch: %v", err)
		}
	}
	recs, err := db.RecentMatches(2)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	if len(recs) != 2 || recs[0].CreatedAt != 300 || recs[1].CreatedAt != 200 {
		t.Errorf("order = %+v", recs)
	}
}

func TestNewRecordFromSimulation(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 42
	cfg.Versus = true
	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	engine.NewEngine(sim).RunFor(2)

	rec := NewRecord(sim)
	if rec.ID == "" || rec.Mode != "versus" || rec.Seed != 42 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Winner != "" {
		t.Errorf("undecided match has winner %q", rec.Winner)
	}
	if len(rec.Factions) != 3 {
		t.Fatalf("factions = %d, want 3", len(rec.Factions))
	}
	for _, fr := range rec.Factions {
		if fr.Ports != 1 || fr.Ships != 2 {
			t.Errorf("%s assets = %d ports %d ships", fr.Owner, fr.Ports, fr.Ships)
		}
	}

	db := openTemp(t)
	if err := db.SaveMatch(rec); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	events, err := db.MatchEvents(rec.ID)
	if err != nil {
		t.Fatalf("MatchEvents: %v", err)
	}
	if len(events) != len(sim.Events) {
		t.Errorf("archived %d events, simulation has %d", len(events), len(sim.Events))
	}
}
