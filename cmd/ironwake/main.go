// Command ironwake runs a headless naval match with AI opponents and
// archives the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/ironwake/internal/ai"
	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/persistence"
	"github.com/talgya/ironwake/internal/social"
)

func main() {
	configPath := flag.String("config", "", "scenario JSON file (defaults when empty)")
	seconds := flag.Float64("seconds", 0, "game seconds to simulate, scaled by the time scale (0 runs to the survival goal)")
	dbPath := flag.String("db", "data/ironwake.db", "match archive path, empty to skip archiving")
	versus := flag.Bool("versus", false, "three factions instead of player against pirates")
	seed := flag.Int64("seed", 0, "map and match seed, 0 draws one")
	realtime := flag.Bool("realtime", false, "run on the wall clock until decided or interrupted")
	history := flag.Int("history", 0, "print the N most recent archived matches and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if *history > 0 {
		if err := printHistory(*dbPath, *history); err != nil {
			slog.Error("history failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// ── Scenario ──────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "versus":
			cfg.Versus = *versus
		case "seed":
			cfg.Seed = *seed
		}
	})

	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		slog.Error("failed to create match", "error", err)
		os.Exit(1)
	}
	players := ai.Attach(sim)
	if cfg.Versus {
		slog.Info("player faction has no controller and will idle", "opponents", len(players))
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(sim)
	eng.OnReport = func(s *engine.Simulation) {
		report(s, players)
	}
	eng.OnOutcome = func(s *engine.Simulation, o engine.Outcome) {
		fmt.Printf("\n%s wins at %s: %s\n", o.Winner, engine.MatchClock(s.Time), o.Reason)
	}

	started := time.Now()
	if *realtime {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		eng.Run(ctx)
		stop()
	} else {
		limit := *seconds
		if limit <= 0 {
			limit = cfg.Victory.SurviveSeconds
		}
		eng.RunFor(limit)
	}

	summary(sim, players, time.Since(started))

	// ── Archive ───────────────────────────────────────────────────────
	if *dbPath == "" {
		return
	}
	if err := archive(*dbPath, sim); err != nil {
		slog.Error("archive failed", "error", err)
		os.Exit(1)
	}
}

func report(s *engine.Simulation, players []*ai.Player) {
	for o, c := range s.Assets() {
		attrs := []any{
			"owner", o,
			"time", engine.MatchClock(s.Time),
			"ships", c.Ships,
			"ports", c.Ports,
			"settlements", c.Settlements,
			"towers", c.Towers,
		}
		if sp := s.Store.Stockpile(o); sp != nil {
			attrs = append(attrs, "wood", sp.Wood, "food", sp.Food, "crew", fmt.Sprintf("%d/%d", sp.CrewUsed, sp.CrewCap))
		}
		slog.Info("faction report", attrs...)
	}
	for _, p := range players {
		if r, ok := p.Memory.Last(); ok {
			slog.Debug("ai last cycle", "owner", p.Owner(), "action", r.Action, "level", r.Level, "rationale", r.Rationale)
		}
	}
}

func summary(s *engine.Simulation, players []*ai.Player, wall time.Duration) {
	fmt.Printf("\nMatch ran %s of game time (%s updates) in %s.\n",
		engine.MatchClock(s.Time), humanize.Comma(int64(s.Tick)), wall.Round(time.Millisecond))
	fmt.Printf("Shots fired %s, hit %s. Pirates spawned %d over %d waves.\n",
		humanize.Comma(int64(s.Stats.ShotsFired)), humanize.Comma(int64(s.Stats.ShotsHit)),
		s.Stats.PiratesSpawned, s.Stats.Waves)

	assets := s.Assets()
	for _, f := range s.Factions {
		if f.Kind == social.KindPirate {
			continue
		}
		c := assets[f.Owner]
		fmt.Printf("  %-8s %-14s %2d ships %d ports %d settlements %d towers, built %d lost %d, traded %s\n",
			f.Owner, f.Name, c.Ships, c.Ports, c.Settlements, c.Towers,
			s.Stats.ShipsBuilt[f.Owner], s.Stats.ShipsLost[f.Owner],
			humanize.Comma(int64(s.Stats.TradeUnits[f.Owner])))
	}
	for _, p := range players {
		if mem := p.Memory.Format(); mem != "" {
			fmt.Printf("\n%s (%s) recent decisions:\n%s", p.Owner(), p.Strategy.Name, mem)
		}
	}
}

func archive(path string, sim *engine.Simulation) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	rec := persistence.NewRecord(sim)
	if err := db.SaveMatch(rec); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	fmt.Printf("\nArchived match %s to %s.\n", rec.ID, path)
	return nil
}

func printHistory(path string, n int) error {
	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.RecentMatches(n)
	if err != nil {
		return fmt.Errorf("recent matches: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No archived matches.")
		return nil
	}
	for _, r := range recs {
		winner := r.Winner
		if winner == "" {
			winner = "undecided"
		}
		fmt.Printf("%s  %-6s seed %-20d %8s  %-10s %s\n",
			r.ID, r.Mode, r.Seed, engine.MatchClock(r.Duration), winner, humanize.Time(r.Created()))
		for _, f := range r.Factions {
			fmt.Printf("    %-8s %-10s %d ships %d ports, built %d lost %d\n",
				f.Owner, f.Strategy, f.Ships, f.Ports, f.ShipsBuilt, f.ShipsLost)
		}
	}
	return nil
}
