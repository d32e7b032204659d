package engine

import (
	"math"
	"testing"

	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// A queued cutter (10 s build) leaves the queue after 10 simulated
// seconds and appears at the dock with full health.
func TestPortBuildsShipInTenSeconds(t *testing.T) {
	s := newTestSim(t, quietScenario())
	ph, p := homePort(t, s, social.OwnerPlayer)
	if !s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter) {
		t.Fatal("QueueShip declined")
	}
	if p.Queue[0].BuildTime != 10 {
		t.Fatalf("cutter build time = %v", p.Queue[0].BuildTime)
	}

	run(s, 0.05, 199)
	if len(p.Queue) != 1 || s.Store.Ships.Len() != 0 {
		t.Fatalf("finished early: queue=%d ships=%d", len(p.Queue), s.Store.Ships.Len())
	}
	run(s, 0.05, 1)
	if len(p.Queue) != 0 {
		t.Fatalf("queue = %d after 10s", len(p.Queue))
	}
	var built *entity.Ship
	for _, sh := range s.Store.Ships.All() {
		built = sh
	}
	if built == nil {
		t.Fatal("no ship spawned")
	}
	if built.Hex != p.DockHex || built.Owner != social.OwnerPlayer {
		t.Errorf("ship at %v owned by %s, want %v", built.Hex, built.Owner, p.DockHex)
	}
	if built.Health != built.MaxHealth || built.MaxHealth != entity.StatsFor(entity.ShipCutter).Health {
		t.Errorf("health %v/%v", built.Health, built.MaxHealth)
	}
	if s.Stats.ShipsBuilt[social.OwnerPlayer] != 1 {
		t.Errorf("ships built = %d", s.Stats.ShipsBuilt[social.OwnerPlayer])
	}
}

// Splitting the same total time into uneven steps completes the same
// work as one large step.
func TestConstructionSplitStepsMatchOneStep(t *testing.T) {
	const total = 15.0
	setup := func() (*Simulation, entity.Handle, entity.Handle) {
		s := newTestSim(t, quietScenario())
		ph, _ := homePort(t, s, social.OwnerPlayer)
		s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter)
		s.QueueShip(social.OwnerPlayer, ph, entity.ShipSchooner)
		th, ok := s.BuildTower(social.OwnerPlayer, towerSite(t, s))
		if !ok {
			t.Fatal("BuildTower declined")
		}
		return s, ph, th
	}

	whole, wp, wt := setup()
	whole.Update(total)

	split, sp, st := setup()
	steps := []float64{0.03, 0.5, 0.17, 1.3, 0.001, 2.2}
	elapsed, i := 0.0, 0
	for elapsed < total-1e-9 {
		dt := math.Min(steps[i%len(steps)], total-elapsed)
		split.Update(dt)
		elapsed += dt
		i++
	}

	a, b := whole.Store.Ports.Get(wp), split.Store.Ports.Get(sp)
	if len(a.Queue) != len(b.Queue) || len(a.Queue) != 1 {
		t.Fatalf("queues differ: %d vs %d", len(a.Queue), len(b.Queue))
	}
	if math.Abs(a.Queue[0].Progress-b.Queue[0].Progress) > 1e-6 {
		t.Errorf("head progress %v vs %v", a.Queue[0].Progress, b.Queue[0].Progress)
	}
	if math.Abs(a.Queue[0].Progress-5) > 1e-6 {
		t.Errorf("overflow not carried: head progress %v, want 5", a.Queue[0].Progress)
	}
	if whole.Store.Ships.Len() != 1 || split.Store.Ships.Len() != 1 {
		t.Errorf("ships %d vs %d", whole.Store.Ships.Len(), split.Store.Ships.Len())
	}
	ta, tb := whole.Store.Towers.Get(wt), split.Store.Towers.Get(st)
	if ta.Construction != nil || tb.Construction != nil {
		t.Errorf("tower (15s build) unfinished: %+v / %+v", ta.Construction, tb.Construction)
	}
}

func towerSite(t *testing.T, s *Simulation) world.HexCoord {
	t.Helper()
	sites := s.PlacementSites(social.OwnerPlayer, entity.BuildTower)
	if len(sites) == 0 {
		t.Fatal("no tower sites")
	}
	return sites[0]
}

func TestUpgradeKeepsDamage(t *testing.T) {
	s := newTestSim(t, quietScenario())
	ph, p := homePort(t, s, social.OwnerPlayer)
	p.Health -= 50
	if !s.Upgrade(social.OwnerPlayer, entity.PortRef(ph)) {
		t.Fatal("Upgrade declined")
	}
	if !p.Operational() {
		t.Error("port stopped working during upgrade")
	}
	if s.Upgrade(social.OwnerPlayer, entity.PortRef(ph)) {
		t.Error("second upgrade accepted while one is running")
	}
	run(s, 0.5, 60)
	if p.Tier != entity.TierHarbor || p.Construction != nil {
		t.Fatalf("tier = %s, construction = %+v", p.Tier, p.Construction)
	}
	want := entity.PortStatsFor(entity.TierHarbor).Health - 50
	if p.Health != want {
		t.Errorf("health = %v, want %v", p.Health, want)
	}
	if got := s.BuildableShips(ph); len(got) != 3 {
		t.Errorf("harbor buildable = %v", got)
	}
}

func TestCancelRefunds(t *testing.T) {
	s := newTestSim(t, quietScenario())
	sp := s.Store.Stockpile(social.OwnerPlayer)
	ph, _ := homePort(t, s, social.OwnerPlayer)
	before := *sp

	if !s.QueueShip(social.OwnerPlayer, ph, entity.ShipSchooner) {
		t.Fatal("QueueShip declined")
	}
	if !s.CancelQueuedShip(social.OwnerPlayer, ph, 0) {
		t.Fatal("CancelQueuedShip declined")
	}
	th, ok := s.BuildTower(social.OwnerPlayer, towerSite(t, s))
	if !ok {
		t.Fatal("BuildTower declined")
	}
	run(s, 0.1, 10)
	if !s.CancelConstruction(social.OwnerPlayer, entity.TowerRef(th)) {
		t.Fatal("CancelConstruction declined")
	}
	if s.Store.Towers.Get(th) != nil {
		t.Error("cancelled tower still stands")
	}
	if sp.Wood != before.Wood || sp.Food != before.Food {
		t.Errorf("stockpile %+v, want %+v", *sp, before)
	}
	if s.CancelConstruction(social.OwnerPlayer, entity.PortRef(ph)) {
		t.Error("cancelled a finished port")
	}
}
