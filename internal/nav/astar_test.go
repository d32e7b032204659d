package nav

import (
	"math/rand"
	"testing"

	"github.com/talgya/ironwake/internal/world"
)

// gridPassable builds a bounded passability predicate with the given walls.
func gridPassable(radius int, walls map[world.HexCoord]bool) Passable {
	origin := world.HexCoord{}
	return func(c world.HexCoord) bool {
		return world.Distance(origin, c) <= radius && !walls[c]
	}
}

func checkPath(t *testing.T, path []world.HexCoord, start, goal world.HexCoord, passable Passable) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("no path from %v to %v", start, goal)
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path endpoints %v..%v, want %v..%v", path[0], path[len(path)-1], start, goal)
	}
	if PathLength(path) < world.Distance(start, goal) {
		t.Errorf("path length %d shorter than distance %d", PathLength(path), world.Distance(start, goal))
	}
	for i := 1; i < len(path); i++ {
		if world.Distance(path[i-1], path[i]) != 1 {
			t.Errorf("step %d jumps from %v to %v", i, path[i-1], path[i])
		}
		if !passable(path[i]) {
			t.Errorf("path enters impassable %v", path[i])
		}
	}
}

func TestFindPathOpenWater(t *testing.T) {
	passable := gridPassable(10, nil)
	start := world.HexCoord{Q: -4, R: 2}
	goal := world.HexCoord{Q: 5, R: -3}
	path := FindPath(start, goal, passable)
	checkPath(t, path, start, goal, passable)
	if PathLength(path) != world.Distance(start, goal) {
		t.Errorf("open water path length %d, want optimal %d", PathLength(path), world.Distance(start, goal))
	}
}

func TestFindPathAroundWall(t *testing.T) {
	walls := make(map[world.HexCoord]bool)
	// Vertical wall at q=0 with a gap at the top edge.
	for r := -6; r <= 8; r++ {
		walls[world.HexCoord{Q: 0, R: r}] = true
	}
	passable := gridPassable(10, walls)
	start := world.HexCoord{Q: -3, R: 0}
	goal := world.HexCoord{Q: 3, R: 0}
	path := FindPath(start, goal, passable)
	checkPath(t, path, start, goal, passable)
	if PathLength(path) <= world.Distance(start, goal) {
		t.Errorf("wall should force a detour, got length %d", PathLength(path))
	}
}

func TestFindPathUnreachable(t *testing.T) {
	goal := world.HexCoord{Q: 3, R: 3}
	walls := make(map[world.HexCoord]bool)
	for _, n := range goal.Neighbors() {
		walls[n] = true
	}
	passable := gridPassable(10, walls)

	if p := FindPath(world.HexCoord{}, goal, passable); p != nil {
		t.Errorf("enclosed goal returned path %v", p)
	}
	if p := FindPath(world.HexCoord{}, world.HexCoord{Q: 40}, passable); p != nil {
		t.Errorf("out-of-bounds goal returned path %v", p)
	}
	if p := FindPath(world.HexCoord{}, goal, nil); p != nil {
		t.Errorf("nil predicate returned path %v", p)
	}
}

func TestFindPathSameHex(t *testing.T) {
	c := world.HexCoord{Q: 2, R: -1}
	p := FindPath(c, c, gridPassable(3, nil))
	if len(p) != 1 || p[0] != c {
		t.Errorf("same-hex path = %v", p)
	}
}

func TestFindPathRandomObstacles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	origin := world.HexCoord{}
	for trial := 0; trial < 50; trial++ {
		walls := make(map[world.HexCoord]bool)
		for _, c := range world.Spiral(origin, 8) {
			if rng.Float64() < 0.25 {
				walls[c] = true
			}
		}
		start := world.HexCoord{Q: -6, R: 3}
		goal := world.HexCoord{Q: 6, R: -3}
		delete(walls, start)
		delete(walls, goal)
		passable := gridPassable(8, walls)
		path := FindPath(start, goal, passable)
		if path == nil {
			continue // walls can legitimately seal the goal off
		}
		checkPath(t, path, start, goal, passable)
	}
}

func TestNearest(t *testing.T) {
	start := world.HexCoord{}
	target := world.HexCoord{Q: 2, R: -1}
	got, ok := Nearest(start, 5, func(c world.HexCoord) bool { return c == target })
	if !ok || got != target {
		t.Errorf("Nearest = %v, %v", got, ok)
	}
	if _, ok := Nearest(start, 1, func(c world.HexCoord) bool { return c == target }); ok {
		t.Error("target outside radius should not be found")
	}
}
