// Package nav provides A* pathfinding and nearest-site searches over the
// hex grid.
package nav

import (
	"container/heap"

	"github.com/talgya/ironwake/internal/world"
)

// MaxExpansions bounds the nodes a single search may pop. Searches that
// exceed it report no path; callers retry later.
const MaxExpansions = 20000

// Passable reports whether a hex may be entered.
type Passable func(world.HexCoord) bool

type pathNode struct {
	coord  world.HexCoord
	g, h   int
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	// Prefer nodes closer to the goal on ties; keeps paths straight.
	return ol[i].h < ol[j].h
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath returns the hexes from start to goal inclusive, stepping one
// neighbor at a time with uniform cost. Returns nil if the goal is
// impassable or unreachable. The start hex itself is never tested for
// passability so a ship can leave a crowded berth.
func FindPath(start, goal world.HexCoord, passable Passable) []world.HexCoord {
	if start == goal {
		return []world.HexCoord{start}
	}
	if passable == nil || !passable(goal) {
		return nil
	}

	startNode := &pathNode{coord: start, h: world.Distance(start, goal)}
	ol := &openList{startNode}
	heap.Init(ol)

	best := map[world.HexCoord]*pathNode{start: startNode}
	closed := make(map[world.HexCoord]bool)

	for expansions := 0; ol.Len() > 0; expansions++ {
		if expansions > MaxExpansions {
			return nil
		}
		cur := heap.Pop(ol).(*pathNode)
		if cur.coord == goal {
			return buildPath(cur)
		}
		closed[cur.coord] = true

		for _, n := range cur.coord.Neighbors() {
			if closed[n] || !passable(n) {
				continue
			}
			g := cur.g + 1
			if existing, ok := best[n]; ok {
				if g >= existing.g {
					continue
				}
				existing.g = g
				existing.parent = cur
				heap.Fix(ol, existing.index)
				continue
			}
			node := &pathNode{coord: n, g: g, h: world.Distance(n, goal), parent: cur}
			best[n] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func buildPath(n *pathNode) []world.HexCoord {
	var rev []world.HexCoord
	for ; n != nil; n = n.parent {
		rev = append(rev, n.coord)
	}
	path := make([]world.HexCoord, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}

// Nearest returns the closest hex to start (by ring) within maxRadius that
// satisfies pred. Ties within a ring resolve in ring walk order.
func Nearest(start world.HexCoord, maxRadius int, pred func(world.HexCoord) bool) (world.HexCoord, bool) {
	for r := 0; r <= maxRadius; r++ {
		for _, c := range world.Ring(start, r) {
			if pred(c) {
				return c, true
			}
		}
	}
	return world.HexCoord{}, false
}

// PathLength returns the number of steps in a path (hexes minus one).
func PathLength(path []world.HexCoord) int {
	if len(path) == 0 {
		return 0
	}
	return len(path) - 1
}
