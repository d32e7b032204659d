// Map generation using layered simplex noise.
// Elevation noise with a border falloff decides land and water; starter
// islands are stamped afterwards so every faction gets a reachable home.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generation failures. Both are configuration problems and should stop
// scenario setup rather than degrade it.
var (
	ErrMapTooSmall  = errors.New("map too small for starting positions")
	ErrNoValidStart = errors.New("no valid starting layout")
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Width            int     // Columns
	Height           int     // Rows
	Seed             int64   // Random seed (0 = random)
	VersusMode       bool    // Three fair starts instead of one
	SeaLevel         float64 // Elevation threshold for land (0.0–1.0)
	StarterRadius    int     // Radius of each stamped starter island
	MinStartDistance int     // Minimum hex distance between versus starts
	AdjacencyRange   int     // Max water gap for two islands to count as adjacent
	MaxAttempts      int     // Seeds tried before giving up
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:            48,
		Height:           36,
		SeaLevel:         0.58,
		StarterRadius:    2,
		MinStartDistance: 12,
		AdjacencyRange:   4,
		MaxAttempts:      8,
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width = 24
	cfg.Height = 20
	cfg.Seed = 42
	cfg.MinStartDistance = 6
	return cfg
}

// Generate creates a complete map with islands, port sites and starts.
// A failed layout is retried with a derived seed up to MaxAttempts times.
func Generate(cfg GenConfig) (*Map, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	anchorRadius, err := checkSize(cfg)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		s := seed + int64(attempt)*7919
		m, ok := generateOnce(cfg, s, anchorRadius)
		if ok {
			if attempt > 0 {
				slog.Debug("map generated after retries", "attempts", attempt+1, "seed", s)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts (seed %d)", ErrNoValidStart, cfg.MaxAttempts, seed)
}

// checkSize rejects maps that cannot fit the required starter islands and
// returns the pixel radius of the versus start triangle.
func checkSize(cfg GenConfig) (float64, error) {
	margin := cfg.StarterRadius + 3
	if cfg.Width < 2*margin+1 || cfg.Height < 2*margin+1 {
		return 0, fmt.Errorf("%w: %dx%d", ErrMapTooSmall, cfg.Width, cfg.Height)
	}
	if !cfg.VersusMode {
		return 0, nil
	}
	w := float64(cfg.Width) * math.Sqrt(3)
	h := float64(cfg.Height) * 1.5
	radius := math.Min(w, h)/2 - float64(margin)*math.Sqrt(3)
	// With unit hex size, neighboring centers are sqrt(3) apart, so the
	// triangle side in hexes is about the pixel radius. Home ports sit on
	// the starter coast, which can eat StarterRadius from each end.
	if radius < float64(cfg.MinStartDistance+2*cfg.StarterRadius+1) {
		return 0, fmt.Errorf("%w: %dx%d cannot hold starts %d apart",
			ErrMapTooSmall, cfg.Width, cfg.Height, cfg.MinStartDistance)
	}
	return radius, nil
}

func generateOnce(cfg GenConfig, seed int64, anchorRadius float64) (*Map, bool) {
	rng := rand.New(rand.NewSource(seed + 100))
	elevNoise := opensimplex.NewNormalized(seed)
	climateNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Width, cfg.Height)
	m.Seed = seed

	for _, c := range m.Coords {
		t := m.Tiles[c]
		p := HexToPixel(c, 1)
		elev := octaveNoise(elevNoise, p.X, p.Y, 4, 0.09, 0.5)

		// Border falloff keeps the map edge open water.
		col, row := AxialToOffset(c)
		edge := math.Min(
			math.Min(float64(col), float64(cfg.Width-1-col))/(float64(cfg.Width)/2),
			math.Min(float64(row), float64(cfg.Height-1-row))/(float64(cfg.Height)/2),
		)
		elev *= clamp01(edge * 3)
		t.Elevation = elev
		if elev > cfg.SeaLevel && !m.onBorder(c) {
			t.Terrain = TerrainLand
		}
		t.Climate = deriveClimate(row, cfg.Height, climateNoise.Eval2(p.X*0.05, p.Y*0.05))
	}

	anchors := startAnchors(m, cfg, rng, anchorRadius)
	for _, a := range anchors {
		stampStarter(m, a, cfg.StarterRadius)
	}

	markShallows(m)
	markOcean(m)
	labelIslands(m)
	computeAdjacency(m, cfg.AdjacencyRange)

	if !assignStarts(m, cfg, anchors, rng) {
		return nil, false
	}
	return m, true
}

// startAnchors returns the hex centers of the starter islands. Versus mode
// places three on an equilateral triangle around the map center with a
// random rotation; single-player places one in the western third.
func startAnchors(m *Map, cfg GenConfig, rng *rand.Rand, radius float64) []HexCoord {
	center := HexToPixel(m.Center(), 1)
	if !cfg.VersusMode {
		col := cfg.Width * 3 / 10
		if col < cfg.StarterRadius+3 {
			col = cfg.StarterRadius + 3
		}
		return []HexCoord{OffsetToAxial(col, cfg.Height/2)}
	}

	rotation := rng.Float64() * 2 * math.Pi
	anchors := make([]HexCoord, 3)
	for i := range anchors {
		angle := rotation + float64(i)*2*math.Pi/3
		p := Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
		anchors[i] = PixelToHex(p, 1)
	}
	return anchors
}

// stampStarter forces a land disk of the given radius at anchor, surrounded
// by a water moat, and carves a channel to the nearest map edge so the
// island is always reachable from open sea.
func stampStarter(m *Map, anchor HexCoord, radius int) {
	for _, c := range Spiral(anchor, radius+3) {
		if t := m.Get(c); t != nil {
			t.Terrain = TerrainDeep
			t.Elevation = 0.2
		}
	}
	for _, c := range Spiral(anchor, radius) {
		if t := m.Get(c); t != nil && !m.onBorder(c) {
			t.Terrain = TerrainLand
			t.Elevation = 0.7
		}
	}

	// Channel from the moat edge to the nearest border tile.
	var target HexCoord
	best := math.MaxInt
	for _, c := range m.Coords {
		if !m.onBorder(c) {
			continue
		}
		if d := Distance(anchor, c); d < best {
			best = d
			target = c
		}
	}
	cur := anchor
	for steps := 0; cur != target && steps < m.Width+m.Height; steps++ {
		next := cur
		nd := Distance(cur, target)
		for _, n := range cur.Neighbors() {
			if !m.InBounds(n) {
				continue
			}
			if d := Distance(n, target); d < nd {
				nd = d
				next = n
			}
		}
		if next == cur {
			break
		}
		cur = next
		if Distance(cur, anchor) > radius {
			t := m.Get(cur)
			t.Terrain = TerrainDeep
			t.Elevation = 0.2
		}
	}
}

// Rebuild recomputes shallows, ocean connectivity, islands, port sites and
// island adjacency after tiles were edited by hand. Start positions are
// left alone.
func (m *Map) Rebuild(adjacencyRange int) {
	for _, t := range m.Tiles {
		t.Island = -1
		t.Ocean = false
		t.PortSite = false
	}
	markShallows(m)
	markOcean(m)
	labelIslands(m)
	computeAdjacency(m, adjacencyRange)
}

func (m *Map) onBorder(c HexCoord) bool {
	col, row := AxialToOffset(c)
	return col == 0 || row == 0 || col == m.Width-1 || row == m.Height-1
}

// markShallows converts water touching land into shallow water.
func markShallows(m *Map) {
	for _, c := range m.Coords {
		t := m.Tiles[c]
		if t.Terrain == TerrainLand {
			continue
		}
		t.Terrain = TerrainDeep
		for _, n := range c.Neighbors() {
			if m.IsLand(n) {
				t.Terrain = TerrainShallow
				break
			}
		}
	}
}

// markOcean flood-fills water from the map border; enclosed lagoons stay
// unmarked and cannot host docks.
func markOcean(m *Map) {
	var queue []HexCoord
	for _, c := range m.Coords {
		if m.onBorder(c) && m.IsWater(c) {
			m.Tiles[c].Ocean = true
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range c.Neighbors() {
			t := m.Get(n)
			if t == nil || !t.IsWater() || t.Ocean {
				continue
			}
			t.Ocean = true
			queue = append(queue, n)
		}
	}
}

// labelIslands assigns island indices by flood fill and collects port sites.
func labelIslands(m *Map) {
	m.Islands = nil
	for _, c := range m.Coords {
		t := m.Tiles[c]
		if t.Terrain != TerrainLand || t.Island >= 0 {
			continue
		}
		id := len(m.Islands)
		island := Island{ID: id}
		t.Island = id
		queue := []HexCoord{c}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			island.Tiles = append(island.Tiles, cur)
			for _, n := range cur.Neighbors() {
				nt := m.Get(n)
				if nt == nil || nt.Terrain != TerrainLand || nt.Island >= 0 {
					continue
				}
				nt.Island = id
				queue = append(queue, n)
			}
		}
		for _, tc := range island.Tiles {
			if _, ok := m.DockHex(tc); ok {
				m.Tiles[tc].PortSite = true
				island.PortSites = append(island.PortSites, tc)
			}
		}
		m.Islands = append(m.Islands, island)
	}
}

// computeAdjacency links islands whose coastlines are within rng hexes.
func computeAdjacency(m *Map, rng int) {
	m.adjacency = make(map[int][]int, len(m.Islands))
	coasts := make([][]HexCoord, len(m.Islands))
	for i, isl := range m.Islands {
		for _, c := range isl.Tiles {
			for _, n := range c.Neighbors() {
				if m.IsWater(n) {
					coasts[i] = append(coasts[i], c)
					break
				}
			}
		}
	}
	for i := 0; i < len(coasts); i++ {
		for j := i + 1; j < len(coasts); j++ {
			if coastsWithin(coasts[i], coasts[j], rng) {
				m.adjacency[i] = append(m.adjacency[i], j)
				m.adjacency[j] = append(m.adjacency[j], i)
			}
		}
	}
}

func coastsWithin(a, b []HexCoord, rng int) bool {
	for _, x := range a {
		for _, y := range b {
			if Distance(x, y) <= rng {
				return true
			}
		}
	}
	return false
}

// assignStarts resolves each anchor to a home port site and hands the
// positions to faction slots. Versus slots are shuffled so no faction is
// tied to a fixed corner.
func assignStarts(m *Map, cfg GenConfig, anchors []HexCoord, rng *rand.Rand) bool {
	starts := make([]StartPosition, 0, len(anchors))
	for _, a := range anchors {
		id := m.IslandAt(a)
		if id < 0 {
			return false
		}
		var home HexCoord
		found := false
		best := math.MaxInt
		for _, ps := range m.Islands[id].PortSites {
			if d := Distance(a, ps); d < best {
				best = d
				home = ps
				found = true
			}
		}
		if !found {
			return false
		}
		dock, _ := m.DockHex(home)
		starts = append(starts, StartPosition{Home: home, Dock: dock, Island: id})
	}

	if cfg.VersusMode {
		for i := 0; i < len(starts); i++ {
			for j := i + 1; j < len(starts); j++ {
				if starts[i].Island == starts[j].Island {
					return false
				}
				if Distance(starts[i].Home, starts[j].Home) < cfg.MinStartDistance {
					return false
				}
			}
		}
		slots := rng.Perm(len(starts))
		for i := range starts {
			starts[i].Assigned = slots[i]
		}
	}
	m.Starts = starts
	return true
}

// StartFor returns the start position assigned to faction slot.
func (m *Map) StartFor(slot int) (StartPosition, bool) {
	for _, s := range m.Starts {
		if s.Assigned == slot {
			return s, true
		}
	}
	return StartPosition{}, false
}

func deriveClimate(row, height int, n float64) Climate {
	lat := math.Abs(float64(row)/float64(height)-0.5) * 2 // 0 at equator, 1 at poles
	switch {
	case lat > 0.8:
		return ClimateFrozen
	case lat < 0.25:
		return ClimateTropical
	case n > 0.65:
		return ClimateArid
	default:
		return ClimateTemperate
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
