package world

import "fmt"

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainDeep    Terrain = iota // Open ocean, navigable
	TerrainShallow                // Coastal water, navigable
	TerrainLand                   // Buildable land, impassable to ships
)

// Climate bands assigned from latitude and noise.
type Climate uint8

const (
	ClimateTemperate Climate = iota
	ClimateTropical
	ClimateArid
	ClimateFrozen
)

// Tile represents a single hex on the map. Tiles are immutable after
// generation; fog and occupancy live elsewhere.
type Tile struct {
	Coord     HexCoord `json:"coord"`
	Terrain   Terrain  `json:"terrain"`
	Climate   Climate  `json:"climate"`
	Elevation float64  `json:"elevation"` // 0.0 (abyss) to 1.0 (peak)
	PortSite  bool     `json:"port_site"` // Land touching ocean-connected water
	Island    int      `json:"island"`    // Island index, -1 for water
	Ocean     bool     `json:"ocean"`     // Water connected to the open sea
}

// IsWater reports whether ships can sail on the tile.
func (t *Tile) IsWater() bool {
	return t.Terrain != TerrainLand
}

// Island is a connected landmass.
type Island struct {
	ID        int        `json:"id"`
	Tiles     []HexCoord `json:"tiles"`
	PortSites []HexCoord `json:"port_sites"`
}

// StartPosition is a faction's guaranteed starting site.
type StartPosition struct {
	Home     HexCoord `json:"home"` // Port site used for the home port
	Dock     HexCoord `json:"dock"` // Water hex serving the home port
	Island   int      `json:"island"`
	Assigned int      `json:"assigned"` // Faction slot (0 = player, 1.. = AI)
}

// Map holds the complete hex grid.
type Map struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`

	Tiles  map[HexCoord]*Tile `json:"-"`
	Coords []HexCoord         `json:"-"` // Row-major order for deterministic iteration

	Islands   []Island        `json:"islands"`
	Starts    []StartPosition `json:"starts"`
	adjacency map[int][]int
}

// NewMap creates an all-deep-ocean map of the given size.
// Rows are offset so the map is rectangular on screen: row r spans
// q in [-(r/2), width-(r/2)).
func NewMap(width, height int) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		Tiles:  make(map[HexCoord]*Tile, width*height),
		Coords: make([]HexCoord, 0, width*height),
	}
	for r := 0; r < height; r++ {
		for col := 0; col < width; col++ {
			c := OffsetToAxial(col, r)
			m.Tiles[c] = &Tile{Coord: c, Terrain: TerrainDeep, Island: -1}
			m.Coords = append(m.Coords, c)
		}
	}
	return m
}

// OffsetToAxial converts an odd-r offset (col,row) to axial.
func OffsetToAxial(col, row int) HexCoord {
	return HexCoord{Q: col - (row-(row&1))/2, R: row}
}

// AxialToOffset converts an axial coordinate to odd-r offset (col,row).
func AxialToOffset(h HexCoord) (col, row int) {
	return h.Q + (h.R-(h.R&1))/2, h.R
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(c HexCoord) *Tile {
	return m.Tiles[c]
}

// InBounds returns true if the coordinate lies on the map.
func (m *Map) InBounds(c HexCoord) bool {
	return m.Tiles[c] != nil
}

// IsWater reports whether c is navigable water on the map.
func (m *Map) IsWater(c HexCoord) bool {
	t := m.Tiles[c]
	return t != nil && t.IsWater()
}

// IsOcean reports whether c is water connected to the open sea.
func (m *Map) IsOcean(c HexCoord) bool {
	t := m.Tiles[c]
	return t != nil && t.Ocean
}

// IsLand reports whether c is land on the map.
func (m *Map) IsLand(c HexCoord) bool {
	t := m.Tiles[c]
	return t != nil && t.Terrain == TerrainLand
}

// Center returns the hex nearest the middle of the map.
func (m *Map) Center() HexCoord {
	return OffsetToAxial(m.Width/2, m.Height/2)
}

// IslandAt returns the island index for c, or -1.
func (m *Map) IslandAt(c HexCoord) int {
	t := m.Tiles[c]
	if t == nil {
		return -1
	}
	return t.Island
}

// AdjacentIslands returns the islands whose coasts lie within the
// adjacency range of island id.
func (m *Map) AdjacentIslands(id int) []int {
	return m.adjacency[id]
}

// DockHex returns an ocean-connected water neighbor of a land hex, used as
// the berth for a port built there.
func (m *Map) DockHex(land HexCoord) (HexCoord, bool) {
	for _, n := range land.Neighbors() {
		if m.IsOcean(n) {
			return n, true
		}
	}
	return HexCoord{}, false
}

// HexCount returns the total number of tiles.
func (m *Map) HexCount() int {
	return len(m.Coords)
}

// TerrainCounts returns a summary of terrain type distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.Tiles {
		counts[t.Terrain]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, islands=%d, starts=%d)", m.Width, m.Height, len(m.Islands), len(m.Starts))
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainDeep:
		return "Deep"
	case TerrainShallow:
		return "Shallow"
	case TerrainLand:
		return "Land"
	default:
		return "Unknown"
	}
}
