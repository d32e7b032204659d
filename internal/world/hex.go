// Package world provides the hex grid, terrain, and map generation.
// Uses axial coordinates (q, r) for the hex grid with a pointy-top layout.
package world

import "math"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Scale multiplies both axial components by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
// Index 0 points east; indices advance counter-clockwise.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate in direction dir (0–5, wrapped).
func (h HexCoord) Neighbor(dir int) HexCoord {
	d := HexNeighborDirections[((dir%6)+6)%6]
	return HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// Ring returns the hexes exactly radius steps from center, in walk order.
// Radius 0 yields the center alone.
func Ring(center HexCoord, radius int) []HexCoord {
	if radius <= 0 {
		return []HexCoord{center}
	}
	result := make([]HexCoord, 0, 6*radius)
	h := center.Add(HexNeighborDirections[4].Scale(radius))
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			result = append(result, h)
			h = h.Neighbor(side)
		}
	}
	return result
}

// Spiral returns every hex within radius of center, nearest rings first.
func Spiral(center HexCoord, radius int) []HexCoord {
	result := []HexCoord{center}
	for k := 1; k <= radius; k++ {
		result = append(result, Ring(center, k)...)
	}
	return result
}

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Lerp interpolates from p toward o by fraction t.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{X: p.X + (o.X-p.X)*t, Y: p.Y + (o.Y-p.Y)*t}
}

// HexToPixel converts an axial coordinate to the pixel center of its hex.
// size is the distance from center to corner.
func HexToPixel(h HexCoord, size float64) Point {
	x := size * math.Sqrt(3) * (float64(h.Q) + float64(h.R)/2)
	y := size * 1.5 * float64(h.R)
	return Point{X: x, Y: y}
}

// PixelToHex returns the hex containing pixel position p.
func PixelToHex(p Point, size float64) HexCoord {
	q := (math.Sqrt(3)/3*p.X - p.Y/3) / size
	r := (2.0 / 3.0 * p.Y) / size
	return roundHex(q, r)
}

// roundHex snaps fractional axial coordinates to the nearest hex using
// cube rounding: the component with the largest rounding error is
// recomputed from the other two.
func roundHex(fq, fr float64) HexCoord {
	fs := -fq - fr
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}

// Corners returns the six corner points of a pointy-top hex.
func Corners(center Point, size float64) [6]Point {
	var pts [6]Point
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * float64(60*i-30)
		pts[i] = Point{
			X: center.X + size*math.Cos(angle),
			Y: center.Y + size*math.Sin(angle),
		}
	}
	return pts
}

// Heading returns the angle in radians from a to b in pixel space.
func Heading(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
