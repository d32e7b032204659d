// Package economy provides resource stockpiles, costs, and cargo.
package economy

import "fmt"

// Cost is the price of a build, upgrade, or repair.
type Cost struct {
	Wood int `json:"wood"`
	Food int `json:"food"`
	Crew int `json:"crew"` // Crew capacity consumed while the result exists
}

// Add returns the sum of two costs.
func (c Cost) Add(o Cost) Cost {
	return Cost{Wood: c.Wood + o.Wood, Food: c.Food + o.Food, Crew: c.Crew + o.Crew}
}

func (c Cost) String() string {
	return fmt.Sprintf("%dw/%df/%dc", c.Wood, c.Food, c.Crew)
}

// Stockpile is one faction's resources. Wood and food are never negative
// and CrewUsed never exceeds CrewCap through Deduct.
type Stockpile struct {
	Wood     int `json:"wood"`
	Food     int `json:"food"`
	CrewCap  int `json:"crew_cap"`
	CrewUsed int `json:"crew_used"`
}

// CrewFree returns the unused crew capacity.
func (s *Stockpile) CrewFree() int {
	if s.CrewUsed >= s.CrewCap {
		return 0
	}
	return s.CrewCap - s.CrewUsed
}

// CanAfford reports whether the stockpile covers the cost.
func (s *Stockpile) CanAfford(c Cost) bool {
	if c.Wood < 0 || c.Food < 0 || c.Crew < 0 {
		return false
	}
	return s.Wood >= c.Wood && s.Food >= c.Food && s.CrewFree() >= c.Crew
}

// Deduct removes the cost if affordable. Returns false and leaves the
// stockpile untouched otherwise.
func (s *Stockpile) Deduct(c Cost) bool {
	if !s.CanAfford(c) {
		return false
	}
	s.Wood -= c.Wood
	s.Food -= c.Food
	s.CrewUsed += c.Crew
	return true
}

// Refund returns a previously deducted cost.
func (s *Stockpile) Refund(c Cost) {
	s.Wood += max(c.Wood, 0)
	s.Food += max(c.Food, 0)
	s.CrewUsed = max(s.CrewUsed-c.Crew, 0)
}

// Add credits income. Negative amounts are ignored.
func (s *Stockpile) Add(wood, food int) {
	s.Wood += max(wood, 0)
	s.Food += max(food, 0)
}

// Cargo is goods carried by a ship, held in a port's storage, or dropped as loot.
type Cargo struct {
	Wood int `json:"wood"`
	Food int `json:"food"`
}

// Total returns the number of units.
func (c Cargo) Total() int {
	return c.Wood + c.Food
}

// Empty reports whether the cargo holds nothing.
func (c Cargo) Empty() bool {
	return c.Total() == 0
}

// Space returns the units that still fit under capacity.
func (c Cargo) Space(capacity int) int {
	return max(capacity-c.Total(), 0)
}

// Take moves up to n units out of c, wood first, and returns what moved.
func (c *Cargo) Take(n int) Cargo {
	var out Cargo
	if n <= 0 {
		return out
	}
	out.Wood = min(c.Wood, n)
	c.Wood -= out.Wood
	out.Food = min(c.Food, n-out.Wood)
	c.Food -= out.Food
	return out
}

func (c Cargo) String() string {
	return fmt.Sprintf("%d wood %d food", c.Wood, c.Food)
}

// Put adds all of o to c.
func (c *Cargo) Put(o Cargo) {
	c.Wood += o.Wood
	c.Food += o.Food
}

// TakeFromStockpile moves up to n units out of a stockpile into cargo,
// balancing wood and food, and returns what moved.
func TakeFromStockpile(s *Stockpile, n int) Cargo {
	var out Cargo
	if n <= 0 {
		return out
	}
	out.Wood = min(s.Wood, (n+1)/2)
	out.Food = min(s.Food, n-out.Wood)
	if rest := n - out.Wood - out.Food; rest > 0 {
		out.Wood += min(s.Wood-out.Wood, rest)
	}
	s.Wood -= out.Wood
	s.Food -= out.Food
	return out
}
