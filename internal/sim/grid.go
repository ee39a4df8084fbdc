package sim

import (
	"fmt"
	"math/rand"
)

// Grid is a single-occupancy torus: at most one amoeba per cell, with
// neighborhoods wrapping at the edges.
type Grid struct {
	Width  int
	Height int

	cells map[Coord]*Amoeba
}

// NewGrid creates an empty grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make(map[Coord]*Amoeba),
	}
}

// Wrap normalizes a coordinate onto the torus.
func (g *Grid) Wrap(c Coord) Coord {
	c.X = ((c.X % g.Width) + g.Width) % g.Width
	c.Y = ((c.Y % g.Height) + g.Height) % g.Height
	return c
}

// At returns the occupant of a cell, or nil.
func (g *Grid) At(c Coord) *Amoeba {
	return g.cells[g.Wrap(c)]
}

// Empty reports whether a cell is unoccupied.
func (g *Grid) Empty(c Coord) bool {
	return g.cells[g.Wrap(c)] == nil
}

// Place puts an amoeba on the grid at its own position.
func (g *Grid) Place(a *Amoeba) {
	a.Pos = g.Wrap(a.Pos)
	g.cells[a.Pos] = a
}

// Occupied returns the number of occupied cells.
func (g *Grid) Occupied() int {
	return len(g.cells)
}

// Clear removes all occupants.
func (g *Grid) Clear() {
	g.cells = make(map[Coord]*Amoeba)
}

// Neighborhood returns the eight Moore neighbors of a cell, torus-wrapped,
// center excluded.
func (g *Grid) Neighborhood(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, g.Wrap(Coord{X: c.X + dx, Y: c.Y + dy}))
		}
	}
	return out
}

// RandomEmptyNeighbor picks a uniformly random empty Moore neighbor of c.
// Returns false if the whole neighborhood is occupied.
func (g *Grid) RandomEmptyNeighbor(c Coord, rng *rand.Rand) (Coord, bool) {
	var empty []Coord
	for _, n := range g.Neighborhood(c) {
		if g.Empty(n) {
			empty = append(empty, n)
		}
	}
	if len(empty) == 0 {
		return Coord{}, false
	}
	return empty[rng.Intn(len(empty))], true
}

// RandomEmptyCell picks a uniformly random empty cell anywhere on the grid.
// Returns an error if the grid is full.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (Coord, error) {
	free := g.Width*g.Height - len(g.cells)
	if free <= 0 {
		return Coord{}, fmt.Errorf("grid full (%dx%d)", g.Width, g.Height)
	}

	// Rejection sampling is cheap while the grid is sparse; fall back to a
	// scan once attempts run out so a near-full grid still terminates.
	for attempts := 0; attempts < 4*g.Width*g.Height; attempts++ {
		c := Coord{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
		if g.Empty(c) {
			return c, nil
		}
	}
	nth := rng.Intn(free)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			if g.Empty(c) {
				if nth == 0 {
					return c, nil
				}
				nth--
			}
		}
	}
	return Coord{}, fmt.Errorf("grid full (%dx%d)", g.Width, g.Height)
}
