package sim

import (
	"math/rand"
	"testing"
)

func TestWrap(t *testing.T) {
	g := NewGrid(10, 5)
	tests := []struct {
		in   Coord
		want Coord
	}{
		{Coord{0, 0}, Coord{0, 0}},
		{Coord{10, 5}, Coord{0, 0}},
		{Coord{-1, -1}, Coord{9, 4}},
		{Coord{11, 6}, Coord{1, 1}},
		{Coord{-10, -5}, Coord{0, 0}},
	}
	for _, tt := range tests {
		if got := g.Wrap(tt.in); got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNeighborhoodWrapsTorus(t *testing.T) {
	g := NewGrid(5, 5)
	n := g.Neighborhood(Coord{0, 0})
	if len(n) != 8 {
		t.Fatalf("neighborhood size = %d, want 8", len(n))
	}
	seen := map[Coord]bool{}
	for _, c := range n {
		if c.X < 0 || c.X >= 5 || c.Y < 0 || c.Y >= 5 {
			t.Errorf("neighbor %v outside grid", c)
		}
		if c == (Coord{0, 0}) {
			t.Error("neighborhood contains center")
		}
		seen[c] = true
	}
	// Corner of a 5x5 torus has 8 distinct neighbors.
	if len(seen) != 8 {
		t.Errorf("distinct neighbors = %d, want 8", len(seen))
	}
	for _, want := range []Coord{{4, 4}, {4, 0}, {0, 4}, {1, 1}} {
		if !seen[want] {
			t.Errorf("expected wrapped neighbor %v", want)
		}
	}
}

func TestRandomEmptyNeighbor(t *testing.T) {
	g := NewGrid(3, 3)
	rng := rand.New(rand.NewSource(1))

	center := Coord{1, 1}
	// Fill every cell except one neighbor.
	open := Coord{2, 2}
	id := uint64(1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := Coord{x, y}
			if c == center || c == open {
				continue
			}
			g.Place(&Amoeba{ID: id, Pos: c, State: StateIntact})
			id++
		}
	}

	got, ok := g.RandomEmptyNeighbor(center, rng)
	if !ok || got != open {
		t.Errorf("RandomEmptyNeighbor = %v, %v; want %v, true", got, ok, open)
	}

	g.Place(&Amoeba{ID: id, Pos: open, State: StateIntact})
	if _, ok := g.RandomEmptyNeighbor(center, rng); ok {
		t.Error("expected no empty neighbor on full grid")
	}
}

func TestRandomEmptyCellFillsGrid(t *testing.T) {
	g := NewGrid(4, 4)
	rng := rand.New(rand.NewSource(2))

	seen := map[Coord]bool{}
	for i := 0; i < 16; i++ {
		c, err := g.RandomEmptyCell(rng)
		if err != nil {
			t.Fatalf("RandomEmptyCell failed at %d: %v", i, err)
		}
		if seen[c] {
			t.Fatalf("cell %v returned twice", c)
		}
		seen[c] = true
		g.Place(&Amoeba{ID: uint64(i + 1), Pos: c, State: StateIntact})
	}

	if _, err := g.RandomEmptyCell(rng); err == nil {
		t.Error("expected error on full grid")
	}
}
