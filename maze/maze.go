/*
Package maze provides the square grid a maze is carved into.

A Grid owns size×size cells, each with four walls. Walls are shared between
neighbours: carving one side always carves the mirrored side of the neighbour,
so the passage graph stays symmetric. The carver and pathfinder packages
operate on a Grid; the Observer type is the event contract both of them
report through.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultMinSize = 4
	DefaultMaxSize = 100 // exclusive
)

var (
	ErrInvalidSize = errors.New("invalid maze size")
	ErrOutOfBounds = errors.New("position is out of the maze")
	ErrInnerWall   = errors.New("wall is not on the maze boundary")
	ErrForeignCell = errors.New("cell does not belong to this grid")
)

// Option configures grid creation.
type Option func(*options)

type options struct {
	minSize int
	maxSize int
}

// WithBounds overrides the accepted size range [minSize, maxSize).
func WithBounds(minSize, maxSize int) Option {
	return func(o *options) {
		o.minSize = minSize
		o.maxSize = maxSize
	}
}

// Grid is a square array of cells. Its size never changes after New.
type Grid struct {
	size  int
	cells [][]*Cell // indexed [x][y]
}

// New allocates a size×size grid with every wall present and no cell visited.
func New(size int, opts ...Option) (*Grid, error) {
	o := options{minSize: DefaultMinSize, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.minSize < 1 {
		o.minSize = 1
	}
	if size < o.minSize || size >= o.maxSize {
		return nil, fmt.Errorf("%w: %d not in [%d, %d)", ErrInvalidSize, size, o.minSize, o.maxSize)
	}

	g := &Grid{size: size}
	g.cells = make([][]*Cell, size)
	for x := range g.cells {
		g.cells[x] = make([]*Cell, size)
		for y := range g.cells[x] {
			g.cells[x][y] = &Cell{
				X:     x,
				Y:     y,
				walls: [4]bool{true, true, true, true},
				grid:  g,
			}
		}
	}
	return g, nil
}

// Size returns the number of cells along one side.
func (g *Grid) Size() int {
	return g.size
}

// InBound reports whether (x, y) lies inside the grid.
func (g *Grid) InBound(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// Cell returns the cell at (x, y).
func (g *Grid) Cell(x, y int) (*Cell, error) {
	if !g.InBound(x, y) {
		return nil, ErrOutOfBounds
	}
	return g.cells[x][y], nil
}

// At returns the cell at p.
func (g *Grid) At(p Pos) (*Cell, error) {
	return g.Cell(p.X, p.Y)
}

// Owns reports whether c is one of this grid's cells.
func (g *Grid) Owns(c *Cell) bool {
	return c != nil && c.grid == g
}

// Cells calls fn for every cell, column by column.
func (g *Grid) Cells(fn func(c *Cell)) {
	for x := range g.cells {
		for _, c := range g.cells[x] {
			fn(c)
		}
	}
}

// Neighbor returns the adjacent cell of c in direction d.
func (g *Grid) Neighbor(c *Cell, d Direction) (*Cell, error) {
	if !g.Owns(c) {
		return nil, ErrForeignCell
	}
	p := c.Pos().Add(d.Offset())
	return g.Cell(p.X, p.Y)
}

// Carve removes the wall of c in direction d together with the mirrored wall
// of the neighbour. Carving an already open wall does nothing.
func (g *Grid) Carve(c *Cell, d Direction) error {
	n, err := g.Neighbor(c, d)
	if err != nil {
		return err
	}
	c.walls[d] = false
	n.walls[d.Opposite()] = false
	return nil
}

// OpenBoundary removes an outer wall of c, which has no neighbour to mirror.
func (g *Grid) OpenBoundary(c *Cell, d Direction) error {
	if !g.Owns(c) {
		return ErrForeignCell
	}
	p := c.Pos().Add(d.Offset())
	if g.InBound(p.X, p.Y) {
		return ErrInnerWall
	}
	c.walls[d] = false
	return nil
}

// OpenWalls returns the directions in which c has no wall.
func (g *Grid) OpenWalls(c *Cell) []Direction {
	return c.wallsMatching(false)
}

// ClosedWalls returns the directions in which c still has a wall.
func (g *Grid) ClosedWalls(c *Cell) []Direction {
	return c.wallsMatching(true)
}

func (c *Cell) wallsMatching(present bool) []Direction {
	dirs := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if c.walls[d] == present {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Passages counts the carved walls between two in-bound cells.
func (g *Grid) Passages() int {
	n := 0
	g.Cells(func(c *Cell) {
		for _, d := range []Direction{North, East} {
			p := c.Pos().Add(d.Offset())
			if g.InBound(p.X, p.Y) && !c.walls[d] {
				n++
			}
		}
	})
	return n
}

// ResetSearch clears the pathfinding scratch of every cell.
func (g *Grid) ResetSearch() {
	g.Cells(func(c *Cell) { c.resetSearch() })
}

// String provides a textual representation of the grid, north at the top.
func (g *Grid) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for x := 0; x < g.size; x++ {
		if g.cells[x][g.size-1].walls[North] {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for y := g.size - 1; y >= 0; y-- {
		// Cell row
		if g.cells[0][y].walls[West] {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for x := 0; x < g.size; x++ {
			b.WriteString("   ")
			if g.cells[x][y].walls[East] {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")

		// Wall row
		b.WriteString("+")
		for x := 0; x < g.size; x++ {
			if g.cells[x][y].walls[South] {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
