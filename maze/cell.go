package maze

import (
	"fmt"
	"math"
)

// Direction names one of the four walls of a cell.
// The y axis grows northward, so South is the bottom edge of the grid.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every direction in a fixed order.
var Directions = [4]Direction{North, South, East, West}

// Opposite returns the direction facing back across the same wall.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Offset returns the coordinate delta of one step in the direction.
func (d Direction) Offset() Pos {
	switch d {
	case North:
		return Pos{X: 0, Y: 1}
	case South:
		return Pos{X: 0, Y: -1}
	case East:
		return Pos{X: 1, Y: 0}
	default:
		return Pos{X: -1, Y: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Pos is a pair of integer grid coordinates.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by delta.
func (p Pos) Add(delta Pos) Pos {
	return Pos{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Distance returns the Euclidean distance between p and o.
func (p Pos) Distance(o Pos) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Cell represents a single cell in a maze grid.
// Walls are indexed by Direction; true means the wall is present.
type Cell struct {
	X       int
	Y       int
	Visited bool // Visited is set by the carver.

	// Search scratch, reset before every pathfinding run.
	G    float64 // cost from the start
	H    float64 // heuristic to the goal
	F    float64 // G + H
	Prev *Cell   // predecessor on the best known path

	walls [4]bool
	grid  *Grid
}

// Pos returns the coordinates of the cell.
func (c *Cell) Pos() Pos {
	return Pos{X: c.X, Y: c.Y}
}

// HasWall reports whether the wall in direction d is still present.
func (c *Cell) HasWall(d Direction) bool {
	return c.walls[d]
}

func (c *Cell) String() string {
	return c.Pos().String()
}

func (c *Cell) resetSearch() {
	c.G, c.H, c.F = 0, 0, 0
	c.Prev = nil
}
