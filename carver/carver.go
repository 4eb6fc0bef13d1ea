// Package carver turns a closed grid into a perfect maze with a randomized,
// resumable depth-first traversal.
//
// The traversal starts at (0,0), keeps an explicit history of the cells it
// came from and backtracks through it instead of recursing, so it can be
// suspended after any step. When the history runs dry every cell has been
// visited and the carved passages form a spanning tree.
package carver

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/stepper"
)

// ExitDirection is the boundary wall the goal indicator is placed on.
const ExitDirection = maze.East

var (
	ErrNilGrid      = errors.New("carver needs a grid")
	ErrInvalidEntry = errors.New("entry must be a boundary wall of the start cell")
)

var _ stepper.Executor = &Carver{}

// Option configures a Carver.
type Option func(*Carver)

// WithSeed makes the carving reproducible.
func WithSeed(seed int64) Option {
	return func(c *Carver) {
		c.seed = seed
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand draws all random choices from r. The recorded seed is zero.
func WithRand(r *rand.Rand) Option {
	return func(c *Carver) {
		if r != nil {
			c.seed = 0
			c.rng = r
		}
	}
}

// WithEntry sets the boundary wall of (0,0) that opens the maze. Defaults to South.
func WithEntry(d maze.Direction) Option {
	return func(c *Carver) { c.entryDir = d }
}

// WithObserver sets the receiver of CellVisited, WallCarved and MazeComplete events.
func WithObserver(o maze.Observer) Option {
	return func(c *Carver) {
		if o != nil {
			c.observer = o
		}
	}
}

// Carver is a randomized backtracking spanning-tree builder.
type Carver struct {
	grid     *maze.Grid
	rng      *rand.Rand
	seed     int64
	entryDir maze.Direction
	observer maze.Observer

	current *maze.Cell
	history []*maze.Cell // LIFO
	entry   *maze.Cell
	exit    *maze.Cell
	steps   int

	started bool
	done    bool
	aborted bool
}

// New prepares a carver for grid. Nothing is carved until the first Step.
func New(grid *maze.Grid, opts ...Option) (*Carver, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}

	c := &Carver{
		grid:     grid,
		entryDir: maze.South,
		observer: maze.NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.seed = time.Now().UnixNano()
		c.rng = rand.New(rand.NewSource(c.seed))
	}

	start, _ := grid.Cell(0, 0)
	if _, err := grid.Neighbor(start, c.entryDir); !errors.Is(err, maze.ErrOutOfBounds) {
		return nil, ErrInvalidEntry
	}
	c.entry = start

	return c, nil
}

// Step carves at most one passage or backtracks to the next cell that still
// has unvisited neighbours.
func (c *Carver) Step() (stepper.Status, error) {
	if c.aborted {
		return stepper.Failed, stepper.ErrCanceled
	}
	if c.done {
		return stepper.Succeeded, nil
	}

	c.steps++
	if !c.started {
		c.start()
	}

	if c.advance() || c.backtrack() {
		return stepper.Continue, nil
	}

	c.finish()
	return stepper.Succeeded, nil
}

// RunToCompletion carves the whole maze without pausing.
func (c *Carver) RunToCompletion(ctx context.Context) error {
	return stepper.Run(ctx, c)
}

// Abort stops the carver; the grid is left as it is.
func (c *Carver) Abort() {
	c.aborted = true
	c.history = nil
	c.current = nil
}

func (c *Carver) start() {
	c.started = true
	c.current = c.entry
	c.current.Visited = true
	_ = c.grid.OpenBoundary(c.current, c.entryDir)
	c.observer.CellVisited(c.current.Pos())
}

// advance moves into the first unvisited neighbour found in random order.
func (c *Carver) advance() bool {
	dirs := c.grid.ClosedWalls(c.current)
	c.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

	for _, d := range dirs {
		next, err := c.grid.Neighbor(c.current, d)
		if err != nil || next.Visited {
			continue
		}

		_ = c.grid.Carve(c.current, d)
		next.Visited = true
		c.history = append(c.history, c.current)
		c.observer.WallCarved(c.current.Pos(), next.Pos(), d)

		c.current = next
		c.observer.CellVisited(next.Pos())
		return true
	}
	return false
}

// backtrack pops the history until a cell with an unvisited neighbour turns
// up. Fully resolved cells are dropped on the way.
func (c *Carver) backtrack() bool {
	for len(c.history) > 0 {
		last := len(c.history) - 1
		cell := c.history[last]
		c.history = c.history[:last]

		if c.hasUnvisitedNeighbor(cell) {
			c.current = cell
			c.observer.CellVisited(cell.Pos())
			return true
		}
	}
	return false
}

func (c *Carver) hasUnvisitedNeighbor(cell *maze.Cell) bool {
	for _, d := range c.grid.ClosedWalls(cell) {
		if next, err := c.grid.Neighbor(cell, d); err == nil && !next.Visited {
			return true
		}
	}
	return false
}

func (c *Carver) finish() {
	c.done = true
	c.history = nil
	size := c.grid.Size()
	c.exit, _ = c.grid.Cell(size-1, c.rng.Intn(size))
	c.observer.MazeComplete(c.entry.Pos(), c.exit.Pos())
}

// Done reports whether carving has finished successfully.
func (c *Carver) Done() bool {
	return c.done
}

// Entry returns the start cell, whose EntryDirection wall opens the maze.
func (c *Carver) Entry() *maze.Cell {
	return c.entry
}

// EntryDirection returns the boundary wall opened at the entry.
func (c *Carver) EntryDirection() maze.Direction {
	return c.entryDir
}

// Exit returns the goal cell on the ExitDirection boundary, or nil before completion.
func (c *Carver) Exit() *maze.Cell {
	return c.exit
}

// Seed returns the seed of the random source.
func (c *Carver) Seed() int64 {
	return c.seed
}

// Steps returns the number of steps taken so far.
func (c *Carver) Steps() int {
	return c.steps
}
