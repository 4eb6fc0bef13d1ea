// Package pathfinder finds the shortest route between two cells of a carved
// grid with A*, one expansion per step.
//
// Only carved walls are traversable. After the goal is selected the path is
// rebuilt from the predecessor links, again one hop per step, so a host can
// animate the search and the reconstruction separately.
package pathfinder

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/stepper"
)

var (
	ErrInvalidCells = errors.New("start and goal must be cells of the searched grid")
	ErrNoPathFound  = errors.New("no path found")
)

var _ stepper.Executor = &Pathfinder{}

type phase int

const (
	searching phase = iota
	reconstructing
	done
	failed
)

// Heuristic estimates the remaining cost from a to b with the Euclidean distance.
func Heuristic(a, b *maze.Cell) float64 {
	return a.Pos().Distance(b.Pos())
}

// StepCost is the cost of moving between the centers of two cells.
func StepCost(a, b *maze.Cell) float64 {
	return a.Pos().Distance(b.Pos())
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithObserver sets the receiver of SearchStep, PathFound and PathNotFound events.
func WithObserver(o maze.Observer) Option {
	return func(p *Pathfinder) {
		if o != nil {
			p.observer = o
		}
	}
}

// Pathfinder is a resumable A* search over the passages of a grid.
type Pathfinder struct {
	grid     *maze.Grid
	start    *maze.Cell
	goal     *maze.Cell
	observer maze.Observer

	open    []*maze.Cell // insertion ordered; ties go to the earliest entry
	inOpen  map[*maze.Cell]struct{}
	closed  map[*maze.Cell]struct{}
	visited []*maze.Cell // closed cells in closing order

	cursor *maze.Cell
	path   []*maze.Cell

	phase    phase
	err      error
	steps    int
	expanded int
}

// New prepares a search from start to goal. The search scratch of every
// cell of grid is reset.
func New(grid *maze.Grid, start, goal *maze.Cell, opts ...Option) (*Pathfinder, error) {
	if grid == nil || !grid.Owns(start) || !grid.Owns(goal) {
		return nil, ErrInvalidCells
	}

	p := &Pathfinder{
		grid:     grid,
		start:    start,
		goal:     goal,
		observer: maze.NopObserver{},
		inOpen:   make(map[*maze.Cell]struct{}),
		closed:   make(map[*maze.Cell]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	grid.ResetSearch()
	start.G = 0
	start.H = Heuristic(start, goal)
	start.F = start.H
	p.open = append(p.open, start)
	p.inOpen[start] = struct{}{}

	return p, nil
}

// Step expands one cell while searching, or follows one predecessor link
// while rebuilding the path.
func (p *Pathfinder) Step() (stepper.Status, error) {
	switch p.phase {
	case done:
		return stepper.Succeeded, nil
	case failed:
		return stepper.Failed, p.err
	}

	p.steps++
	if p.start == p.goal {
		p.path = []*maze.Cell{p.start}
		return p.succeed()
	}

	if p.phase == reconstructing {
		return p.reconstruct()
	}
	return p.search()
}

// RunToCompletion searches and rebuilds the path without pausing.
func (p *Pathfinder) RunToCompletion(ctx context.Context) error {
	return stepper.Run(ctx, p)
}

// Abort discards the open and closed sets. Later steps fail with stepper.ErrCanceled.
func (p *Pathfinder) Abort() {
	if p.phase == done || p.phase == failed {
		return
	}
	p.phase = failed
	p.err = stepper.ErrCanceled
	p.open = nil
	p.inOpen = nil
	p.closed = nil
	p.visited = nil
	p.cursor = nil
	p.path = nil
}

func (p *Pathfinder) search() (stepper.Status, error) {
	if len(p.open) == 0 {
		p.phase = failed
		p.err = ErrNoPathFound
		p.observer.PathNotFound()
		return stepper.Failed, p.err
	}

	winner := 0
	for i := range p.open {
		if p.open[i].F < p.open[winner].F {
			winner = i
		}
	}
	current := p.open[winner]

	if current == p.goal {
		p.phase = reconstructing
		p.cursor = current
		p.path = []*maze.Cell{current}
		p.observer.SearchStep(current.Pos(), positions(p.open), positions(p.visited))
		return stepper.Continue, nil
	}

	p.open = append(p.open[:winner], p.open[winner+1:]...)
	delete(p.inOpen, current)
	p.closed[current] = struct{}{}
	p.visited = append(p.visited, current)
	p.expanded++

	for _, d := range p.grid.OpenWalls(current) {
		next, err := p.grid.Neighbor(current, d)
		if err != nil {
			continue // boundary opening
		}
		if _, ok := p.closed[next]; ok {
			continue
		}

		tempG := current.G + StepCost(current, next)
		_, queued := p.inOpen[next]
		if queued && tempG >= next.G {
			continue
		}

		next.G = tempG
		next.H = Heuristic(next, p.goal)
		next.F = next.G + next.H
		next.Prev = current
		if !queued {
			p.open = append(p.open, next)
			p.inOpen[next] = struct{}{}
		}
	}

	p.observer.SearchStep(current.Pos(), positions(p.open), positions(p.visited))
	return stepper.Continue, nil
}

func (p *Pathfinder) reconstruct() (stepper.Status, error) {
	if p.cursor.Prev != nil && p.cursor != p.start {
		p.cursor = p.cursor.Prev
		p.path = append(p.path, p.cursor)
		return stepper.Continue, nil
	}

	for i, j := 0, len(p.path)-1; i < j; i, j = i+1, j-1 {
		p.path[i], p.path[j] = p.path[j], p.path[i]
	}
	return p.succeed()
}

func (p *Pathfinder) succeed() (stepper.Status, error) {
	p.phase = done
	p.cursor = nil
	p.open = nil
	p.inOpen = nil
	p.observer.PathFound(positions(p.path))
	return stepper.Succeeded, nil
}

// Done reports whether a path has been found and rebuilt.
func (p *Pathfinder) Done() bool {
	return p.phase == done
}

// Path returns the cells from start to goal, or nil until the search succeeded.
func (p *Pathfinder) Path() []*maze.Cell {
	if p.phase != done {
		return nil
	}
	return append([]*maze.Cell(nil), p.path...)
}

// PathPositions returns the coordinates of Path.
func (p *Pathfinder) PathPositions() []maze.Pos {
	return positions(p.Path())
}

// Goal returns the cell the search looks for.
func (p *Pathfinder) Goal() *maze.Cell {
	return p.goal
}

// Steps returns the number of steps taken so far, reconstruction included.
func (p *Pathfinder) Steps() int {
	return p.steps
}

// Expanded returns the number of cells moved to the closed set.
func (p *Pathfinder) Expanded() int {
	return p.expanded
}

func positions(cells []*maze.Cell) []maze.Pos {
	if cells == nil {
		return nil
	}
	out := make([]maze.Pos, len(cells))
	for i, c := range cells {
		out[i] = c.Pos()
	}
	return out
}
