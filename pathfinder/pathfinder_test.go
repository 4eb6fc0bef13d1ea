package pathfinder

import (
	"context"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-maze/carver"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/stepper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

type recorder struct {
	maze.NopObserver
	current  []maze.Pos
	found    [][]maze.Pos
	notFound int
}

func (r *recorder) SearchStep(current maze.Pos, open, closed []maze.Pos) {
	r.current = append(r.current, current)
}

func (r *recorder) PathFound(p []maze.Pos) { r.found = append(r.found, p) }

func (r *recorder) PathNotFound() { r.notFound++ }

func carved(t *testing.T, size int, seed int64) *maze.Grid {
	t.Helper()
	g, err := maze.New(size)
	require.NoError(t, err)
	c, err := carver.New(g, carver.WithSeed(seed))
	require.NoError(t, err)
	require.NoError(t, c.RunToCompletion(context.Background()))
	return g
}

func cell(t *testing.T, g *maze.Grid, x, y int) *maze.Cell {
	t.Helper()
	c, err := g.Cell(x, y)
	require.NoError(t, err)
	return c
}

func solve(t *testing.T, g *maze.Grid, start, goal *maze.Cell, opts ...Option) *Pathfinder {
	t.Helper()
	p, err := New(g, start, goal, opts...)
	require.NoError(t, err)
	require.NoError(t, p.RunToCompletion(context.Background()))
	return p
}

// assertWalkable checks that consecutive cells are one cardinal step apart
// through a carved wall.
func assertWalkable(t *testing.T, g *maze.Grid, route []*maze.Cell) {
	t.Helper()
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		crossed := false
		for _, d := range g.OpenWalls(a) {
			if n, err := g.Neighbor(a, d); err == nil && n == b {
				crossed = true
			}
		}
		assert.True(t, crossed, "no passage between %v and %v", a, b)
	}
}

func TestFourByFour(t *testing.T) {
	g := carved(t, 4, 11)
	start, goal := cell(t, g, 0, 0), cell(t, g, 3, 3)

	p, err := New(g, start, goal)
	require.NoError(t, err)

	var status stepper.Status
	for status != stepper.Succeeded {
		status, err = p.Step()
		require.NoError(t, err)
		require.NotEqual(t, stepper.Failed, status)
	}

	route := p.Path()
	require.NotEmpty(t, route)
	assert.Equal(t, start, route[0])
	assert.Equal(t, goal, route[len(route)-1])
	assertWalkable(t, g, route)
}

func TestOptimality(t *testing.T) {
	for _, size := range []int{5, 12, 30} {
		g := carved(t, size, int64(size))

		gr := simple.NewUndirectedGraph()
		id := func(c *maze.Cell) int64 { return int64(c.X*size + c.Y) }
		g.Cells(func(c *maze.Cell) { gr.AddNode(simple.Node(id(c))) })
		g.Cells(func(c *maze.Cell) {
			for _, d := range g.OpenWalls(c) {
				if n, err := g.Neighbor(c, d); err == nil {
					gr.SetEdge(gr.NewEdge(simple.Node(id(c)), simple.Node(id(n))))
				}
			}
		})

		rng := rand.New(rand.NewSource(int64(size)))
		for i := 0; i < 10; i++ {
			start := cell(t, g, rng.Intn(size), rng.Intn(size))
			goal := cell(t, g, rng.Intn(size), rng.Intn(size))

			p := solve(t, g, start, goal)
			route := p.Path()
			assertWalkable(t, g, route)

			want, _ := path.DijkstraFrom(simple.Node(id(start)), gr).To(id(goal))
			require.Len(t, route, len(want), "%v -> %v", start, goal)
			for k := range want {
				assert.Equal(t, want[k].ID(), id(route[k]))
			}
		}
	}
}

func TestIdempotentRerun(t *testing.T) {
	g := carved(t, 15, 5)
	start, goal := cell(t, g, 0, 0), cell(t, g, 14, 7)

	first := solve(t, g, start, goal).PathPositions()
	second := solve(t, g, start, goal).PathPositions()
	assert.Equal(t, first, second)
}

func TestStartIsGoal(t *testing.T) {
	g := carved(t, 6, 2)
	c := cell(t, g, 2, 3)
	rec := &recorder{}

	p, err := New(g, c, c, WithObserver(rec))
	require.NoError(t, err)

	status, err := p.Step()
	require.NoError(t, err)
	assert.Equal(t, stepper.Succeeded, status)
	assert.Equal(t, []*maze.Cell{c}, p.Path())
	assert.Zero(t, p.Expanded())
	assert.Empty(t, rec.current)
	assert.Equal(t, [][]maze.Pos{{c.Pos()}}, rec.found)
}

func TestInvalidCells(t *testing.T) {
	g := carved(t, 4, 1)
	other := carved(t, 4, 1)

	_, err := New(g, cell(t, g, 0, 0), cell(t, other, 3, 3))
	assert.ErrorIs(t, err, ErrInvalidCells)

	_, err = New(g, nil, cell(t, g, 3, 3))
	assert.ErrorIs(t, err, ErrInvalidCells)

	_, err = New(nil, cell(t, g, 0, 0), cell(t, g, 3, 3))
	assert.ErrorIs(t, err, ErrInvalidCells)
}

func TestNoPathFound(t *testing.T) {
	g, err := maze.New(4)
	require.NoError(t, err)
	rec := &recorder{}

	p, err := New(g, cell(t, g, 0, 0), cell(t, g, 3, 3), WithObserver(rec))
	require.NoError(t, err)

	err = p.RunToCompletion(context.Background())
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Equal(t, 1, rec.notFound)
	assert.Nil(t, p.Path())

	status, err := p.Step()
	assert.Equal(t, stepper.Failed, status)
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestReconstructionIsStepped(t *testing.T) {
	g := carved(t, 10, 21)
	start, goal := cell(t, g, 0, 0), cell(t, g, 9, 9)
	rec := &recorder{}

	p, err := New(g, start, goal, WithObserver(rec))
	require.NoError(t, err)

	for {
		status, err := p.Step()
		require.NoError(t, err)
		require.Equal(t, stepper.Continue, status)
		if len(rec.current) > 0 && rec.current[len(rec.current)-1] == goal.Pos() {
			break
		}
	}
	searchSteps := p.Steps()
	assert.Nil(t, p.Path(), "path is not available while it is being rebuilt")
	assert.Equal(t, start.Pos(), rec.current[0])

	require.NoError(t, p.RunToCompletion(context.Background()))
	route := p.Path()
	assert.Equal(t, searchSteps+len(route), p.Steps())
	assert.Len(t, rec.found, 1)
}

func TestAbort(t *testing.T) {
	g := carved(t, 20, 8)
	p, err := New(g, cell(t, g, 0, 0), cell(t, g, 19, 19))
	require.NoError(t, err)

	_, _ = p.Step()
	_, _ = p.Step()
	p.Abort()

	status, err := p.Step()
	assert.Equal(t, stepper.Failed, status)
	assert.ErrorIs(t, err, stepper.ErrCanceled)
	assert.Nil(t, p.Path())
	assert.Nil(t, p.open)
	assert.Nil(t, p.closed)
}
