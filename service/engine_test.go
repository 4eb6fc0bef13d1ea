package service

import (
	"context"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/pathfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, delay time.Duration) (*Engine, *memRuns) {
	t.Helper()
	runs := newMemRuns()
	seed := int64(0)
	e, err := NewEngine(EngineConfig{
		DelayEnabled: delay > 0,
		StepDelay:    delay,
		Seed:         func() int64 { seed++; return seed },
		Runs:         runs,
		Logger:       discardLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(e.Cancel)
	return e, runs
}

func generated(t *testing.T, e *Engine, size int) {
	t.Helper()
	_, err := e.GenerateMaze(context.Background(), size)
	require.NoError(t, err)
	e.Wait()
	s, ok := e.Snapshot()
	require.True(t, ok)
	require.True(t, s.Ready)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(EngineConfig{})
	assert.Error(t, err, "a logger is required")

	e, err := NewEngine(EngineConfig{Logger: discardLogger(t), DelayEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, maze.DefaultMinSize, e.cfg.MinSize)
	assert.Equal(t, maze.DefaultMaxSize, e.cfg.MaxSize)
	assert.Equal(t, defaultStepDelay, e.cfg.StepDelay)

	_, ok := e.Snapshot()
	assert.False(t, ok)
}

func TestGenerateMaze(t *testing.T) {
	e, runs := newEngine(t, 0)

	id, err := e.GenerateMaze(context.Background(), 6)
	require.NoError(t, err)
	e.Wait()

	s, ok := e.Snapshot()
	require.True(t, ok)
	assert.True(t, s.Ready)
	assert.Empty(t, s.Active)
	assert.Equal(t, 6, s.Size)
	assert.Equal(t, id, s.RunID)
	assert.Equal(t, maze.Pos{X: 0, Y: 0}, s.Entry)
	assert.Equal(t, "South", s.EntryWall)
	assert.Equal(t, s.Entry, s.Agent)
	require.NotNil(t, s.Exit)
	assert.Equal(t, 5, s.Exit.X)
	assert.Equal(t, "East", s.ExitWall)
	assert.NotEmpty(t, s.Rendering)

	run, err := runs.ByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RunGenerate, run.Kind)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, int64(1), run.Seed)
	assert.Positive(t, run.Steps)
	assert.False(t, run.FinishedAt.IsZero())
}

func TestGenerateMazeInvalidSize(t *testing.T) {
	e, _ := newEngine(t, 0)
	for _, size := range []int{-1, 0, 1, 3, 100} {
		_, err := e.GenerateMaze(context.Background(), size)
		assert.ErrorIs(t, err, maze.ErrInvalidSize, "size %d", size)
	}
	_, ok := e.Snapshot()
	assert.False(t, ok)
}

func TestFindPathNotReady(t *testing.T) {
	e, _ := newEngine(t, 0)
	_, err := e.FindPath(context.Background(), maze.Pos{}, maze.Pos{X: 1})
	assert.ErrorIs(t, err, ErrMazeNotReady)

	slow, _ := newEngine(t, 10*time.Millisecond)
	_, err = slow.GenerateMaze(context.Background(), 10)
	require.NoError(t, err)
	_, err = slow.FindPathFromAgent(context.Background(), maze.Pos{X: 1})
	assert.ErrorIs(t, err, ErrMazeNotReady)
}

func TestFindPath(t *testing.T) {
	e, runs := newEngine(t, 0)
	generated(t, e, 6)

	id, err := e.FindPath(context.Background(), maze.Pos{X: 0, Y: 0}, maze.Pos{X: 5, Y: 5})
	require.NoError(t, err)
	e.Wait()

	s, _ := e.Snapshot()
	require.NotEmpty(t, s.Path)
	assert.Equal(t, maze.Pos{X: 0, Y: 0}, s.Path[0])
	assert.Equal(t, maze.Pos{X: 5, Y: 5}, s.Path[len(s.Path)-1])
	assert.Equal(t, maze.Pos{X: 5, Y: 5}, s.Agent)

	run, err := runs.ByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RunFindPath, run.Kind)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, s.Path, run.Path)
	assert.Positive(t, run.Expanded)

	t.Run("from agent", func(t *testing.T) {
		_, err := e.FindPathFromAgent(context.Background(), maze.Pos{X: 2, Y: 0})
		require.NoError(t, err)
		e.Wait()

		s, _ := e.Snapshot()
		require.NotEmpty(t, s.Path)
		assert.Equal(t, maze.Pos{X: 5, Y: 5}, s.Path[0])
		assert.Equal(t, maze.Pos{X: 2, Y: 0}, s.Agent)
	})

	t.Run("out of bounds", func(t *testing.T) {
		_, err := e.FindPath(context.Background(), maze.Pos{X: -1}, maze.Pos{X: 5, Y: 5})
		assert.ErrorIs(t, err, pathfinder.ErrInvalidCells)
		_, err = e.FindPathFromAgent(context.Background(), maze.Pos{X: 6, Y: 0})
		assert.ErrorIs(t, err, pathfinder.ErrInvalidCells)
	})
}

func TestFindPathBusy(t *testing.T) {
	e, _ := newEngine(t, 10*time.Millisecond)
	generated(t, e, 4)

	_, err := e.FindPath(context.Background(), maze.Pos{X: 0, Y: 0}, maze.Pos{X: 3, Y: 3})
	require.NoError(t, err)
	_, err = e.FindPath(context.Background(), maze.Pos{X: 0, Y: 0}, maze.Pos{X: 3, Y: 3})
	assert.ErrorIs(t, err, ErrBusy)

	s, _ := e.Snapshot()
	assert.Equal(t, string(domain.RunFindPath), s.Active)
	e.Wait()
}

func TestCancel(t *testing.T) {
	e, runs := newEngine(t, 10*time.Millisecond)

	id, err := e.GenerateMaze(context.Background(), 30)
	require.NoError(t, err)
	e.Cancel()

	s, ok := e.Snapshot()
	require.True(t, ok)
	assert.False(t, s.Ready)
	assert.Empty(t, s.Active)
	assert.Nil(t, s.Exit)

	run, err := runs.ByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCanceled, run.Status)

	e.Cancel()
}

func TestRegenerateCancelsPath(t *testing.T) {
	e, runs := newEngine(t, 10*time.Millisecond)
	generated(t, e, 4)

	pathID, err := e.FindPath(context.Background(), maze.Pos{X: 0, Y: 0}, maze.Pos{X: 3, Y: 3})
	require.NoError(t, err)

	_, err = e.GenerateMaze(context.Background(), 5)
	require.NoError(t, err)

	run, err := runs.ByID(context.Background(), pathID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCanceled, run.Status)
	assert.Empty(t, run.Path)

	s, _ := e.Snapshot()
	assert.Equal(t, 5, s.Size)
	assert.False(t, s.Ready)
	assert.Empty(t, s.Path)
	assert.Equal(t, maze.Pos{X: 0, Y: 0}, s.Agent)

	e.Wait()
	s, _ = e.Snapshot()
	assert.True(t, s.Ready)
}

func TestEngineRecordsEvents(t *testing.T) {
	queue := newMemQueue()
	rec, err := NewEventRecorder(queue, discardLogger(t), "maze", 0)
	require.NoError(t, err)

	e, err := NewEngine(EngineConfig{
		Seed:     func() int64 { return 3 },
		Recorder: rec,
		Logger:   discardLogger(t),
	})
	require.NoError(t, err)

	id, err := e.GenerateMaze(context.Background(), 4)
	require.NoError(t, err)
	e.Wait()
	rec.Close()

	events, err := rec.Poll(context.Background(), id, 1000)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	first, last := events[0], events[len(events)-1]
	assert.Equal(t, domain.EventCellVisited, first.Type)
	assert.Equal(t, &maze.Pos{X: 0, Y: 0}, first.Cell)
	assert.Equal(t, domain.EventMazeComplete, last.Type)

	carved := 0
	for k, ev := range events {
		assert.Equal(t, int64(k+1), ev.Seq)
		if ev.Type == domain.EventWallCarved {
			carved++
		}
	}
	assert.Equal(t, 15, carved)
	assert.Zero(t, rec.Dropped())
}

// slowQueue delays every Enqueue.
type slowQueue struct {
	*memQueue
	delay time.Duration
}

func (q *slowQueue) Enqueue(ctx context.Context, key string, score float64, member string) error {
	time.Sleep(q.delay)
	return q.memQueue.Enqueue(ctx, key, score, member)
}

func TestEngineRecordsEveryEventWithSlowQueue(t *testing.T) {
	queue := &slowQueue{memQueue: newMemQueue(), delay: 50 * time.Microsecond}
	rec, err := NewEventRecorder(queue, discardLogger(t), "maze", 2)
	require.NoError(t, err)

	e, err := NewEngine(EngineConfig{
		Seed:     func() int64 { return 5 },
		Recorder: rec,
		Logger:   discardLogger(t),
	})
	require.NoError(t, err)

	id, err := e.GenerateMaze(context.Background(), 12)
	require.NoError(t, err)
	e.Wait()
	rec.Close()

	events, err := rec.Poll(context.Background(), id, 10000)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Zero(t, rec.Dropped())
	assert.Equal(t, domain.EventMazeComplete, events[len(events)-1].Type)
	for k, ev := range events {
		assert.Equal(t, int64(k+1), ev.Seq)
	}
}
