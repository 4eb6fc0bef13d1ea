package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/carver"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/pathfinder"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/beka-birhanu/vinom-maze/stepper"
	"github.com/google/uuid"
)

const (
	defaultStepDelay = 20 * time.Millisecond
	runSaveTimeout   = 2 * time.Second
)

var (
	ErrMazeNotReady = errors.New("maze is not generated yet")
	ErrBusy         = errors.New("a path search is already running")
)

var _ i.MazeEngine = &Engine{}

// EngineConfig holds the parameters of a new Engine.
type EngineConfig struct {
	MinSize      int            // Smallest accepted maze size.
	MaxSize      int            // Exclusive upper bound of the maze size.
	DelayEnabled bool           // Pace algorithms one step per StepDelay instead of running them at once.
	StepDelay    time.Duration  // Pause between two steps when DelayEnabled.
	Seed         func() int64   // Optional source of carver seeds.
	Observer     maze.Observer  // Optional receiver of every algorithm event. Called under the engine lock.
	Recorder     *EventRecorder // Optional per-run event recorder.
	Runs         i.RunRepo      // Optional store of run summaries.
	Logger       i.Logger       // Logger.
}

// operation is the algorithm currently owning the grid.
type operation struct {
	run    *domain.Run
	exec   stepper.Executor
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine is the host-facing facade over the grid, the carver and the
// pathfinder. It owns a single maze at a time; generating a new one cancels
// whatever runs on the old one.
//
// Each step of the running algorithm holds the engine lock, so readers such
// as Snapshot never observe a half-applied step.
type Engine struct {
	cfg EngineConfig

	requestLock sync.Mutex // serializes GenerateMaze, FindPath and Cancel
	mu          sync.Mutex // guards the fields below

	grid      *maze.Grid
	runID     uuid.UUID
	ready     bool
	entry     maze.Pos
	entryWall maze.Direction
	exit      *maze.Pos
	agent     maze.Pos
	lastPath  []maze.Pos
	active    *operation
}

// NewEngine creates an engine without a maze.
func NewEngine(c EngineConfig) (*Engine, error) {
	if c.MinSize <= 0 {
		c.MinSize = maze.DefaultMinSize
	}
	if c.MaxSize <= c.MinSize {
		c.MaxSize = maze.DefaultMaxSize
	}
	if c.DelayEnabled && c.StepDelay <= 0 {
		c.StepDelay = defaultStepDelay
	}
	if c.Observer == nil {
		c.Observer = maze.NopObserver{}
	}
	if c.Logger == nil {
		return nil, errors.New("engine needs a logger")
	}

	return &Engine{cfg: c}, nil
}

// GenerateMaze cancels any running operation, replaces the grid with a new
// one of the given size and starts carving it.
func (e *Engine) GenerateMaze(ctx context.Context, size int) (uuid.UUID, error) {
	e.requestLock.Lock()
	defer e.requestLock.Unlock()

	grid, err := maze.New(size, maze.WithBounds(e.cfg.MinSize, e.cfg.MaxSize))
	if err != nil {
		return uuid.Nil, err
	}

	e.stopActive()

	run := domain.NewRun(domain.RunGenerate, size)
	opts := []carver.Option{carver.WithObserver(e.observerFor(run.ID))}
	if e.cfg.Seed != nil {
		opts = append(opts, carver.WithSeed(e.cfg.Seed()))
	}
	c, err := carver.New(grid, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	run.Seed = c.Seed()
	entry := c.Entry().Pos()

	e.mu.Lock()
	e.grid = grid
	e.runID = run.ID
	e.ready = false
	e.entry = entry
	e.entryWall = c.EntryDirection()
	e.exit = nil
	e.agent = entry
	e.lastPath = nil
	op := e.begin(ctx, run, c)
	e.mu.Unlock()

	e.cfg.Logger.Info(fmt.Sprintf("generating %dx%d maze, run %s, seed %d", size, size, run.ID, run.Seed))
	go e.execute(op)
	return run.ID, nil
}

// FindPath starts an A* search between two cells of the current maze.
func (e *Engine) FindPath(ctx context.Context, start, goal maze.Pos) (uuid.UUID, error) {
	e.requestLock.Lock()
	defer e.requestLock.Unlock()
	return e.findPath(ctx, &start, goal)
}

// FindPathFromAgent starts an A* search from the agent position, which
// moves to the goal of every successful search.
func (e *Engine) FindPathFromAgent(ctx context.Context, goal maze.Pos) (uuid.UUID, error) {
	e.requestLock.Lock()
	defer e.requestLock.Unlock()
	return e.findPath(ctx, nil, goal)
}

func (e *Engine) findPath(ctx context.Context, start *maze.Pos, goal maze.Pos) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grid == nil || !e.ready {
		return uuid.Nil, ErrMazeNotReady
	}
	if e.active != nil {
		return uuid.Nil, ErrBusy
	}
	if start == nil {
		start = &e.agent
	}

	from, err := e.grid.At(*start)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: start %v: %v", pathfinder.ErrInvalidCells, *start, err)
	}
	to, err := e.grid.At(goal)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: goal %v: %v", pathfinder.ErrInvalidCells, goal, err)
	}

	run := domain.NewRun(domain.RunFindPath, e.grid.Size())
	run.Start, run.Goal = &maze.Pos{X: from.X, Y: from.Y}, &maze.Pos{X: to.X, Y: to.Y}

	p, err := pathfinder.New(e.grid, from, to, pathfinder.WithObserver(e.observerFor(run.ID)))
	if err != nil {
		return uuid.Nil, err
	}

	e.lastPath = nil
	op := e.begin(ctx, run, p)
	e.cfg.Logger.Info(fmt.Sprintf("searching path %v -> %v, run %s", from, to, run.ID))
	go e.execute(op)
	return run.ID, nil
}

// Cancel stops the running operation at its next suspension point and
// waits for it to wind down.
func (e *Engine) Cancel() {
	e.requestLock.Lock()
	defer e.requestLock.Unlock()
	e.stopActive()
}

// Wait blocks until the running operation, if any, ends.
func (e *Engine) Wait() {
	e.mu.Lock()
	op := e.active
	e.mu.Unlock()
	if op != nil {
		<-op.done
	}
}

// Snapshot returns the current maze state. The boolean is false before the
// first maze is requested.
func (e *Engine) Snapshot() (i.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grid == nil {
		return i.Snapshot{}, false
	}

	s := i.Snapshot{
		Size:      e.grid.Size(),
		Ready:     e.ready,
		RunID:     e.runID,
		Entry:     e.entry,
		EntryWall: e.entryWall.String(),
		Agent:     e.agent,
		Path:      append([]maze.Pos(nil), e.lastPath...),
		Rendering: e.grid.String(),
	}
	if e.exit != nil {
		exit := *e.exit
		s.Exit = &exit
		s.ExitWall = carver.ExitDirection.String()
	}
	if e.active != nil {
		s.Active = string(e.active.run.Kind)
	}
	return s, true
}

// begin registers a new active operation. The caller holds the engine lock.
func (e *Engine) begin(ctx context.Context, run *domain.Run, exec stepper.Executor) *operation {
	opCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	op := &operation{
		run:    run,
		exec:   lockedExecutor{lock: &e.mu, exec: exec},
		ctx:    opCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	e.active = op
	return op
}

// stopActive cancels the active operation and waits for it to end. The
// caller holds requestLock but not the engine lock.
func (e *Engine) stopActive() {
	e.mu.Lock()
	op := e.active
	e.mu.Unlock()

	if op == nil {
		return
	}
	op.cancel()
	<-op.done
}

func (e *Engine) execute(op *operation) {
	defer close(op.done)
	defer op.cancel()

	var err error
	if e.cfg.DelayEnabled {
		err = stepper.Drive(op.ctx, op.exec, e.cfg.StepDelay)
	} else {
		err = stepper.Run(op.ctx, op.exec)
	}

	e.mu.Lock()
	e.complete(op, err)
	if e.active == op {
		e.active = nil
	}
	e.mu.Unlock()

	e.logRun(op.run)
	e.saveRun(op.run)
}

// complete folds the outcome of op into the engine state. The caller holds the engine lock.
func (e *Engine) complete(op *operation, err error) {
	run := op.run
	status := domain.RunSucceeded
	switch {
	case errors.Is(err, stepper.ErrCanceled):
		status = domain.RunCanceled
	case err != nil:
		status = domain.RunFailed
	}

	switch exec := op.exec.(lockedExecutor).exec.(type) {
	case *carver.Carver:
		run.Steps = exec.Steps()
		if status == domain.RunSucceeded {
			exit := exec.Exit().Pos()
			e.exit = &exit
			e.ready = true
		}
	case *pathfinder.Pathfinder:
		run.Steps = exec.Steps()
		run.Expanded = exec.Expanded()
		if status == domain.RunSucceeded {
			run.Path = exec.PathPositions()
			e.lastPath = run.Path
			e.agent = exec.Goal().Pos()
		}
	}
	run.Finish(status, err)
}

func (e *Engine) logRun(run *domain.Run) {
	msg := fmt.Sprintf("%s run %s %s after %d steps in %s", run.Kind, run.ID, run.Status, run.Steps, run.Duration())
	switch run.Status {
	case domain.RunFailed:
		e.cfg.Logger.Error(msg + ": " + run.Error)
	case domain.RunCanceled:
		e.cfg.Logger.Warning(msg)
	default:
		e.cfg.Logger.Info(msg)
	}
}

func (e *Engine) saveRun(run *domain.Run) {
	if e.cfg.Runs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), runSaveTimeout)
	defer cancel()
	if err := e.cfg.Runs.Save(ctx, run); err != nil {
		e.cfg.Logger.Error(fmt.Sprintf("saving run %s: %s", run.ID, err))
	}
}

func (e *Engine) observerFor(runID uuid.UUID) maze.Observer {
	if e.cfg.Recorder == nil {
		return e.cfg.Observer
	}
	return maze.Observers{e.cfg.Observer, e.cfg.Recorder.ForRun(runID, !e.cfg.DelayEnabled)}
}

// lockedExecutor makes every step of exec atomic with respect to the engine lock.
type lockedExecutor struct {
	lock *sync.Mutex
	exec stepper.Executor
}

func (l lockedExecutor) Step() (stepper.Status, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.exec.Step()
}

func (l lockedExecutor) Abort() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.exec.Abort()
}
