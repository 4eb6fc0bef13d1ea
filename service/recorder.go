package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	defaultRecorderBuffer = 1024
	enqueueTimeout        = time.Second
)

var _ i.EventSource = &EventRecorder{}

type record struct {
	key   string
	event domain.Event
}

// EventRecorder stores the events of every run in a sorted queue keyed by
// run, ordered by sequence number. Events are handed to a background
// goroutine through a buffer. When the buffer is full, progress events of
// lossy runs are dropped; terminal events are never dropped.
type EventRecorder struct {
	queue   i.SortedQueue
	logger  i.Logger
	prefix  string
	records chan record
	dropped atomic.Int64
	wg      sync.WaitGroup
}

// NewEventRecorder starts a recorder writing to queue under keys that start with prefix.
func NewEventRecorder(queue i.SortedQueue, logger i.Logger, prefix string, buffer int) (*EventRecorder, error) {
	if queue == nil {
		return nil, errors.New("event recorder needs a queue")
	}
	if logger == nil {
		return nil, errors.New("event recorder needs a logger")
	}
	if buffer <= 0 {
		buffer = defaultRecorderBuffer
	}

	r := &EventRecorder{
		queue:   queue,
		logger:  logger,
		prefix:  prefix,
		records: make(chan record, buffer),
	}
	r.wg.Add(1)
	go r.flush()
	return r, nil
}

// Key returns the queue key holding the events of a run.
func (r *EventRecorder) Key(runID uuid.UUID) string {
	return fmt.Sprintf("%s:run:%s:events", r.prefix, runID)
}

// ForRun returns the observer recording the events of one run. Terminal
// events always wait for room in the buffer. With lossless set every event
// does, which slows the run down to the pace of the queue.
func (r *EventRecorder) ForRun(runID uuid.UUID, lossless bool) maze.Observer {
	return &runRecorder{
		recorder: r,
		key:      r.Key(runID),
		lossless: lossless,
		open:     make(map[maze.Pos]struct{}),
	}
}

// Poll removes and returns up to limit of the oldest recorded events of a run.
func (r *EventRecorder) Poll(ctx context.Context, runID uuid.UUID, limit int64) ([]domain.Event, error) {
	members, err := r.queue.DequeTops(ctx, r.Key(runID), limit)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(members))
	for _, m := range members {
		var e domain.Event
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			r.logger.Warning(fmt.Sprintf("skipping malformed event of run %s: %s", runID, err))
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// Pending returns the number of events of a run not polled yet.
func (r *EventRecorder) Pending(ctx context.Context, runID uuid.UUID) int64 {
	return r.queue.Count(ctx, r.Key(runID))
}

// Dropped returns the number of events lost to a full buffer.
func (r *EventRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close flushes the buffered events and stops the recorder. The recorder must
// not receive events afterwards.
func (r *EventRecorder) Close() {
	close(r.records)
	r.wg.Wait()
}

// push hands e to the flushing goroutine. When wait is false and the buffer
// is full, e is dropped.
func (r *EventRecorder) push(key string, e domain.Event, wait bool) {
	rec := record{key: key, event: e}
	if wait {
		r.records <- rec
		return
	}

	select {
	case r.records <- rec:
	default:
		if r.dropped.Add(1) == 1 {
			r.logger.Warning("event buffer is full, dropping events")
		}
	}
}

func (r *EventRecorder) flush() {
	defer r.wg.Done()

	for rec := range r.records {
		member, err := json.Marshal(rec.event)
		if err != nil {
			r.logger.Error(fmt.Sprintf("encoding %s event: %s", rec.event.Type, err))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		err = r.queue.Enqueue(ctx, rec.key, float64(rec.event.Seq), string(member))
		cancel()
		if err != nil {
			r.logger.Error(fmt.Sprintf("storing %s event: %s", rec.event.Type, err))
		}
	}
}

// runRecorder numbers the events of a single run.
//
// Search steps are stored as changes: the cell closed by the step and the
// cells that entered the open set. Replaying them rebuilds both sets.
type runRecorder struct {
	recorder *EventRecorder
	key      string
	lossless bool
	seq      atomic.Int64

	open   map[maze.Pos]struct{}
	closed int
}

func (rr *runRecorder) emit(e domain.Event, terminal bool) {
	e.Seq = rr.seq.Add(1)
	rr.recorder.push(rr.key, e, terminal || rr.lossless)
}

func (rr *runRecorder) CellVisited(c maze.Pos) {
	rr.emit(domain.Event{Type: domain.EventCellVisited, Cell: &c}, false)
}

func (rr *runRecorder) WallCarved(a, b maze.Pos, d maze.Direction) {
	rr.emit(domain.Event{Type: domain.EventWallCarved, Cell: &a, Neighbor: &b, Direction: d.String()}, false)
}

func (rr *runRecorder) MazeComplete(entry, exit maze.Pos) {
	rr.emit(domain.Event{Type: domain.EventMazeComplete, Entry: &entry, Exit: &exit}, true)
}

func (rr *runRecorder) SearchStep(current maze.Pos, open, closed []maze.Pos) {
	e := domain.Event{Type: domain.EventSearchStep, Cell: &current}

	if len(closed) > rr.closed {
		e.Closed = append([]maze.Pos(nil), closed[rr.closed:]...)
		rr.closed = len(closed)
	}
	for _, p := range e.Closed {
		delete(rr.open, p)
	}
	for _, p := range open {
		if _, ok := rr.open[p]; !ok {
			rr.open[p] = struct{}{}
			e.Opened = append(e.Opened, p)
		}
	}

	rr.emit(e, false)
}

func (rr *runRecorder) PathFound(path []maze.Pos) {
	rr.emit(domain.Event{Type: domain.EventPathFound, Path: path}, true)
}

func (rr *runRecorder) PathNotFound() {
	rr.emit(domain.Event{Type: domain.EventPathNotFound}, true)
}
