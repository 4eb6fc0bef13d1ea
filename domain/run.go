// Package domain holds the records the maze service keeps about its operations.
package domain

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned by run stores for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// RunKind names the algorithm an operation ran.
type RunKind string

const (
	RunGenerate RunKind = "generate"
	RunFindPath RunKind = "find_path"
)

// RunStatus is the outcome of an operation.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Run summarises one maze generation or pathfinding operation. It never
// carries the walls of the maze itself.
type Run struct {
	ID         uuid.UUID  `bson:"-" json:"id"`
	Kind       RunKind    `bson:"kind" json:"kind"`
	Status     RunStatus  `bson:"status" json:"status"`
	Size       int        `bson:"size" json:"size"`
	Seed       int64      `bson:"seed,omitempty" json:"seed,omitempty"`
	Start      *maze.Pos  `bson:"start,omitempty" json:"start,omitempty"`
	Goal       *maze.Pos  `bson:"goal,omitempty" json:"goal,omitempty"`
	Path       []maze.Pos `bson:"path,omitempty" json:"path,omitempty"`
	Steps      int        `bson:"steps" json:"steps"`
	Expanded   int        `bson:"expanded,omitempty" json:"expanded,omitempty"`
	Error      string     `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt  time.Time  `bson:"startedAt" json:"started_at"`
	FinishedAt time.Time  `bson:"finishedAt,omitempty" json:"finished_at,omitempty"`
}

// NewRun starts the record of an operation.
func NewRun(kind RunKind, size int) *Run {
	return &Run{
		ID:        uuid.New(),
		Kind:      kind,
		Status:    RunRunning,
		Size:      size,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the outcome of the operation.
func (r *Run) Finish(status RunStatus, err error) {
	r.Status = status
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns how long the operation ran, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
