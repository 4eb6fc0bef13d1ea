// Package stepper defines the cooperative stepping contract shared by the
// maze carver and the pathfinder.
//
// An Executor advances one atomic unit of work per Step call. A host either
// runs it to completion with Run or paces it with Drive to animate it.
package stepper

import (
	"context"
	"errors"
	"time"
)

// Status is the outcome of a single step.
type Status int

const (
	Continue Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further steps will be taken.
func (s Status) Terminal() bool {
	return s != Continue
}

// ErrCanceled is the failure reason of an aborted executor.
var ErrCanceled = errors.New("operation canceled")

// Executor is a resumable algorithm.
//
// Step commits all mutations of one unit of work before returning. When it
// returns Failed the error explains why; otherwise the error is nil.
// Abort discards in-progress state; every later Step returns Failed with
// ErrCanceled.
type Executor interface {
	Step() (Status, error)
	Abort()
}

// Run steps e until it reaches a terminal status. Cancellation of ctx is
// observed between steps; e is then aborted and ErrCanceled returned.
func Run(ctx context.Context, e Executor) error {
	for {
		select {
		case <-ctx.Done():
			e.Abort()
			return ErrCanceled
		default:
		}

		status, err := e.Step()
		if status.Terminal() {
			return err
		}
	}
}

// Drive steps e once per interval, yielding between steps. A non-positive
// interval behaves like Run.
func Drive(ctx context.Context, e Executor, interval time.Duration) error {
	if interval <= 0 {
		return Run(ctx, e)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := e.Step()
		if status.Terminal() {
			return err
		}

		select {
		case <-ctx.Done():
			e.Abort()
			return ErrCanceled
		case <-ticker.C:
		}
	}
}
