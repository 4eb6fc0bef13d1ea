package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// EventSource hands out the recorded events of a run, oldest first.
type EventSource interface {
	// Poll removes and returns up to limit events of the run.
	Poll(ctx context.Context, runID uuid.UUID, limit int64) ([]domain.Event, error)
}
