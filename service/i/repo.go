package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// RunRepo defines the interface for run summary persistence.
type RunRepo interface {
	// Save inserts or updates a run.
	// If the run already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, run *domain.Run) error

	// ByID retrieves a run by its unique ID.
	// Returns an error if the run is not found or in case of an unexpected error.
	ByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
}
