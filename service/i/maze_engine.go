package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// Snapshot is a read-only view of the engine state.
type Snapshot struct {
	Size      int        `json:"size"`
	Ready     bool       `json:"ready"`
	Active    string     `json:"active,omitempty"`
	RunID     uuid.UUID  `json:"run_id"`
	Entry     maze.Pos   `json:"entry"`
	EntryWall string     `json:"entry_wall"`
	Exit      *maze.Pos  `json:"exit,omitempty"`
	ExitWall  string     `json:"exit_wall,omitempty"`
	Agent     maze.Pos   `json:"agent"`
	Path      []maze.Pos `json:"path,omitempty"`
	Rendering string     `json:"rendering"`
}

// MazeEngine generates one maze at a time and finds paths through it.
type MazeEngine interface {
	// GenerateMaze replaces the current maze with a new one of the given size.
	GenerateMaze(ctx context.Context, size int) (uuid.UUID, error)

	// FindPath searches a path between two cells of the current maze.
	FindPath(ctx context.Context, start, goal maze.Pos) (uuid.UUID, error)

	// FindPathFromAgent searches a path from the agent position to goal.
	FindPathFromAgent(ctx context.Context, goal maze.Pos) (uuid.UUID, error)

	// Cancel stops the operation in progress, if any.
	Cancel()

	// Snapshot returns the current state of the maze.
	Snapshot() (Snapshot, bool)
}
