package domain

import "github.com/beka-birhanu/vinom-maze/maze"

// Event types of recorded algorithm events.
const (
	EventCellVisited  = "cell_visited"
	EventWallCarved   = "wall_carved"
	EventMazeComplete = "maze_complete"
	EventSearchStep   = "search_step"
	EventPathFound    = "path_found"
	EventPathNotFound = "path_not_found"
)

// Event is the stored form of an algorithm event of a run. A search step
// carries only what changed: Closed holds the cell the step closed and
// Opened the cells that entered the open set.
type Event struct {
	Seq       int64      `json:"seq"`
	Type      string     `json:"type"`
	Cell      *maze.Pos  `json:"cell,omitempty"`
	Neighbor  *maze.Pos  `json:"neighbor,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Entry     *maze.Pos  `json:"entry,omitempty"`
	Exit      *maze.Pos  `json:"exit,omitempty"`
	Opened    []maze.Pos `json:"opened,omitempty"`
	Closed    []maze.Pos `json:"closed,omitempty"`
	Path      []maze.Pos `json:"path,omitempty"`
}
