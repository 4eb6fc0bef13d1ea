// Package mazeapi provides the request and response shapes of the maze endpoints.
package mazeapi

import "github.com/google/uuid"

// GenerateRequest carries the requested maze size as typed by the operator.
type GenerateRequest struct {
	Size string `form:"size"`
}

// PointDTO is either a cell index or, for world requests, a position in world units.
type PointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathRequest asks for a path to Goal. Without Start the search begins at the agent.
type PathRequest struct {
	Start *PointDTO `json:"start"`
	Goal  *PointDTO `json:"goal" binding:"required"`
	World bool      `json:"world"`
}

// RunAcceptedResponse identifies the run started by a request.
type RunAcceptedResponse struct {
	RunID uuid.UUID `json:"run_id"`
	Size  int       `json:"size,omitempty"`
}

// EventsQuery bounds the number of events returned by one poll.
type EventsQuery struct {
	Limit int64 `form:"limit"`
}
