// Package mazeapi exposes the maze engine over HTTP.
package mazeapi

import (
	"errors"
	"math"
	"net/http"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/pathfinder"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

// Config holds the dependencies and size limits of a MazeController.
type Config struct {
	Engine      i.MazeEngine
	Runs        i.RunRepo
	Events      i.EventSource
	DefaultSize int
	MinSize     int
	MaxSize     int // exclusive
}

// MazeController manages maze generation and pathfinding requests.
type MazeController struct {
	engine      i.MazeEngine
	runs        i.RunRepo
	events      i.EventSource
	defaultSize int
	minSize     int
	maxSize     int
}

// NewMazeController initializes a MazeController.
func NewMazeController(c Config) (*MazeController, error) {
	if c.Engine == nil || c.Runs == nil || c.Events == nil {
		return nil, errors.New("maze controller needs an engine, a run repository and an event source")
	}
	if c.MinSize <= 0 || c.MaxSize <= c.MinSize {
		return nil, errors.New("maze controller needs a valid size range")
	}

	return &MazeController{
		engine:      c.Engine,
		runs:        c.Runs,
		events:      c.Events,
		defaultSize: c.DefaultSize,
		minSize:     c.MinSize,
		maxSize:     c.MaxSize,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/maze", mc.snapshot)

	runs := route.Group("/runs")
	{
		runs.GET("/:ID", mc.run)
		runs.GET("/:ID/events", mc.runEvents)
	}
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/maze", mc.generate)
	route.POST("/paths", mc.findPath)
	route.DELETE("/operations/current", mc.cancel)
}

// generate replaces the maze with a new one of the clamped requested size.
func (mc *MazeController) generate(ctx *gin.Context) {
	var request GenerateRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	size := service.ClampSize(request.Size, mc.defaultSize, mc.minSize, mc.maxSize)
	runID, err := mc.engine.GenerateMaze(ctx.Request.Context(), size)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, &RunAcceptedResponse{RunID: runID, Size: size})
}

// findPath starts a search to the requested goal.
func (mc *MazeController) findPath(ctx *gin.Context) {
	var request PathRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, ok := mc.engine.Snapshot()
	if !ok {
		ctx.JSON(http.StatusConflict, gin.H{"error": service.ErrMazeNotReady.Error()})
		return
	}

	goal, err := toPos(request.Goal, request.World, snapshot.Size)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var runID uuid.UUID
	if request.Start == nil {
		runID, err = mc.engine.FindPathFromAgent(ctx.Request.Context(), goal)
	} else {
		var start maze.Pos
		if start, err = toPos(request.Start, request.World, snapshot.Size); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		runID, err = mc.engine.FindPath(ctx.Request.Context(), start, goal)
	}
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, &RunAcceptedResponse{RunID: runID})
}

// cancel stops the running operation.
func (mc *MazeController) cancel(ctx *gin.Context) {
	mc.engine.Cancel()
	ctx.Status(http.StatusNoContent)
}

// snapshot returns the current maze state.
func (mc *MazeController) snapshot(ctx *gin.Context) {
	snapshot, ok := mc.engine.Snapshot()
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no maze yet"})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// run retrieves the summary of a finished run.
func (mc *MazeController) run(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := mc.runs.ByID(ctx, ID)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, run)
}

// runEvents pops the oldest recorded events of a run.
func (mc *MazeController) runEvents(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	var query EventsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit <= 0 {
		query.Limit = defaultEventsLimit
	}
	if query.Limit > maxEventsLimit {
		query.Limit = maxEventsLimit
	}

	events, err := mc.events.Poll(ctx, ID, query.Limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading events"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"events": events})
}

// toPos converts a request point to a cell index. World points are clamped
// into the grid; index points must be whole numbers.
func toPos(p *PointDTO, world bool, size int) (maze.Pos, error) {
	if world {
		return service.ClampPos(p.X, p.Y, size), nil
	}
	if p.X != math.Trunc(p.X) || p.Y != math.Trunc(p.Y) {
		return maze.Pos{}, errors.New("cell coordinates must be whole numbers")
	}
	return maze.Pos{X: int(p.X), Y: int(p.Y)}, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrMazeNotReady), errors.Is(err, service.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, pathfinder.ErrInvalidCells), errors.Is(err, maze.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
