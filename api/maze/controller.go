package mazeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/beka-birhanu/mazeflood/api/identity"
	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/beka-birhanu/mazeflood/service"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contentTypeProtobuf = "application/x-protobuf"
	contentTypeBinary   = "application/octet-stream"
)

var errBadRoots = errors.New("each roots value must look like x,y")

// MazeController serves maze editing and solving.
type MazeController struct {
	editor  i.MazeEditor
	solver  i.MazeSolver
	encoder i.SolutionEncoder
}

// NewMazeController initializes a MazeController.
func NewMazeController(e i.MazeEditor, s i.MazeSolver, enc i.SolutionEncoder) (*MazeController, error) {
	if e == nil || s == nil || enc == nil {
		return nil, service.ErrNilDependency
	}
	return &MazeController{
		editor:  e,
		solver:  s,
		encoder: enc,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.GET("/:ID", mc.get)
		mazes.GET("/:ID/text", mc.text)
		mazes.GET("/:ID/maz", mc.binary)
		mazes.GET("/:ID/solution", mc.solution)
		mazes.GET("/:ID/solution.bin", mc.solutionBinary)
	}
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.GET("", mc.list)
		mazes.POST("", mc.create)
		mazes.DELETE("/:ID", mc.delete)
		mazes.PUT("/:ID/walls", mc.wall)
		mazes.POST("/:ID/goals", mc.goal)
		mazes.PUT("/:ID/start", mc.start)
	}
}

func (mc *MazeController) get(ctx *gin.Context) {
	m, ok := mc.load(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, toMazeResponse(m))
}

func (mc *MazeController) text(ctx *gin.Context) {
	m, ok := mc.load(ctx)
	if !ok {
		return
	}
	ctx.String(http.StatusOK, m.Grid.Text())
}

func (mc *MazeController) binary(ctx *gin.Context) {
	m, ok := mc.load(ctx)
	if !ok {
		return
	}
	data, err := m.Grid.Binary()
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.ID.String()+".maz"))
	ctx.Data(http.StatusOK, contentTypeBinary, data)
}

func (mc *MazeController) solution(ctx *gin.Context) {
	sol, m, ok := mc.solve(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, toSolutionResponse(m, sol))
}

func (mc *MazeController) solutionBinary(ctx *gin.Context) {
	sol, _, ok := mc.solve(ctx)
	if !ok {
		return
	}
	data, err := mc.encoder.MarshalSolution(sol)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, contentTypeProtobuf, data)
}

func (mc *MazeController) list(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	mazes, err := mc.editor.ListByOwner(ctx.Request.Context(), editorID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	summaries := make([]MazeSummary, len(mazes))
	for i, m := range mazes {
		summaries[i] = toMazeSummary(m)
	}
	ctx.JSON(http.StatusOK, gin.H{"mazes": summaries})
}

func (mc *MazeController) create(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	var request CreateMazeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	size := request.Size
	if size == 0 {
		size = maze.ClassicSize
	}

	var (
		m   *dmn.Maze
		err error
		c   = ctx.Request.Context()
	)
	switch request.Mode {
	case CreateGenerate:
		m, err = mc.editor.Generate(c, editorID, request.Name, size, request.Seed)
	case CreateText:
		m, err = mc.editor.Import(c, editorID, request.Name, strings.NewReader(request.Text))
	case CreateBinary:
		m, err = mc.editor.ImportBinary(c, editorID, request.Name, request.Binary)
	default:
		m, err = mc.editor.Create(c, editorID, request.Name, size)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toMazeResponse(m))
}

func (mc *MazeController) delete(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	id, ok := mazeID(ctx)
	if !ok {
		return
	}
	if err := mc.editor.Delete(ctx.Request.Context(), editorID, id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (mc *MazeController) wall(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	id, ok := mazeID(ctx)
	if !ok {
		return
	}
	var request WallRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := maze.ParseDirection(request.Direction)
	if err != nil {
		writeError(ctx, err)
		return
	}

	cell := maze.CellPosition{X: *request.X, Y: *request.Y}
	c := ctx.Request.Context()
	var m *dmn.Maze
	switch request.Action {
	case WallSet:
		m, err = mc.editor.SetWall(c, editorID, id, cell, d)
	case WallClear:
		m, err = mc.editor.ClearWall(c, editorID, id, cell, d)
	default:
		m, err = mc.editor.ToggleWall(c, editorID, id, cell, d)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toMazeResponse(m))
}

func (mc *MazeController) goal(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	id, ok := mazeID(ctx)
	if !ok {
		return
	}
	var request GoalRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cell := maze.CellPosition{X: *request.X, Y: *request.Y}
	m, err := mc.editor.ToggleGoal(ctx.Request.Context(), editorID, id, cell)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toMazeResponse(m))
}

func (mc *MazeController) start(ctx *gin.Context) {
	editorID, ok := editor(ctx)
	if !ok {
		return
	}
	id, ok := mazeID(ctx)
	if !ok {
		return
	}
	var request StartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := mc.editor.SetStart(ctx.Request.Context(), editorID, id, cellsFromDTO(request.Cells)...)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toMazeResponse(m))
}

func (mc *MazeController) load(ctx *gin.Context) (*dmn.Maze, bool) {
	id, ok := mazeID(ctx)
	if !ok {
		return nil, false
	}
	m, err := mc.editor.Get(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return nil, false
	}
	return m, true
}

func (mc *MazeController) solve(ctx *gin.Context) (*flood.Solution, *dmn.Maze, bool) {
	id, ok := mazeID(ctx)
	if !ok {
		return nil, nil, false
	}
	roots, err := parseRoots(ctx.QueryArray("roots"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	sol, m, err := mc.solver.Solve(ctx.Request.Context(), id, roots)
	if err != nil {
		writeError(ctx, err)
		return nil, nil, false
	}
	return sol, m, true
}

func mazeID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, false
	}
	return id, true
}

func editor(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := identity.EditorID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
	return id, ok
}

// parseRoots reads repeated roots=x,y query values. No values means the maze's goals.
func parseRoots(values []string) ([]maze.CellPosition, error) {
	var roots []maze.CellPosition
	for _, v := range values {
		xs, ys, found := strings.Cut(v, ",")
		if !found {
			return nil, fmt.Errorf("%w: %q", errBadRoots, v)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadRoots, v)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadRoots, v)
		}
		roots = append(roots, maze.CellPosition{X: x, Y: y})
	}
	return roots, nil
}

// writeError maps service errors to status codes.
func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dmn.ErrMazeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, flood.ErrStaleSolution):
		status = http.StatusConflict
	case errors.Is(err, maze.ErrInvalidSize),
		errors.Is(err, maze.ErrInvalidDirection),
		errors.Is(err, maze.ErrCellOutOfBounds),
		errors.Is(err, maze.ErrEmptyMazeText),
		errors.Is(err, maze.ErrInvalidBinary),
		errors.Is(err, flood.ErrNoRoots),
		errors.Is(err, flood.ErrRootOutOfBounds),
		errors.Is(err, dmn.ErrMazeNameEmpty),
		errors.Is(err, dmn.ErrMazeNameTooLong):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
