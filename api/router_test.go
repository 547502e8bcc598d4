package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beka-birhanu/mazeflood/api/i"
	"github.com/beka-birhanu/mazeflood/api/identity"
	mazeapi "github.com/beka-birhanu/mazeflood/api/maze"
	"github.com/beka-birhanu/mazeflood/infrastruture/memory"
	"github.com/beka-birhanu/mazeflood/infrastruture/pbwire"
	"github.com/beka-birhanu/mazeflood/infrastruture/token"
	"github.com/beka-birhanu/mazeflood/logger"
	"github.com/beka-birhanu/mazeflood/maze"
	"github.com/beka-birhanu/mazeflood/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "k7#Vq9!mazeRunner$2"
	tinyText     = "o---o---o\n| G     |\no   o   o\n| S     |\no---o---o\n"
)

type server struct {
	t      *testing.T
	engine *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	log, err := logger.New("TEST", "", io.Discard)
	require.NoError(t, err)

	tokenizer := token.NewJwtService("test-secret", "mazeflood-test")
	auth, err := service.NewAuthService(memory.NewEditorRepo(), tokenizer, log)
	require.NoError(t, err)

	encoder := pbwire.NewEncoder()
	mazes, err := service.NewMazeService(&service.MazeServiceConfig{
		Repo:   memory.NewMazeRepo(),
		Cache:  memory.NewSolutionCache(time.Minute),
		Locker: memory.NewLocker(),
		Logger: log,
	})
	require.NoError(t, err)
	mazeController, err := mazeapi.NewMazeController(mazes, mazes, encoder)
	require.NoError(t, err)

	router := NewRouter(Config{
		BaseURL:                 "/api",
		GinMode:                 gin.TestMode,
		Controllers:             []i.Controller{identity.NewIdentityServer(auth), mazeController},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
	})
	return &server{t: t, engine: router.Engine()}
}

func (s *server) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(username string) string {
	s.t.Helper()
	creds := gin.H{"username": username, "password": testPassword}
	rec := s.do(http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var res identity.AuthResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthRoutes(t *testing.T) {
	s := newServer(t)
	s.login("mouse")

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "mouse", "password": testPassword})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad password is unauthorized", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "mouse", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "mouse"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMazeRoutes(t *testing.T) {
	s := newServer(t)
	owner := s.login("owner")
	other := s.login("other")

	rec := s.do(http.MethodPost, "/api/v1/mazes", owner, gin.H{"name": "tiny", "mode": "text", "text": tinyText})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[mazeapi.MazeResponse](t, rec)
	base := "/api/v1/mazes/" + created.ID

	t.Run("protected routes need a token", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/mazes", "", gin.H{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = s.do(http.MethodPost, "/api/v1/mazes", "garbage", gin.H{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("get is public", func(t *testing.T) {
		rec := s.do(http.MethodGet, base, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[mazeapi.MazeResponse](t, rec)
		assert.Equal(t, tinyText, got.Text)
		assert.Equal(t, []mazeapi.CellDTO{{X: 0, Y: 1}}, got.Goals)

		rec = s.do(http.MethodGet, base+"/text", "", nil)
		assert.Equal(t, tinyText, rec.Body.String())
	})

	t.Run("solution", func(t *testing.T) {
		rec := s.do(http.MethodGet, base+"/solution", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		sol := decode[mazeapi.SolutionResponse](t, rec)
		assert.True(t, sol.Found)
		assert.Equal(t, 1, sol.Steps)
		assert.Equal(t, []mazeapi.StepDTO{{X: 0, Y: 0, Heading: "North"}, {X: 0, Y: 1}}, sol.Path)
		require.NotNil(t, sol.Costs[1][0])
		assert.Equal(t, 0, *sol.Costs[1][0])
		assert.Equal(t, 1, *sol.Costs[0][0])
	})

	t.Run("edit walls", func(t *testing.T) {
		body := gin.H{"x": 0, "y": 0, "direction": "n", "action": "set"}
		rec := s.do(http.MethodPut, base+"/walls", other, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(http.MethodPut, base+"/walls", owner, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Greater(t, decode[mazeapi.MazeResponse](t, rec).Version, created.Version)

		rec = s.do(http.MethodPut, base+"/walls", owner, gin.H{"x": 0, "y": 0, "direction": "up", "action": "set"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(http.MethodPut, base+"/walls", owner, gin.H{"x": 7, "y": 0, "direction": "n", "action": "set"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(http.MethodPut, base+"/walls", owner, gin.H{"x": 0, "y": 0, "direction": "n", "action": "paint"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("solution follows the edit", func(t *testing.T) {
		rec := s.do(http.MethodGet, base+"/solution", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		sol := decode[mazeapi.SolutionResponse](t, rec)
		assert.Equal(t, 3, sol.Steps)
	})

	t.Run("custom roots", func(t *testing.T) {
		rec := s.do(http.MethodGet, base+"/solution?roots=1,0", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		sol := decode[mazeapi.SolutionResponse](t, rec)
		assert.Equal(t, []mazeapi.CellDTO{{X: 1, Y: 0}}, sol.Roots)
		assert.Equal(t, 1, sol.Steps)

		rec = s.do(http.MethodGet, base+"/solution?roots=1,0&roots=1,1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		sol = decode[mazeapi.SolutionResponse](t, rec)
		assert.Equal(t, []mazeapi.CellDTO{{X: 1, Y: 0}, {X: 1, Y: 1}}, sol.Roots)
		assert.Equal(t, 1, sol.Steps)

		rec = s.do(http.MethodGet, base+"/solution?roots=1", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(http.MethodGet, base+"/solution?roots=1,0%3B1,1", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(http.MethodGet, base+"/solution?roots=5,5", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("binary solution decodes", func(t *testing.T) {
		rec := s.do(http.MethodGet, base+"/solution.bin", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/x-protobuf", rec.Header().Get("Content-Type"))
		sol, err := pbwire.NewEncoder().UnmarshalSolution(rec.Body.Bytes())
		require.NoError(t, err)
		assert.True(t, sol.Found)
	})

	t.Run("goals and start", func(t *testing.T) {
		rec := s.do(http.MethodPost, base+"/goals", owner, gin.H{"x": 1, "y": 1})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decode[mazeapi.MazeResponse](t, rec).Goals, 2)

		rec = s.do(http.MethodPut, base+"/start", owner, gin.H{"cells": []gin.H{{"x": 1, "y": 0}}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []mazeapi.CellDTO{{X: 1, Y: 0}}, decode[mazeapi.MazeResponse](t, rec).Start)

		rec = s.do(http.MethodPut, base+"/start", owner, gin.H{"cells": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("classic binary export", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/mazes", owner, gin.H{"name": "classic", "mode": "generate", "seed": 4})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		classic := decode[mazeapi.MazeResponse](t, rec)
		assert.Equal(t, maze.ClassicSize, classic.Size)

		rec = s.do(http.MethodGet, "/api/v1/mazes/"+classic.ID+"/maz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Body.Bytes(), maze.BinarySize)

		rec = s.do(http.MethodGet, base+"/maz", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/mazes", owner, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[struct {
			Mazes []mazeapi.MazeSummary `json:"mazes"`
		}](t, rec)
		assert.Len(t, list.Mazes, 2)

		rec = s.do(http.MethodDelete, base, other, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		rec = s.do(http.MethodDelete, base, owner, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(http.MethodGet, base, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad ids", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/mazes/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(http.MethodGet, fmt.Sprintf("/api/v1/mazes/%s/solution", "6f1c2b9e-0b7a-4d2e-9d7b-1f2a3b4c5d6e"), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
