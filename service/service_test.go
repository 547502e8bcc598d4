package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/infrastruture/memory"
	"github.com/stretchr/testify/require"
)

// recordingLogger keeps every line it is given.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Info(msg string)    { l.add("INFO", msg) }
func (l *recordingLogger) Warning(msg string) { l.add("WARN", msg) }
func (l *recordingLogger) Error(msg string)   { l.add("ERROR", msg) }

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+msg)
}

func (l *recordingLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// countingCache wraps a memory cache and counts hits.
type countingCache struct {
	*memory.SolutionCache
	hits int
	fail error
}

func (c *countingCache) Get(ctx context.Context, key string) (*flood.Solution, bool, error) {
	if c.fail != nil {
		return nil, false, c.fail
	}
	sol, ok, err := c.SolutionCache.Get(ctx, key)
	if ok {
		c.hits++
	}
	return sol, ok, err
}

// fakeTokenizer issues readable tokens.
type fakeTokenizer struct {
	last map[string]interface{}
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, exp time.Duration) (string, error) {
	f.last = claims
	return fmt.Sprintf("token-%v-%s", claims[ClaimUsername], exp), nil
}

func (f *fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return f.last, nil
}

type fixture struct {
	svc    *MazeService
	repo   *memory.MazeRepo
	cache  *countingCache
	logger *recordingLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   memory.NewMazeRepo(),
		cache:  &countingCache{SolutionCache: memory.NewSolutionCache(time.Minute)},
		logger: &recordingLogger{},
	}
	svc, err := NewMazeService(&MazeServiceConfig{
		Repo:   f.repo,
		Cache:  f.cache,
		Locker: memory.NewLocker(),
		Logger: f.logger,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}
