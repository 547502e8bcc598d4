package i

import (
	"context"

	"github.com/beka-birhanu/mazeflood/flood"
)

// SolutionCache stores solved mazes. Keys embed the grid version, so an edit never hits a stale entry.
type SolutionCache interface {
	// Get returns the cached solution, or ok=false on a miss.
	Get(ctx context.Context, key string) (sol *flood.Solution, ok bool, err error)
	Set(ctx context.Context, key string, sol *flood.Solution) error
}
