package i

import "github.com/beka-birhanu/mazeflood/flood"

// SolutionEncoder converts solutions to and from a binary form.
type SolutionEncoder interface {
	MarshalSolution(*flood.Solution) ([]byte, error)
	UnmarshalSolution([]byte) (*flood.Solution, error)
}
